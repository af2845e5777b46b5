// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	apperrors "tokensession/cli/internal/errors"
	"tokensession/cli/internal/logging"
)

const headerRequestID = "X-Request-ID"

// maxAttempts bounds a call to the original send plus one replay.
const maxAttempts = 2

// Client is the authenticated client: it attaches the stored access token to
// every call and, when the server answers 403, renews the token once and
// replays the identical request once.
type Client struct {
	http    *HTTP
	session Session
}

// NewClient wraps h with bearer-token injection backed by session.
func NewClient(h *HTTP, session Session) *Client {
	return &Client{http: h, session: session}
}

// pendingRequest is the description of a call kept for its single replay.
type pendingRequest struct {
	endpoint  string
	method    string
	body      []byte
	requestID string
}

func newPendingRequest(endpoint, method string, body any) (*pendingRequest, error) {
	pr := &pendingRequest{
		endpoint:  endpoint,
		method:    strings.ToUpper(method),
		requestID: uuid.NewString(),
	}
	if pr.method == "" {
		pr.method = http.MethodGet
	}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		pr.body = b
	}
	return pr, nil
}

// Request sends method endpoint with body (JSON-encoded when non-nil) and
// returns the decoded JSON response. A 2xx response with an empty body
// yields nil.
func (c *Client) Request(ctx context.Context, endpoint, method string, body any) (any, error) {
	raw, err := c.RequestRaw(ctx, endpoint, method, body)
	if err != nil || raw == nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperrors.Wrap(apperrors.MalformedResponse, "decode response of "+method+" "+endpoint, err)
	}
	return out, nil
}

// RequestInto is Request decoding the response into out.
func (c *Client) RequestInto(ctx context.Context, endpoint, method string, body, out any) error {
	raw, err := c.RequestRaw(ctx, endpoint, method, body)
	if err != nil || raw == nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Wrap(apperrors.MalformedResponse, "decode response of "+method+" "+endpoint, err)
	}
	return nil
}

// RequestRaw runs the refresh-and-replay cycle and returns the raw 2xx body,
// checked to be valid JSON. It returns nil for an empty 2xx body.
//
// Outcomes:
//   - 2xx: body
//   - 403 on the first send: renew the token; on success replay once and
//     return the replay's outcome (a second 403 is returned as
//     ServerRejected); on failure log out and return Unauthenticated
//   - other non-2xx: ServerRejected with the status
//   - transport failure: NetworkFailure, never a refresh
func (c *Client) RequestRaw(ctx context.Context, endpoint, method string, body any) ([]byte, error) {
	pr, err := newPendingRequest(endpoint, method, body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	token, err := c.session.AccessToken()
	if err != nil {
		// The server decides whether the endpoint needs a token.
		c.http.logger.Warn("cannot read access token", c.http.logger.Args("error", err.Error()))
		token = ""
	}

	var resp *response
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err = c.send(ctx, pr, token)
		if err != nil {
			return nil, err
		}
		if resp.status != http.StatusForbidden || attempt == maxAttempts {
			break
		}

		c.http.logger.Info("access token refused, refreshing",
			c.http.logger.Args("endpoint", logging.Mask(pr.endpoint), "request_id", pr.requestID))

		token, err = c.session.RenewAfter(ctx, token)
		if err != nil {
			return nil, c.endSession(ctx, pr, err)
		}
	}

	return decodeBody(pr, resp)
}

// send issues one attempt of pr.
func (c *Client) send(ctx context.Context, pr *pendingRequest, token string) (*response, error) {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set(headerRequestID, pr.requestID)
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	return c.http.do(ctx, pr.method, pr.endpoint, pr.body, header)
}

// endSession logs out after a failed renewal and reports Unauthenticated.
func (c *Client) endSession(ctx context.Context, pr *pendingRequest, cause error) error {
	c.http.logger.Warn("token refresh failed, logging out",
		c.http.logger.Args("kind", string(apperrors.KindOf(cause)), "request_id", pr.requestID))
	if err := c.session.Logout(ctx); err != nil {
		c.http.logger.Error("logout after failed refresh", c.http.logger.Args("error", err.Error()))
	}
	return apperrors.Wrap(apperrors.Unauthenticated, "session expired, log in again", cause)
}

func decodeBody(pr *pendingRequest, resp *response) ([]byte, error) {
	if !isSuccess(resp.status) {
		return nil, apperrors.WithStatus(apperrors.ServerRejected, resp.status,
			pr.method+" "+logging.Mask(pr.endpoint)+": "+logging.Mask(errorMessage(resp.body)))
	}
	if len(bytes.TrimSpace(resp.body)) == 0 {
		return nil, nil
	}
	if !json.Valid(resp.body) {
		return nil, apperrors.New(apperrors.MalformedResponse, "response of "+pr.method+" "+logging.Mask(pr.endpoint)+" is not JSON")
	}
	return resp.body, nil
}
