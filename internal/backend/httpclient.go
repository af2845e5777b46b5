// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pterm/pterm"

	apperrors "tokensession/cli/internal/errors"
	"tokensession/cli/internal/httperrors"
	"tokensession/cli/internal/logging"
	"tokensession/cli/internal/manifest"
)

// DefaultTimeout bounds every HTTP exchange unless overridden.
const DefaultTimeout = 30 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20

// UserAgent is sent on every request.
var UserAgent = "tokensession-cli/dev"

// HTTP implements API over REST endpoints.
type HTTP struct {
	// manifest holds the base URL and endpoint paths
	manifest *manifest.Manifest
	// client is the underlying HTTP client with configured timeout
	client *http.Client
	logger *pterm.Logger
}

// Option configures the HTTP backend.
type Option func(*HTTP)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) {
		h.client = c
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) {
		if d > 0 {
			h.client = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *pterm.Logger) Option {
	return func(h *HTTP) {
		h.logger = l
	}
}

// New creates the REST backend for the endpoints in m.
func New(m *manifest.Manifest, opts ...Option) *HTTP {
	h := &HTTP{
		manifest: m,
		client:   &http.Client{Timeout: DefaultTimeout},
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Manifest returns the endpoint configuration.
func (h *HTTP) Manifest() *manifest.Manifest { return h.manifest }

// response is a fully read HTTP response.
type response struct {
	status int
	header http.Header
	body   []byte
}

// setStandardHeaders applies headers common to every request.
func (h *HTTP) setStandardHeaders(req *http.Request) {
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")
}

// do sends one request and reads the whole body. Transport failures,
// including failures while reading the body, are NetworkFailure errors.
func (h *HTTP) do(ctx context.Context, method, endpoint string, body []byte, header http.Header) (*response, error) {
	target := h.manifest.URL(endpoint)

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.NetworkFailure, "build request "+method+" "+endpoint, err)
	}
	h.setStandardHeaders(req)
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Debug("request failed", h.logger.Args(
			"method", method,
			"endpoint", logging.Mask(endpoint),
			"cause", string(httperrors.Classify(err)),
		))
		return nil, apperrors.Wrap(apperrors.NetworkFailure, method+" "+logging.Mask(endpoint), err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.NetworkFailure, "read response of "+method+" "+logging.Mask(endpoint), err)
	}

	h.logger.Debug("request completed", h.logger.Args(
		"method", method,
		"endpoint", logging.Mask(endpoint),
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
		"request_id", req.Header.Get(headerRequestID),
	))
	return &response{status: resp.StatusCode, header: resp.Header, body: b}, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
