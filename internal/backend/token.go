// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "tokensession/cli/internal/errors"
)

// refreshRequest is the body of the refresh exchange.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
	UID          string `json:"uid"`
}

// RefreshToken calls POST /api/auth/refresh with {refreshToken, uid}.
// Any non-2xx status is a Rejected error; transport failures are NetworkFailure.
// The refresh token is never rotated by this endpoint.
func (h *HTTP) RefreshToken(ctx context.Context, refreshToken, userID string) (string, error) {
	body, err := json.Marshal(refreshRequest{RefreshToken: refreshToken, UID: userID})
	if err != nil {
		return "", apperrors.Wrap(apperrors.Rejected, "encode refresh request", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	resp, err := h.do(ctx, http.MethodPost, h.manifest.HTTP.Refresh, body, header)
	if err != nil {
		return "", err
	}

	if !isSuccess(resp.status) {
		return "", apperrors.WithStatus(apperrors.Rejected, resp.status, "refresh token rejected: "+errorMessage(resp.body))
	}

	var result map[string]any
	if err := json.Unmarshal(resp.body, &result); err != nil {
		return "", apperrors.Wrap(apperrors.Rejected, "decode refresh response", err)
	}

	token := extractAccessToken(result)
	if token == "" {
		return "", apperrors.New(apperrors.Rejected, "no accessToken in refresh response")
	}
	return token, nil
}

// extractAccessToken extracts the access token from the response payload.
// It tries multiple common field names to be resilient to different response formats.
func extractAccessToken(result map[string]any) string {
	for _, k := range []string{"accessToken", "access_token", "token"} {
		if v, ok := result[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// errorMessage pulls a short message out of an error body such as {"error": "..."}.
func errorMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, k := range []string{"error", "message"} {
			if v, ok := payload[k].(string); ok && v != "" {
				return v
			}
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	if msg == "" {
		return "empty response"
	}
	return msg
}
