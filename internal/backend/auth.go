// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"

	apperrors "tokensession/cli/internal/errors"
)

// Logout calls GET /logout so the backend tears down its own session.
// It carries no bearer token: local credentials are already gone by then.
func (h *HTTP) Logout(ctx context.Context) error {
	resp, err := h.do(ctx, http.MethodGet, h.manifest.HTTP.Logout, nil, nil)
	if err != nil {
		return err
	}
	if resp.status >= http.StatusBadRequest {
		return apperrors.WithStatus(apperrors.ServerRejected, resp.status, "logout failed: "+errorMessage(resp.body))
	}
	return nil
}

// LoginURL returns the URL that starts the provider login in a browser.
func (h *HTTP) LoginURL() string {
	return h.manifest.URL(h.manifest.HTTP.Login)
}
