// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tokensession/cli/internal/errors"
	"tokensession/cli/internal/manifest"
)

func newTestHTTP(t *testing.T, handler http.HandlerFunc) *HTTP {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(&manifest.Manifest{BaseURL: ts.URL, HTTP: manifest.DefaultEndpoints()})
}

func TestRefreshTokenSuccess(t *testing.T) {
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, manifest.DefaultRefreshPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"accessToken":"A2"}`))
	})

	token, err := h.RefreshToken(context.Background(), "R1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "A2", token)
}

func TestRefreshTokenFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   apperrors.Kind
	}{
		{"forbidden", http.StatusForbidden, `{"error":"Invalid Refresh Token"}`, apperrors.Rejected},
		{"bad request", http.StatusBadRequest, `{"error":"Missing UID or Refresh Token"}`, apperrors.Rejected},
		{"timeout status", http.StatusRequestTimeout, `{"error":"Database timeout"}`, apperrors.Rejected},
		{"no token", http.StatusOK, `{"other":"x"}`, apperrors.Rejected},
		{"not json", http.StatusOK, `nope`, apperrors.Rejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := h.RefreshToken(context.Background(), "R1", "u1")
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperrors.KindOf(err))
		})
	}
}

func TestRefreshTokenNetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()
	h := New(&manifest.Manifest{BaseURL: ts.URL, HTTP: manifest.DefaultEndpoints()})

	_, err := h.RefreshToken(context.Background(), "R1", "u1")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.NetworkFailure))
}

func TestExtractAccessToken(t *testing.T) {
	assert.Equal(t, "A", extractAccessToken(map[string]any{"accessToken": "A"}))
	assert.Equal(t, "B", extractAccessToken(map[string]any{"access_token": " B "}))
	assert.Equal(t, "C", extractAccessToken(map[string]any{"token": "C"}))
	assert.Empty(t, extractAccessToken(map[string]any{"accessToken": 5}))
}

func TestLogoutCallsServerWithoutToken(t *testing.T) {
	var called atomic.Bool
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
		assert.Equal(t, manifest.DefaultLogoutPath, r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, h.Logout(context.Background()))
	assert.True(t, called.Load())
}

func TestLogoutServerError(t *testing.T) {
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := h.Logout(context.Background())
	assert.ErrorIs(t, err, apperrors.WithStatus(apperrors.ServerRejected, http.StatusBadGateway, ""))
}

func TestLoginURL(t *testing.T) {
	h := New(&manifest.Manifest{BaseURL: "http://localhost:8080", HTTP: manifest.DefaultEndpoints()})
	assert.Equal(t, "http://localhost:8080/oauth2/authorization/google", h.LoginURL())
}
