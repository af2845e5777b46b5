// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package redirect

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokensession/cli/internal/auth"
	apperrors "tokensession/cli/internal/errors"
	"tokensession/cli/internal/keychain"
)

func newIngestor(t *testing.T) (*Ingestor, *keychain.Manager, *auth.State) {
	t.Helper()
	store := keychain.NewWithRing(keyring.NewArrayKeyring(nil), nil)
	state := auth.NewState(store)
	return NewIngestor(store, state, nil), store, state
}

func TestIngestStoresTokensAndStripsURL(t *testing.T) {
	ing, store, state := newIngestor(t)

	var phases []auth.Phase
	state.OnPhaseChange(func(p auth.Phase) { phases = append(phases, p) })

	stripped, ok, err := ing.Ingest("http://localhost:5173/auth/callback?accessToken=A1&refreshToken=R1&uid=u1&role=CUSTOMER&tab=profile")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:5173/auth/callback?tab=profile", stripped)

	snap, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		keychain.KeyAccessToken:  "A1",
		keychain.KeyRefreshToken: "R1",
		keychain.KeyUserID:       "u1",
	}, snap)

	assert.Equal(t, auth.LoggedIn, state.CurrentPhase())
	assert.Equal(t, []auth.Phase{auth.LoggedIn}, phases)
}

func TestIngestIsIdempotentOnStrippedURL(t *testing.T) {
	ing, store, state := newIngestor(t)

	stripped, ok, err := ing.Ingest("http://localhost:5173/?accessToken=A1&refreshToken=R1&uid=u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:5173/", stripped)

	notified := 0
	state.OnPhaseChange(func(auth.Phase) { notified++ })

	again, ok, err := ing.Ingest(stripped)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, stripped, again)
	assert.Zero(t, notified)

	v, err := store.Get(keychain.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "A1", v)
}

func TestIngestWithoutAccessTokenIsNoop(t *testing.T) {
	ing, store, _ := newIngestor(t)

	raw := "http://localhost:5173/dashboard?refreshToken=R1"
	out, ok, err := ing.Ingest(raw)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, raw, out)

	snap, err := store.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestIngestMissingRefreshTokenIsLoggedOut(t *testing.T) {
	ing, _, state := newIngestor(t)

	_, ok, err := ing.Ingest("http://localhost:5173/?accessToken=A1&uid=u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, auth.LoggedOut, state.CurrentPhase())
}

func TestIngestProviderError(t *testing.T) {
	ing, _, _ := newIngestor(t)

	_, ok, err := ing.Ingest("http://localhost:5173?error=LoginFailed")
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, apperrors.IsKind(err, apperrors.LoginFailed))
}

func TestIngestInvalidURL(t *testing.T) {
	ing, _, _ := newIngestor(t)

	_, ok, err := ing.Ingest("http://[::1")
	assert.Error(t, err)
	assert.False(t, ok)
}
