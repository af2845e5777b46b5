// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tokensession/cli/internal/errors"
)

// quotaRing fails every write, like a store that ran out of space.
type quotaRing struct {
	*keyring.ArrayKeyring
}

func (q quotaRing) Set(keyring.Item) error { return errors.New("quota exceeded") }

func TestManagerSetGetClear(t *testing.T) {
	m := NewWithRing(keyring.NewArrayKeyring(nil), nil)

	v, err := m.Get(KeyAccessToken)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, m.SetMany(map[string]string{
		KeyAccessToken:  "A1",
		KeyRefreshToken: "R1",
		KeyUserID:       "u1",
	}))
	require.NoError(t, m.Set(KeyAccessToken, "A2"))

	snap, err := m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		KeyAccessToken:  "A2",
		KeyRefreshToken: "R1",
		KeyUserID:       "u1",
	}, snap)

	require.NoError(t, m.Clear())
	snap, err = m.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snap)

	// Clearing an empty store is fine.
	require.NoError(t, m.Clear())
}

func TestManagerEmptyValueRemovesKey(t *testing.T) {
	m := NewWithRing(keyring.NewArrayKeyring(nil), nil)
	require.NoError(t, m.Set(KeyUserID, "u1"))
	require.NoError(t, m.Set(KeyUserID, ""))

	snap, err := m.Snapshot()
	require.NoError(t, err)
	assert.NotContains(t, snap, KeyUserID)
}

func TestManagerPersistsAcrossInstances(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	require.NoError(t, NewWithRing(ring, nil).Set(KeyRefreshToken, "R1"))

	v, err := NewWithRing(ring, nil).Get(KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "R1", v)
}

func TestManagerReportsWriteFailure(t *testing.T) {
	m := NewWithRing(quotaRing{keyring.NewArrayKeyring(nil)}, nil)

	err := m.Set(KeyAccessToken, "A1")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.StorageFailed))
}

func TestManagerRejectsUnknownKey(t *testing.T) {
	m := NewWithRing(keyring.NewArrayKeyring(nil), nil)

	assert.ErrorIs(t, m.Set("password", "x"), ErrUnknownKey)
	_, err := m.Get("password")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestOpen(t *testing.T) {
	m, err := Open(Options{Backend: BackendMemory})
	require.NoError(t, err)
	require.NoError(t, m.Set(KeyAccessToken, "A1"))

	_, err = Open(Options{Backend: "cloud"})
	assert.Error(t, err)

	_, err = Open(Options{Backend: BackendFile})
	assert.Error(t, err)
}

func TestOpenFileBackend(t *testing.T) {
	dir := t.TempDir()
	m, err := Open(Options{Backend: BackendFile, FileDir: dir, FilePassword: "secret"})
	require.NoError(t, err)
	require.NoError(t, m.SetMany(map[string]string{KeyAccessToken: "A1", KeyRefreshToken: "R1"}))

	reopened, err := Open(Options{Backend: BackendFile, FileDir: dir, FilePassword: "secret"})
	require.NoError(t, err)
	v, err := reopened.Get(KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "R1", v)

	require.NoError(t, reopened.Clear())
	require.NoError(t, reopened.Clear())
}
