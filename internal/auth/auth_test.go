// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/require"

	"tokensession/cli/internal/keychain"
)

// fakeBackend records refresh exchanges. When gate is set, every exchange
// blocks until the gate is closed.
type fakeBackend struct {
	mu       sync.Mutex
	calls    atomic.Int32
	logouts  atomic.Int32
	gotToken string
	gotUID   string
	token    string
	err      error
	gate     chan struct{}
	entered  chan struct{}
}

func (f *fakeBackend) RefreshToken(ctx context.Context, refreshToken, userID string) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.gotToken, f.gotUID = refreshToken, userID
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	return f.token, f.err
}

func (f *fakeBackend) Logout(ctx context.Context) error {
	f.logouts.Add(1)
	return nil
}

func newStore(t *testing.T, values map[string]string) *keychain.Manager {
	t.Helper()
	m := keychain.NewWithRing(keyring.NewArrayKeyring(nil), nil)
	if len(values) > 0 {
		require.NoError(t, m.SetMany(values))
	}
	return m
}

func fullSession() map[string]string {
	return map[string]string{
		keychain.KeyAccessToken:  "A1",
		keychain.KeyRefreshToken: "R1",
		keychain.KeyUserID:       "u1",
	}
}
