// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"tokensession/cli/internal/keychain"
)

// Session is the logical pairing of tokens and user id held in the store.
// Empty strings mean absent.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       string
}

// Valid reports whether both tokens are present.
func (s Session) Valid() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}

// LoadSession reads the session values from store in one read.
func LoadSession(store keychain.Store) (Session, error) {
	values, err := store.Snapshot()
	if err != nil {
		return Session{}, err
	}
	return Session{
		AccessToken:  values[keychain.KeyAccessToken],
		RefreshToken: values[keychain.KeyRefreshToken],
		UserID:       values[keychain.KeyUserID],
	}, nil
}
