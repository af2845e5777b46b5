// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the HTTP side of the session manager: the raw
// transport to the backend, the refresh-token exchange, server-side logout,
// and the authenticated client that injects bearer tokens and performs a
// single refresh-and-replay when an access token is refused.
package backend

import "context"

// Session is what the authenticated client needs from the session layer.
type Session interface {
	// AccessToken returns the stored access token, or "" when absent.
	AccessToken() (string, error)
	// RenewAfter returns a fresh access token after rejected was refused.
	RenewAfter(ctx context.Context, rejected string) (string, error)
	// Logout clears the local session and tears down the server session.
	Logout(ctx context.Context) error
}
