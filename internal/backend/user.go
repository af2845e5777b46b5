// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"
)

// User is the profile returned by the user endpoint.
type User struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// GetUser calls GET /api/user through the authenticated client.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.RequestInto(ctx, c.http.manifest.HTTP.User, http.MethodGet, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
