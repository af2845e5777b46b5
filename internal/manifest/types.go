// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package manifest resolves the backend base URL and endpoint paths.
package manifest

import (
	"net/url"
	"strings"
)

// Default endpoint paths of the backend.
const (
	DefaultLoginPath   = "/oauth2/authorization/google"
	DefaultRefreshPath = "/api/auth/refresh"
	DefaultUserPath    = "/api/user"
	DefaultLogoutPath  = "/logout"
)

// Manifest represents the resolved endpoint configuration.
type Manifest struct {
	BaseURL string        `json:"base_url"`
	HTTP    HTTPEndpoints `json:"http"`
}

// HTTPEndpoints contains REST API endpoint paths.
type HTTPEndpoints struct {
	Login   string `json:"login"`   // e.g., "/oauth2/authorization/google"
	Refresh string `json:"refresh"` // e.g., "/api/auth/refresh"
	User    string `json:"user"`    // e.g., "/api/user"
	Logout  string `json:"logout"`  // e.g., "/logout"
}

// DefaultEndpoints returns the backend's standard paths.
func DefaultEndpoints() HTTPEndpoints {
	return HTTPEndpoints{
		Login:   DefaultLoginPath,
		Refresh: DefaultRefreshPath,
		User:    DefaultUserPath,
		Logout:  DefaultLogoutPath,
	}
}

// HTTPBaseURL returns the normalized base URL (scheme + host + optional path prefix).
func (m *Manifest) HTTPBaseURL() string {
	return strings.TrimRight(m.BaseURL, "/")
}

// URL joins the base URL and an endpoint path. Absolute URLs are returned unchanged.
func (m *Manifest) URL(path string) string {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return m.HTTPBaseURL() + path
}

// Host extracts the host for messages.
func (m *Manifest) Host() string {
	u, err := url.Parse(m.BaseURL)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
