// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package manifest

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"tokensession/cli/internal/config"
)

// GetEndpoints returns the manifest for cfg, using the RAM cache if available.
// This function is the main entry point for retrieving backend configuration.
func GetEndpoints(cfg config.Config) (*Manifest, error) {
	// Check RAM cache first
	if cached := GetCached(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")); cached != nil {
		return cached, nil
	}

	m, err := Resolve(cfg)
	if err != nil {
		return nil, err
	}

	// Cache in RAM for future calls within this process
	SetCached(m)
	return m, nil
}

// Resolve builds a manifest from cfg, applying endpoint overrides over the defaults.
func Resolve(cfg config.Config) (*Manifest, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("base URL is empty")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", base)
	}

	eps := DefaultEndpoints()
	if v := cfg.Endpoints.Login; v != "" {
		eps.Login = v
	}
	if v := cfg.Endpoints.Refresh; v != "" {
		eps.Refresh = v
	}
	if v := cfg.Endpoints.User; v != "" {
		eps.User = v
	}
	if v := cfg.Endpoints.Logout; v != "" {
		eps.Logout = v
	}
	return &Manifest{BaseURL: base, HTTP: eps}, nil
}
