// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; tokens go to the keychain.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tokensession/cli/internal/xdg"
)

// Environment variables that override the config file.
const (
	EnvBaseURL      = "TOKENSESSION_BASE_URL"
	EnvStore        = "TOKENSESSION_STORE"
	EnvLogLevel     = "TOKENSESSION_LOG_LEVEL"
	EnvFilePassword = "TOKENSESSION_FILE_PASSWORD"
)

// Defaults used when the config file or a field is missing.
const (
	DefaultBaseURL            = "http://localhost:8080"
	DefaultStore              = "keychain"
	DefaultLogLevel           = "info"
	DefaultHTTPTimeoutSeconds = 30
	DefaultCallbackPort       = 5173
)

// Config holds non-sensitive CLI settings.
type Config struct {
	BaseURL            string    `json:"base_url"`
	Store              string    `json:"store"`
	LogLevel           string    `json:"log_level"`
	HTTPTimeoutSeconds int       `json:"http_timeout_seconds"`
	CallbackPort       int       `json:"callback_port"`
	Endpoints          Endpoints `json:"endpoints"`
}

// Endpoints overrides backend paths; empty fields keep the defaults.
type Endpoints struct {
	Login   string `json:"login,omitempty"`
	Refresh string `json:"refresh,omitempty"`
	User    string `json:"user,omitempty"`
	Logout  string `json:"logout,omitempty"`
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:            DefaultBaseURL,
		Store:              DefaultStore,
		LogLevel:           DefaultLogLevel,
		HTTPTimeoutSeconds: DefaultHTTPTimeoutSeconds,
		CallbackPort:       DefaultCallbackPort,
	}
}

// Load reads configuration; missing file returns defaults.
// Environment overrides are applied on top of the file.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(p)
}

// LoadFile reads configuration from p, fills defaults and applies env overrides.
func LoadFile(p string) (Config, error) {
	c, err := ReadFile(p)
	if err != nil {
		return c, err
	}
	c.applyEnv()
	return c, nil
}

// ReadFile reads configuration from p and fills defaults. Environment
// overrides are not applied, so the result is safe to write back.
func ReadFile(p string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, err
	default:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, err
		}
	}
	c.fillDefaults()
	return c, nil
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.Store == "" {
		c.Store = d.Store
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.HTTPTimeoutSeconds <= 0 {
		c.HTTPTimeoutSeconds = d.HTTPTimeoutSeconds
	}
	if c.CallbackPort <= 0 {
		c.CallbackPort = d.CallbackPort
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv(EnvStore); v != "" {
		c.Store = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Keys accepted by Set.
var Keys = []string{"base_url", "store", "log_level", "http_timeout_seconds", "callback_port",
	"endpoints.login", "endpoints.refresh", "endpoints.user", "endpoints.logout"}

// Set assigns value to the setting named key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "base_url":
		c.BaseURL = strings.TrimRight(value, "/")
	case "store":
		c.Store = value
	case "log_level":
		c.LogLevel = value
	case "http_timeout_seconds", "callback_port":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", key, value)
		}
		if key == "callback_port" {
			c.CallbackPort = n
		} else {
			c.HTTPTimeoutSeconds = n
		}
	case "endpoints.login":
		c.Endpoints.Login = value
	case "endpoints.refresh":
		c.Endpoints.Refresh = value
	case "endpoints.user":
		c.Endpoints.User = value
	case "endpoints.logout":
		c.Endpoints.Logout = value
	default:
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
