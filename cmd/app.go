// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"tokensession/cli/internal/auth"
	"tokensession/cli/internal/backend"
	"tokensession/cli/internal/config"
	apperrors "tokensession/cli/internal/errors"
	"tokensession/cli/internal/httperrors"
	"tokensession/cli/internal/keychain"
	"tokensession/cli/internal/logging"
	"tokensession/cli/internal/manifest"
	"tokensession/cli/internal/xdg"
)

// app is the wired session stack used by every command.
type app struct {
	cfg      config.Config
	manifest *manifest.Manifest
	logger   *pterm.Logger
	store    keychain.Store
	http     *backend.HTTP
	auth     *auth.Service
	client   *backend.Client
}

var (
	_ auth.Backend    = (*backend.HTTP)(nil)
	_ backend.Session = (*auth.Service)(nil)
)

// openStore opens the configured token store. Tests replace it.
var openStore = func(cfg config.Config, logger *pterm.Logger) (keychain.Store, error) {
	opts := keychain.Options{Backend: cfg.Store, Logger: logger}
	if cfg.Store == keychain.BackendFile {
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		opts.FileDir = dir
		opts.FilePassword = os.Getenv(config.EnvFilePassword)
	}
	return keychain.Open(opts)
}

// loadConfig reads the config file and applies the persistent flags on top.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if flagBaseURL != "" {
		cfg.BaseURL = strings.TrimRight(flagBaseURL, "/")
	}
	if flagStore != "" {
		cfg.Store = flagStore
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	m, err := manifest.GetEndpoints(cfg)
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}

	h := backend.New(m,
		backend.WithTimeout(time.Duration(cfg.HTTPTimeoutSeconds)*time.Second),
		backend.WithLogger(logger),
	)
	svc := auth.NewService(store, h, auth.WithLogger(logger))

	return &app{
		cfg:      cfg,
		manifest: m,
		logger:   logger,
		store:    store,
		http:     h,
		auth:     svc,
		client:   backend.NewClient(h, svc),
	}, nil
}

// presentError prints err for the user. Transport failures get the detailed
// network diagnostics; typed session errors get a headline and next step.
func presentError(err error) {
	switch apperrors.KindOf(err) {
	case "":
		pterm.Error.Println(logging.PresentError("tokensession", err))
	case apperrors.NetworkFailure:
		host := "server"
		if cfg, cerr := loadConfig(); cerr == nil {
			host = httperrors.ExtractHostFromURL(cfg.BaseURL)
		}
		_ = httperrors.FormatNetworkError(err, "contacting the backend", host)
	default:
		logging.PresentRequestError(err)
	}
}
