// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"

	"github.com/pterm/pterm"

	"tokensession/cli/internal/keychain"
	"tokensession/cli/internal/logging"
)

// Backend is the part of the backend API the auth service depends on.
type Backend interface {
	Exchanger
	// Logout performs the server-side session teardown.
	Logout(ctx context.Context) error
}

// Service centralizes session operations against the backend and the token store.
// It is the only writer of the store besides the redirect ingestor.
type Service struct {
	store       keychain.Store
	be          Backend
	state       *State
	coordinator *Coordinator
	logger      *pterm.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(logger *pterm.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService constructs an auth Service over store and be.
func NewService(store keychain.Store, be Backend, opts ...Option) *Service {
	s := &Service{
		store:  store,
		be:     be,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = NewState(store)
	s.coordinator = NewCoordinator(store, be, s.state, s.logger)
	return s
}

// State returns the session state shared by all components of this service.
func (s *Service) State() *State { return s.state }

// Store returns the token store.
func (s *Service) Store() keychain.Store { return s.store }

// Session returns the stored session values.
func (s *Service) Session() (Session, error) { return LoadSession(s.store) }

// AccessToken returns the stored access token, or "" when absent.
func (s *Service) AccessToken() (string, error) {
	return s.store.Get(keychain.KeyAccessToken)
}

// Refresh runs a refresh exchange through the coordinator.
func (s *Service) Refresh(ctx context.Context) (string, error) {
	return s.coordinator.Refresh(ctx)
}

// RenewAfter renews the access token after rejected was refused by the server.
func (s *Service) RenewAfter(ctx context.Context, rejected string) (string, error) {
	return s.coordinator.RenewAfter(ctx, rejected)
}

// Logout clears local credentials, notifies observers, then asks the backend
// to tear down its session (best-effort).
func (s *Service) Logout(ctx context.Context) error {
	if err := s.ResetLocalAuth(); err != nil {
		return err
	}
	if s.be != nil {
		if err := s.be.Logout(ctx); err != nil {
			s.logger.Warn("server logout failed", s.logger.Args("error", logging.Mask(err.Error())))
		}
	}
	return nil
}

// ResetLocalAuth clears only local credentials/state (no remote calls).
func (s *Service) ResetLocalAuth() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.state.Notify()
	s.logger.Info("local session cleared")
	return nil
}
