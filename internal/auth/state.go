// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth provides session state, token refresh, and logout for the CLI.
//
// The package derives the logged-in phase from the token store, notifies
// observers when a mutation may have changed it, and serializes refresh-token
// exchanges so that concurrent callers share a single in-flight exchange.
package auth

import (
	"sync"

	"tokensession/cli/internal/keychain"
)

// Phase is the logical session phase derived from the token store.
type Phase int

const (
	// LoggedOut means no valid session is stored.
	LoggedOut Phase = iota
	// LoggedIn means both tokens are stored.
	LoggedIn
)

func (p Phase) String() string {
	switch p {
	case LoggedIn:
		return "logged_in"
	default:
		return "logged_out"
	}
}

// PhaseOf derives the phase of a session.
func PhaseOf(s Session) Phase {
	if s.Valid() {
		return LoggedIn
	}
	return LoggedOut
}

// State exposes the current phase and pushes phase notifications to observers.
type State struct {
	store keychain.Store

	mu        sync.Mutex
	observers map[int]func(Phase)
	nextID    int
}

// NewState creates a State reading from store.
func NewState(store keychain.Store) *State {
	return &State{store: store, observers: map[int]func(Phase){}}
}

// CurrentPhase recomputes the phase from the store.
// A store that cannot be read counts as logged out.
func (s *State) CurrentPhase() Phase {
	sess, err := LoadSession(s.store)
	if err != nil {
		return LoggedOut
	}
	return PhaseOf(sess)
}

// OnPhaseChange registers fn and returns a function that unregisters it.
func (s *State) OnPhaseChange(fn func(Phase)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Notify delivers the current phase to every observer. Components call it
// right after they mutate the store.
func (s *State) Notify() {
	phase := s.CurrentPhase()

	s.mu.Lock()
	fns := make([]func(Phase), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(phase)
	}
}
