// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides the durable token store for tokensession.
// The three session values (access token, refresh token, user id) are kept as a
// single item in the OS keychain/credential store, so a session is written and
// cleared as one unit and survives across CLI invocations.
//
// The package supports the macOS Keychain, Windows Credential Manager, the Linux
// Secret Service, an encrypted file keyring and an in-memory keyring for tests.
// All operations are thread-safe.
package keychain

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
	"github.com/pterm/pterm"

	apperrors "tokensession/cli/internal/errors"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "tokensession"

// Keys of the session values.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUserID       = "userId"
)

// itemKey is the keychain entry holding the serialized session.
const itemKey = "session"

// Backend names accepted by Open.
const (
	BackendKeychain = "keychain"
	BackendFile     = "file"
	BackendMemory   = "memory"
)

// ErrUnknownKey is returned when a caller uses a key outside the session schema.
var ErrUnknownKey = errors.New("unknown session key")

// Store is durable key-value persistence for the session values.
// Get returns "" for an absent key; writes report any persistence failure.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	SetMany(values map[string]string) error
	Snapshot() (map[string]string, error)
	Clear() error
}

// keychainBackend defines the interface for keychain operations.
// Get returns keyring.ErrKeyNotFound when the key does not exist.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Manager provides centralized, thread-safe operations for the session item.
type Manager struct {
	mu      sync.RWMutex
	backend keychainBackend
	logger  *pterm.Logger
}

var _ Store = (*Manager)(nil)

// Options selects and configures the storage backend.
type Options struct {
	// Backend is one of BackendKeychain (default), BackendFile, BackendMemory.
	Backend string
	// FileDir is the directory of the encrypted file keyring.
	FileDir string
	// FilePassword unlocks the encrypted file keyring.
	FilePassword string
	// Logger receives audit events. Token values are never logged.
	Logger *pterm.Logger
}

// Open creates a Manager for the configured backend.
func Open(opts Options) (*Manager, error) {
	logger := opts.Logger
	if logger == nil {
		logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}

	switch opts.Backend {
	case BackendMemory:
		return NewWithRing(keyring.NewArrayKeyring(nil), logger), nil
	case BackendFile:
		if opts.FileDir == "" {
			return nil, errors.New("file keyring requires a directory")
		}
		if opts.FilePassword == "" {
			return nil, errors.New("file keyring requires TOKENSESSION_FILE_PASSWORD")
		}
		ring, err := keyring.Open(keyring.Config{
			ServiceName:      ServiceName,
			AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
			FileDir:          opts.FileDir,
			FilePasswordFunc: keyring.FixedStringPrompt(opts.FilePassword),
		})
		if err != nil {
			return nil, fmt.Errorf("open file keyring: %w", err)
		}
		return NewWithRing(ring, logger), nil
	case "", BackendKeychain:
		// Try native security backend first on macOS
		if runtime.GOOS == "darwin" {
			if backend, err := newSecurityBackend(); err == nil {
				return &Manager{backend: backend, logger: logger}, nil
			}
			// Fall through to keyring library if security command fails
		}
		ring, err := openRing()
		if err != nil {
			return nil, err
		}
		return NewWithRing(ring, logger), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

// NewWithRing wraps an already opened keyring.
func NewWithRing(ring keyring.Keyring, logger *pterm.Logger) *Manager {
	if logger == nil {
		logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return &Manager{backend: ringBackend{ring: ring}, logger: logger}
}

// openRing opens the OS keyring using native platform backends only.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// Pass requires 'pass' utility installed: brew install pass
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
		}
	}

	cfg := keyring.Config{
		ServiceName:             ServiceName,
		AllowedBackends:         allowedBackends,
		PassPrefix:              ServiceName,
		LibSecretCollectionName: "login",
		KWalletAppID:            ServiceName,
		KWalletFolder:           ServiceName,
	}

	// Hint prefixes where supported to minimize namespace collisions
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("secure storage unavailable (use --store file or --store memory): %w", err)
	}
	return ring, nil
}

func validKey(key string) bool {
	switch key {
	case KeyAccessToken, KeyRefreshToken, KeyUserID:
		return true
	}
	return false
}

// load reads the session item. A missing item yields an empty map.
func (m *Manager) load() (map[string]string, error) {
	values := map[string]string{}
	raw, err := m.backend.Get(itemKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session from keychain: %w", err)
	}
	if raw == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode session item: %w", err)
	}
	return values, nil
}

// save replaces the session item with values.
func (m *Manager) save(values map[string]string) error {
	b, err := json.Marshal(values)
	if err != nil {
		return apperrors.Wrap(apperrors.StorageFailed, "encode session", err)
	}
	if err := m.backend.Set(itemKey, string(b)); err != nil {
		m.logger.Warn("session write failed", m.logger.Args("error", err.Error()))
		return apperrors.Wrap(apperrors.StorageFailed, "write session to keychain", err)
	}
	return nil
}

// Get returns the stored value for key, or "" when absent.
// This method is thread-safe.
func (m *Manager) Get(key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	values, err := m.load()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

// Set stores value under key. An empty value removes the key.
// This method is thread-safe.
func (m *Manager) Set(key, value string) error {
	return m.SetMany(map[string]string{key: value})
}

// SetMany applies all updates in a single durable write.
// Empty values remove their keys. This method is thread-safe.
func (m *Manager) SetMany(updates map[string]string) error {
	for k := range updates {
		if !validKey(k) {
			return fmt.Errorf("%w: %s", ErrUnknownKey, k)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	values, err := m.load()
	if err != nil {
		return apperrors.Wrap(apperrors.StorageFailed, "read before write", err)
	}
	keys := make([]string, 0, len(updates))
	for k, v := range updates {
		if v == "" {
			delete(values, k)
		} else {
			values[k] = v
		}
		keys = append(keys, k)
	}
	if err := m.save(values); err != nil {
		return err
	}
	m.logger.Debug("session updated", m.logger.Args("keys", keys))
	return nil
}

// Snapshot returns a copy of all stored values.
// This method is thread-safe.
func (m *Manager) Snapshot() (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.load()
}

// Clear removes the whole session in one operation.
// This method is thread-safe.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.backend.Delete(itemKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, os.ErrNotExist) {
		return apperrors.Wrap(apperrors.StorageFailed, "clear session", err)
	}
	m.logger.Debug("session cleared")
	return nil
}

// ringBackend adapts a keyring.Keyring to keychainBackend.
type ringBackend struct {
	ring keyring.Keyring
}

func (r ringBackend) Set(key, value string) error {
	return r.ring.Set(keyring.Item{
		Key:         key,
		Data:        []byte(value),
		Label:       ServiceName + " " + key,
		Description: "tokensession credentials",
	})
}

func (r ringBackend) Get(key string) (string, error) {
	it, err := r.ring.Get(key)
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

func (r ringBackend) Delete(key string) error {
	return r.ring.Remove(key)
}
