// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"

	"github.com/pterm/pterm"
	"golang.org/x/sync/singleflight"

	apperrors "tokensession/cli/internal/errors"
	"tokensession/cli/internal/keychain"
)

// Exchanger trades a refresh token for a new access token at the backend.
// Implementations return errors of kind Rejected or NetworkFailure.
type Exchanger interface {
	RefreshToken(ctx context.Context, refreshToken, userID string) (string, error)
}

// refreshKey is the singleflight key; there is one session per store.
const refreshKey = "refresh"

// Coordinator performs refresh exchanges, at most one in flight at a time.
type Coordinator struct {
	store     keychain.Store
	exchanger Exchanger
	state     *State
	logger    *pterm.Logger

	// singleflight group to share one exchange between concurrent callers
	group singleflight.Group
}

// NewCoordinator creates a Coordinator. state may be nil when nobody observes phases.
func NewCoordinator(store keychain.Store, exchanger Exchanger, state *State, logger *pterm.Logger) *Coordinator {
	if logger == nil {
		logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return &Coordinator{store: store, exchanger: exchanger, state: state, logger: logger}
}

// Refresh exchanges the stored refresh token for a new access token and
// stores it. Concurrent calls attach to the exchange already in flight and
// receive its outcome. The exchange is not cancelled when ctx is.
func (c *Coordinator) Refresh(ctx context.Context) (string, error) {
	return c.do(ctx, "")
}

// RenewAfter is Refresh for a caller whose request was refused with the
// access token rejected. When the store already holds a different access
// token (another caller renewed it in the meantime) that token is returned
// without a new exchange.
func (c *Coordinator) RenewAfter(ctx context.Context, rejected string) (string, error) {
	return c.do(ctx, rejected)
}

func (c *Coordinator) do(ctx context.Context, rejected string) (string, error) {
	detached := context.WithoutCancel(ctx)
	v, err, shared := c.group.Do(refreshKey, func() (any, error) {
		return c.exchange(detached, rejected)
	})
	if shared {
		c.logger.Debug("joined in-flight token refresh")
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Coordinator) exchange(ctx context.Context, rejected string) (string, error) {
	sess, err := LoadSession(c.store)
	if err != nil {
		return "", apperrors.Wrap(apperrors.StorageFailed, "read stored credentials", err)
	}

	if rejected != "" && sess.AccessToken != "" && sess.AccessToken != rejected {
		c.logger.Debug("access token already renewed")
		return sess.AccessToken, nil
	}

	if sess.RefreshToken == "" || sess.UserID == "" {
		return "", apperrors.New(apperrors.MissingCredentials, "refresh token or user id not stored")
	}

	c.logger.Info("refreshing access token", c.logger.Args("uid", sess.UserID))

	token, err := c.exchanger.RefreshToken(ctx, sess.RefreshToken, sess.UserID)
	if err != nil {
		if apperrors.KindOf(err) == "" {
			err = apperrors.Wrap(apperrors.NetworkFailure, "refresh exchange", err)
		}
		c.logger.Warn("token refresh failed", c.logger.Args("uid", sess.UserID, "kind", string(apperrors.KindOf(err))))
		return "", err
	}

	// The refresh token is not rotated.
	if err := c.store.Set(keychain.KeyAccessToken, token); err != nil {
		return "", err
	}
	if c.state != nil {
		c.state.Notify()
	}
	c.logger.Info("access token refreshed", c.logger.Args("uid", sess.UserID))
	return token, nil
}
