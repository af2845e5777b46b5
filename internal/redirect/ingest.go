// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package redirect lifts tokens out of the identity provider's post-login
// redirect URL into the token store and returns the URL with them removed.
package redirect

import (
	"fmt"
	"net/url"

	"github.com/pterm/pterm"

	apperrors "tokensession/cli/internal/errors"
	"tokensession/cli/internal/keychain"
	"tokensession/cli/internal/logging"
)

// Query parameters set by the provider redirect.
const (
	ParamAccessToken  = "accessToken"
	ParamRefreshToken = "refreshToken"
	ParamUserID       = "uid"
	ParamRole         = "role"
	ParamError        = "error"
)

// strippedParams never survive ingestion.
var strippedParams = []string{ParamAccessToken, ParamRefreshToken, ParamUserID, ParamRole}

// Notifier is told when ingestion changed the stored session.
type Notifier interface {
	Notify()
}

// Ingestor writes redirect tokens to the store.
type Ingestor struct {
	store    keychain.Store
	notifier Notifier
	logger   *pterm.Logger
}

// NewIngestor creates an Ingestor. notifier and logger may be nil.
func NewIngestor(store keychain.Store, notifier Notifier, logger *pterm.Logger) *Ingestor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Ingestor{store: store, notifier: notifier, logger: logger}
}

// Ingest inspects rawURL once. Without an accessToken parameter it is a no-op
// and returns rawURL unchanged with ingested=false. Otherwise it stores the
// access token, refresh token and user id in a single write and returns the
// URL with the token parameters stripped; callers must use the stripped URL
// from then on.
func (i *Ingestor) Ingest(rawURL string) (stripped string, ingested bool, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, false, fmt.Errorf("parse redirect URL: %w", err)
	}
	q := u.Query()

	access := q.Get(ParamAccessToken)
	if access == "" {
		if perr := q.Get(ParamError); perr != "" {
			return rawURL, false, apperrors.New(apperrors.LoginFailed, "identity provider returned "+perr)
		}
		return rawURL, false, nil
	}

	refresh := q.Get(ParamRefreshToken)
	uid := q.Get(ParamUserID)
	if err := i.store.SetMany(map[string]string{
		keychain.KeyAccessToken:  access,
		keychain.KeyRefreshToken: refresh,
		keychain.KeyUserID:       uid,
	}); err != nil {
		return rawURL, false, err
	}

	for _, p := range strippedParams {
		q.Del(p)
	}
	u.RawQuery = q.Encode()

	i.logger.Info("session stored from redirect",
		i.logger.Args("uid", uid, "has_refresh_token", refresh != ""))

	if i.notifier != nil {
		i.notifier.Notify()
	}
	return u.String(), true, nil
}
