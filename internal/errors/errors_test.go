// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	base := stderrors.New("dial tcp: connection refused")
	err := fmt.Errorf("get user: %w", Wrap(NetworkFailure, "request failed", base))

	assert.Equal(t, NetworkFailure, KindOf(err))
	assert.True(t, IsKind(err, NetworkFailure))
	assert.True(t, stderrors.Is(err, New(NetworkFailure, "")))
	assert.False(t, stderrors.Is(err, New(Rejected, "")))
	assert.ErrorIs(t, err, base)
}

func TestStatusMatching(t *testing.T) {
	err := WithStatus(ServerRejected, 500, "request rejected")

	assert.Equal(t, 500, StatusOf(err))
	assert.ErrorIs(t, err, New(ServerRejected, ""))
	assert.ErrorIs(t, err, WithStatus(ServerRejected, 500, ""))
	assert.NotErrorIs(t, err, WithStatus(ServerRejected, 403, ""))
	assert.Equal(t, "server_rejected: request rejected (status 500)", err.Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(stderrors.New("plain")))
	assert.Equal(t, 0, StatusOf(nil))
}
