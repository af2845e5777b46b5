// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Cause
	}{
		{"nil", nil, ""},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), CauseTimeout},
		{"canceled", fmt.Errorf("get: %w", context.Canceled), CauseCanceled},
		{"dns", &net.DNSError{Err: "no such host", Name: "api.invalid"}, CauseDNS},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}, CauseConnectionRefused},
		{"tls", errors.New("tls: failed to verify certificate: x509: unknown authority"), CauseTLS},
		{"other", errors.New("unexpected EOF"), CauseUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestExtractHostFromURL(t *testing.T) {
	assert.Equal(t, "api.example.com:8443", ExtractHostFromURL("https://api.example.com:8443/api/user"))
	assert.Equal(t, "server", ExtractHostFromURL("not a url"))
}
