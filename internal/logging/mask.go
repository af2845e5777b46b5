// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides the CLI's structured logger, secret masking, and
// user-facing presentation of request failures.
//
// The package helps ensure that access tokens, refresh tokens and other
// credentials are not accidentally exposed in logs or error messages shown to users.
package logging

import (
	"regexp"
	"strings"
)

var (
	reQueryToken = regexp.MustCompile(`(?i)((?:access_?token|refresh_?token|token)=)([^\s&;"]+)`)
	reJSONToken  = regexp.MustCompile(`(?i)("(?:access_?token|refresh_?token)"\s*:\s*")([^"]*)(")`)
	reBearer     = regexp.MustCompile(`(?i)(bearer\s+)([A-Za-z0-9._~+/=-]+)`)
	rePassword   = regexp.MustCompile(`(?i)(password=)([^\s;&]+)`)
)

// Mask replaces sensitive values in the input string with "***".
// It covers query parameters, JSON fields and Authorization header values.
func Mask(s string) string {
	out := s
	out = reQueryToken.ReplaceAllString(out, "$1***")
	out = reJSONToken.ReplaceAllString(out, "$1***$3")
	out = reBearer.ReplaceAllString(out, "$1***")
	out = rePassword.ReplaceAllString(out, "$1***")
	// Basic env-like pairs key=VALUE; mask common secret keys
	for _, k := range []string{"TOKENSESSION_FILE_PASSWORD", "ACCESS_TOKEN", "REFRESH_TOKEN"} {
		if i := strings.Index(out, k+"="); i >= 0 {
			end := strings.IndexAny(out[i+len(k)+1:], " \n\t")
			if end < 0 {
				out = out[:i+len(k)+1] + "***"
			} else {
				out = out[:i+len(k)+1] + "***" + out[i+len(k)+1+end:]
			}
		}
	}
	return out
}
