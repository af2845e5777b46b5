// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pterm/pterm"

	apperrors "tokensession/cli/internal/errors"
)

// Headline returns the one-line status for an error kind.
func Headline(err error) string {
	switch apperrors.KindOf(err) {
	case apperrors.Unauthenticated:
		return "Session expired"
	case apperrors.MissingCredentials:
		return "Not logged in"
	case apperrors.Rejected:
		return "Refresh rejected"
	case apperrors.NetworkFailure:
		return "Network error"
	case apperrors.ServerRejected:
		if status := apperrors.StatusOf(err); status != 0 {
			return fmt.Sprintf("Request rejected (%d %s)", status, http.StatusText(status))
		}
		return "Request rejected"
	case apperrors.MalformedResponse:
		return "Unexpected response"
	case apperrors.StorageFailed:
		return "Cannot save credentials"
	case apperrors.LoginFailed:
		return "Login failed"
	default:
		return "Request failed"
	}
}

// FormatRequestError formats a pipeline error in a user-friendly way.
func FormatRequestError(err error) string {
	if err == nil {
		return ""
	}

	var builder strings.Builder

	builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint(Headline(err)))
	builder.WriteString("\n\n")

	kind := apperrors.KindOf(err)
	switch kind {
	case apperrors.Unauthenticated:
		builder.WriteString("Your access token expired and could not be renewed.\n")
		builder.WriteString("The local session has been cleared.\n")
	case apperrors.MissingCredentials:
		builder.WriteString("No refresh token or user id is stored on this machine.\n")
	case apperrors.Rejected:
		builder.WriteString("The server declined the refresh token.\n")
		builder.WriteString("It may have expired or been revoked.\n")
	case apperrors.NetworkFailure:
		builder.WriteString("The server could not be reached. Your session is unchanged.\n")
	case apperrors.ServerRejected:
		if apperrors.StatusOf(err) == http.StatusForbidden {
			builder.WriteString("Access was denied even with a freshly renewed token.\n")
		} else {
			builder.WriteString("The server refused the request. Your session is unchanged.\n")
		}
	case apperrors.MalformedResponse:
		builder.WriteString("The server answered with a body that is not valid JSON.\n")
	case apperrors.StorageFailed:
		builder.WriteString("The credential store refused the write (locked keychain or full disk).\n")
	case apperrors.LoginFailed:
		builder.WriteString("The identity provider reported an error during login.\n")
	default:
		builder.WriteString("An unexpected error occurred.\n")
	}

	builder.WriteString("\n")

	// Action to take
	switch kind {
	case apperrors.Unauthenticated, apperrors.MissingCredentials, apperrors.Rejected, apperrors.LoginFailed:
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please run 'tokensession login' and try again"))
	default:
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please try again"))
	}
	builder.WriteString("\n")

	// Technical details (optional, for debugging)
	builder.WriteString("\n")
	builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + Mask(err.Error())))

	return builder.String()
}

// PresentRequestError displays a formatted request error
func PresentRequestError(err error) {
	fmt.Println()
	fmt.Println(FormatRequestError(err))
	fmt.Println()
}

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}
