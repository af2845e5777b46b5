// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"tokensession/cli/internal/auth"
	"tokensession/cli/internal/backend"
	"tokensession/cli/internal/callback"
	apperrors "tokensession/cli/internal/errors"
	"tokensession/cli/internal/redirect"
	"tokensession/cli/internal/terminal"
)

var loginRedirectURL string

// loginCmd signs in through the browser and stores the tokens the backend
// appends to its post-login redirect.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in through the browser and store the session",
	Long: `The login command opens the backend's sign-in page in the default browser and
waits on a local callback server for the post-login redirect. The access token,
refresh token and user id carried by that redirect are stored in the token store.

Use --url to ingest a redirect URL copied from the browser instead of waiting
for the callback.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		target := loginRedirectURL
		if target == "" {
			target, err = waitForRedirect(ctx, out, a)
			if err != nil {
				return err
			}
		}

		ingestor := redirect.NewIngestor(a.store, a.auth.State(), a.logger)
		if _, ingested, err := ingestor.Ingest(target); err != nil {
			return err
		} else if !ingested {
			return apperrors.New(apperrors.LoginFailed, "the redirect carried no access token")
		}

		if a.auth.State().CurrentPhase() != auth.LoggedIn {
			pterm.Warning.Println("No refresh token was issued; the session cannot be renewed.")
		}
		showLoginGreeting(ctx, out, a.client)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginRedirectURL, "url", "", "Post-login redirect URL to ingest instead of waiting for the browser")
}

// waitForRedirect serves the callback endpoint, sends the user to the sign-in
// page and returns the redirect URL the browser lands on.
func waitForRedirect(ctx context.Context, out io.Writer, a *app) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callback.Timeout)
	defer cancel()

	srv := callback.NewServer(a.cfg.CallbackPort, callback.DefaultPath)
	if _, err := srv.Start(ctx); err != nil {
		return "", err
	}
	defer srv.Stop()

	signIn := a.http.LoginURL()
	fmt.Fprintln(out, "Open this link to complete login:")
	fmt.Fprintf(out, "%s\n\n", signIn)

	// Try to open the user's default browser automatically while still printing the link
	openBrowser(signIn)

	interactive := out == io.Writer(os.Stdout) && terminal.IsInteractive(os.Stdout)
	stop := func() {}
	if interactive {
		stop = startInlineSpinner(out, "Waiting for the browser", spinnerFrames, 120*time.Millisecond)
	}
	u, err := srv.Wait(ctx)
	stop()
	if errors.Is(err, context.DeadlineExceeded) {
		return "", apperrors.Wrap(apperrors.LoginFailed, "login timed out", err)
	}
	if err == nil && interactive {
		// prompt, link and blank line
		terminal.ClearPreviousLines(out, 2+terminal.LinesFor(signIn, terminal.Width(os.Stdout)))
	}
	return u, err
}

// openBrowser attempts to open the provided URL in the user's default browser.
// It uses platform-specific commands to launch the default browser:
//   - Windows: rundll32 url.dll,FileProtocolHandler
//   - macOS: open command
//   - Linux: xdg-open command
//
// The function starts the browser process but does not wait for it to complete.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}

// showLoginGreeting greets the user by name once the profile can be fetched.
func showLoginGreeting(ctx context.Context, out io.Writer, client *backend.Client) {
	u, err := client.GetUser(ctx)
	if err == nil && u != nil {
		if id := displayName(u); id != "" {
			fmt.Fprintf(out, "✅ Logged in as %s\n", id)
			return
		}
	}
	fmt.Fprintln(out, "✅ Login successful!")
}

func displayName(u *backend.User) string {
	switch {
	case u.Name != "" && u.Email != "":
		return fmt.Sprintf("%s <%s>", u.Name, u.Email)
	case u.Name != "":
		return u.Name
	default:
		return u.Email
	}
}
