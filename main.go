// Package main is the entry point for the tokensession CLI application.
// It signs in against the backend and keeps the token session alive across invocations.
package main

import (
	"tokensession/cli/cmd"
)

// main is the entry point for the tokensession CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
