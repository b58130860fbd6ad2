// Package commands implements the rex CLI. Every command prints JSON on stdout
// and logs to stderr; commands that need a session log in with the configured
// credentials and log out before returning.
package commands
