// Command rex is a command-line client for the Rex CRM API.
package main

import (
	"os"

	"rex-crm-client/cmd/rex/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
