// Package main is the entry point for the doorcost CLI.
package main

import (
	"os"

	"doorcost/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
