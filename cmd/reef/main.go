// Package main provides the entry point for the reef CLI.
package main

import (
	"os"

	"github.com/mworkman/reef/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		cli.PrintError(err)
		os.Exit(cli.ExitCode(err))
	}
}
