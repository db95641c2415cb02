// Package main provides the entry point for the doculyzer CLI tool.
package main

import (
	"os"

	"github.com/msureshc21/Doculyzer/cmd/doculyzer/app"
	"github.com/msureshc21/Doculyzer/cmd/doculyzer/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	application, err := app.New(version, commit, date)
	if err != nil {
		app.ExitOnError(err)
	}

	ctx, cancel := app.Context()
	defer cancel()

	root := cmd.NewRootCommand(application)
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		application.Shutdown()
		app.ExitOnError(err)
	}
	application.Shutdown()
}
