package main

import (
	"context"
	"fmt"
	"os"

	"github.com/atlanticdynamic/devserve/internal/fancy"
	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:           "devserve",
		Version:        Version,
		Usage:          "Serve a static web app locally with its map access token injected",
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			newServeCmd(),
			newValidateCmd(),
			newVersionCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, fancy.ErrorText("Error: "+err.Error()))
		os.Exit(1)
	}
}
