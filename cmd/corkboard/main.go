// Package main provides the entry point for the corkboard command.
package main

import (
	"context"
	"os"

	"github.com/listenupapp/corkboard/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
