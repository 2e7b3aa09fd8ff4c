package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kasheena/code-for-good/internal/cli"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = commit

	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
