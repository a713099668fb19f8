package main

import (
	"fmt"
	"os"

	"github.com/claude/barbell/internal/cli"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := cli.RootCmd(Version, cli.OpenFromConfig).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
