// Command barbell-mcp serves the Barbell MCP tools over stdio. It either opens
// the store named in the config file or, with -url, reads from a running
// Barbell server (for example over Tailscale).
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/claude/barbell/internal/config"
	barbellmcp "github.com/claude/barbell/internal/mcp"
	"github.com/claude/barbell/internal/storage"
	"github.com/claude/barbell/internal/tracker"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	remoteURL := flag.String("url", "", "base URL of a running Barbell server (remote mode)")
	flag.Parse()

	// stdout carries the protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds barbellmcp.DataSource
	if *remoteURL != "" {
		ds = barbellmcp.NewHTTPClient(*remoteURL)
		log.Info("mcp remote mode", "url", *remoteURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		ctx := context.Background()
		store, err := storage.Open(ctx, cfg.StorageOptions("migrations"))
		if err != nil {
			log.Error("failed to open storage", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		tr := tracker.Open(ctx, store, tracker.Options{
			SuccessRest: cfg.Rest.Success(),
			FailureRest: cfg.Rest.Failure(),
		}, log)
		ds = barbellmcp.Local{Tracker: tr}
		log.Info("mcp local mode", "driver", cfg.Storage.Driver)
	}

	s := barbellmcp.New(ds, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
