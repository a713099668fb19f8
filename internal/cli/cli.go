// Package cli implements barbellctl, the operator command line that works on
// the blob store directly.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/claude/barbell/internal/config"
	"github.com/claude/barbell/internal/storage"
	"github.com/claude/barbell/internal/tracker"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Opener returns a tracker over the configured store and a function that
// releases it.
type Opener func(ctx context.Context, configPath string) (*tracker.Tracker, func(), error)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

// OpenFromConfig opens the store named in the config file. Logs go to stderr
// at warn level so command output stays clean.
func OpenFromConfig(ctx context.Context, configPath string) (*tracker.Tracker, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.Open(ctx, cfg.StorageOptions("migrations"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	tr := tracker.Open(ctx, store, tracker.Options{
		SuccessRest: cfg.Rest.Success(),
		FailureRest: cfg.Rest.Failure(),
	}, log)
	return tr, func() { store.Close() }, nil
}

// RootCmd builds barbellctl. open is called once per command that needs the
// store.
func RootCmd(version string, open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "barbellctl",
		Short:         "Barbell operator CLI",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `barbellctl reads and edits the Barbell store directly: today's plan,
the workout log, personal records and working weights.`,
	}
	root.PersistentFlags().String("config", "config.yaml", "path to config file")

	a := &app{open: open}
	root.AddCommand(
		a.planCmd(),
		a.finishCmd(),
		a.historyCmd(),
		a.exportCmd(),
		a.deleteCmd(),
		a.recordsCmd(),
		a.setWeightCmd(),
		a.recomputeCmd(),
		warmupCmd(),
		platesCmd(),
	)
	return root
}

type app struct {
	open Opener
}

// with opens the tracker for the duration of fn.
func (a *app) with(cmd *cobra.Command, fn func(tr *tracker.Tracker, out io.Writer) error) error {
	configPath, _ := cmd.Flags().GetString("config")
	tr, release, err := a.open(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	defer release()
	return fn(tr, cmd.OutOrStdout())
}
