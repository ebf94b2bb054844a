// Command chamactl is the operator CLI: seed the ledger, run a reminder
// sweep, export a report, start a new cycle, or hash an admin password.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/chamabot/internal/config"
	"github.com/mmynk/chamabot/internal/storage/sqlite"
	"github.com/mmynk/chamabot/pkg/logging"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "chamactl",
		Short:         "chamactl - operate the chama contribution tracker",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(remindCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(resetCycleCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every ledger command needs.
type env struct {
	cfg    *config.Config
	store  *sqlite.SQLiteStore
	logger *slog.Logger
}

func openEnv() (*env, error) {
	logger := logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.DBPath, err)
	}

	return &env{cfg: cfg, store: store, logger: logger}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}
