// Package main provides cvctl, the operator CLI for CV Studio.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/khoahotran/cv-studio/adapters/persistence"
	"github.com/khoahotran/cv-studio/internal/config"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

// cli carries what every command needs. Tests swap open for the memory store.
type cli struct {
	cfg  config.Config
	log  logger.Logger
	open func(ctx context.Context) (persistence.Repositories, func(), error)
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "cvctl",
		Short:         "CV Studio operator tool",
		Long:          "cvctl seeds the owner account, imports master profile exports and applies database migrations.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newSeedOwnerCmd(c),
		newImportProfileCmd(c),
		newCompletionCmd(c),
		newMigrateCmd(c),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewZapLogger(cfg.App.Env)

	c := &cli{
		cfg: cfg,
		log: log,
		open: func(ctx context.Context) (persistence.Repositories, func(), error) {
			return persistence.Open(ctx, cfg, log)
		},
	}

	if err := newRootCmd(c).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
