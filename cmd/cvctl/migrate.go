package main

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	"github.com/khoahotran/cv-studio/migrations"
)

func newMigrateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the embedded database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.DB.DSN == "" {
				return errors.New("db.dsn is not configured")
			}

			src, err := iofs.New(migrations.FS, ".")
			if err != nil {
				return fmt.Errorf("cannot read embedded migrations: %w", err)
			}
			m, err := migrate.NewWithSourceInstance("iofs", src, c.cfg.DB.DSN)
			if err != nil {
				return fmt.Errorf("cannot init migrate: %w", err)
			}
			defer m.Close()

			if args[0] == "up" {
				err = m.Up()
			} else {
				err = m.Down()
			}
			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Fprintln(cmd.OutOrStdout(), "no change")
				return nil
			}
			if err != nil {
				return fmt.Errorf("migrate %s failed: %w", args[0], err)
			}

			version, dirty, err := m.Version()
			switch {
			case errors.Is(err, migrate.ErrNilVersion):
				fmt.Fprintln(cmd.OutOrStdout(), "schema empty")
			case err != nil:
				return fmt.Errorf("cannot read schema version: %w", err)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d (dirty=%t)\n", version, dirty)
			}
			return nil
		},
	}
	return cmd
}
