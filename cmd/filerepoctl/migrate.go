package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filerepo/internal/database/migration"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema if it is missing",
		Long: `Create the tenants, files and embeddings tables for the configured
DB_DRIVER. Running it against an already migrated database is a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := migration.EnsureMigrated(cmd.Context(), rt.db, rt.cfg.Database.Driver, rt.log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}
