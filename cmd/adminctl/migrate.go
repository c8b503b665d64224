package main

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"accessrating-backend/internal/migrate"
	"accessrating-backend/migrations"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withManager(func(m *migrate.Manager) error {
					applied, err := m.Up(cmd.Context())
					if err != nil {
						return fmt.Errorf("migrating up: %w", err)
					}
					if len(applied) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
						return nil
					}
					for _, name := range applied {
						fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withManager(func(m *migrate.Manager) error {
					name, err := m.Down(cmd.Context())
					if err != nil {
						return fmt.Errorf("migrating down: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "rolled back %s\n", name)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List applied migrations in order",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withManager(func(m *migrate.Manager) error {
					applied, err := m.Status(cmd.Context())
					if err != nil {
						return fmt.Errorf("reading status: %w", err)
					}
					if len(applied) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No migrations applied.")
						return nil
					}
					for _, name := range applied {
						fmt.Fprintln(cmd.OutOrStdout(), name)
					}
					return nil
				})
			},
		},
	)

	return cmd
}

func withManager(fn func(m *migrate.Manager) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.Database.PoolConfig().ConnectionString())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	return fn(migrate.NewManager(db, migrations.FS))
}
