package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-insights/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// openDB loads configuration and returns the underlying sql handle with its closer
type openDB func() (*sql.DB, func(), error)

func newRootCommand() *cobra.Command {
	return newRootCommandWith(connect)
}

func newRootCommandWith(open openDB) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the meeting-insights database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newUpCommand(open))
	rootCmd.AddCommand(newDownCommand(open))
	rootCmd.AddCommand(newStatusCommand(open))
	return rootCmd
}

func newUpCommand(open openDB) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := open()
			if err != nil {
				return err
			}
			defer closeDB()

			n, err := database.Migrate(db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", n)
			return nil
		},
	}
}

func newDownCommand(open openDB) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 0 {
				return fmt.Errorf("--steps must be zero or positive, got %d", steps)
			}
			db, closeDB, err := open()
			if err != nil {
				return err
			}
			defer closeDB()

			n, err := database.Rollback(db, steps)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back (0 rolls back all)")
	return cmd
}

func newStatusCommand(open openDB) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := open()
			if err != nil {
				return err
			}
			defer closeDB()

			rows, err := database.Status(db)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderStatus(rows))
			return nil
		},
	}
}

func connect() (*sql.DB, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	db, err := database.NewPostgresDB(cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get database connection: %w", err)
	}
	return sqlDB, func() { _ = database.CloseDB(db) }, nil
}
