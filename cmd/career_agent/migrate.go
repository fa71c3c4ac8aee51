package main

import (
	"fmt"

	"github.com/jonathan/career-recommender/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  "Creates the careers, users and recommendations tables. Safe to run repeatedly.",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	database, err := connect(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(cmd.Context()); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
	return nil
}

// connect opens the database named by DATABASE_URL.
func connect(cmd *cobra.Command) (*db.DB, error) {
	settings, err := loadSettings(v)
	if err != nil {
		return nil, err
	}
	if settings.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return db.Connect(cmd.Context(), settings.DatabaseURL)
}
