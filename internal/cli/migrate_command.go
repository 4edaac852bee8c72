package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command and its up/down/version subcommands.
func NewMigrateCommand(f Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := f.Migrator()
			if err != nil {
				return err
			}
			if err := m.Up(); err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
			cmd.Println("Migrations applied")
			return nil
		},
	})

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1, got %d", steps)
			}

			m, err := f.Migrator()
			if err != nil {
				return err
			}
			if err := m.Down(steps); err != nil {
				return fmt.Errorf("failed to roll back migrations: %w", err)
			}
			cmd.Printf("Rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	down.Flags().Int("steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := f.Migrator()
			if err != nil {
				return err
			}
			version, dirty, err := m.Version()
			if err != nil {
				return fmt.Errorf("failed to read schema version: %w", err)
			}
			if dirty {
				cmd.Printf("Schema version: %d (dirty)\n", version)
				return nil
			}
			cmd.Printf("Schema version: %d\n", version)
			return nil
		},
	})

	return cmd
}
