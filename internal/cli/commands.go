// Package cli holds the tubectl subcommands. Commands receive their
// dependencies through a Factory so tests can run them without a database.
package cli

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hszk-dev/gotube/internal/usecase"
)

// Deleter runs cascading deletes. *usecase.CascadeEngine implements it.
type Deleter interface {
	DeleteVideo(ctx context.Context, videoID, principal uuid.UUID) (*usecase.CascadeReport, error)
	DeleteComment(ctx context.Context, commentID, principal uuid.UUID) (*usecase.CascadeReport, error)
}

// Migrator applies schema migrations.
type Migrator interface {
	Up() error
	Down(steps int) error
	Version() (version uint, dirty bool, err error)
}

// Factory builds command dependencies on demand. The returned cleanup
// function releases connections and is never nil when err is nil.
type Factory interface {
	Deleter(ctx context.Context) (Deleter, func(), error)
	Migrator() (Migrator, error)
}

// NewRootCommand creates the tubectl root command.
func NewRootCommand(f Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tubectl",
		Short:         "Operate the gotube content service",
		Long:          `Apply database migrations and run cascading deletes on behalf of an owner.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewMigrateCommand(f))
	cmd.AddCommand(NewVideoCommand(f))
	cmd.AddCommand(NewCommentCommand(f))

	return cmd
}
