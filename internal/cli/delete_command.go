package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hszk-dev/gotube/internal/usecase"
)

type deleteFunc func(d Deleter, ctx context.Context, id, principal uuid.UUID) (*usecase.CascadeReport, error)

// NewVideoCommand creates the video command.
func NewVideoCommand(f Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video",
		Short: "Video operations",
	}
	cmd.AddCommand(newDeleteCommand(f, "video", Deleter.DeleteVideo))
	return cmd
}

// NewCommentCommand creates the comment command.
func NewCommentCommand(f Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Comment operations",
	}
	cmd.AddCommand(newDeleteCommand(f, "comment", Deleter.DeleteComment))
	return cmd
}

type reportOutput struct {
	ID                    string   `json:"id"`
	Complete              bool     `json:"complete"`
	AssetsFailed          int      `json:"assets_failed"`
	LikesRemoved          int64    `json:"likes_removed"`
	CommentLikesRemoved   int64    `json:"comment_likes_removed"`
	CommentsRemoved       int64    `json:"comments_removed"`
	PlaylistsUpdated      int      `json:"playlists_updated"`
	WatchHistoriesUpdated int      `json:"watch_histories_updated"`
	Failures              []string `json:"failures,omitempty"`
	Skipped               []string `json:"skipped,omitempty"`
}

func newDeleteCommand(f Factory, entity string, run deleteFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [ID]",
		Short: fmt.Sprintf("Delete a %s and everything that references it", entity),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid %s ID %q: %w", entity, args[0], err)
			}
			as, _ := cmd.Flags().GetString("as")
			principal, err := uuid.Parse(as)
			if err != nil {
				return fmt.Errorf("--as must be the owner's user ID: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			deleter, cleanup, err := f.Deleter(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			defer cleanup()

			report, err := run(deleter, ctx, id, principal)
			if err != nil {
				return fmt.Errorf("failed to delete %s: %w", entity, err)
			}

			jsonOutput, _ := cmd.Flags().GetBool("json")
			if jsonOutput {
				return printReportJSON(cmd, report)
			}
			printReport(cmd, entity, report)
			return nil
		},
	}

	cmd.Flags().String("as", "", "User ID of the owner performing the delete (required)")
	_ = cmd.MarkFlagRequired("as")
	cmd.Flags().Bool("json", false, "Print the cascade report as JSON")

	return cmd
}

func toReportOutput(r *usecase.CascadeReport) reportOutput {
	out := reportOutput{
		ID:                    r.EntityID.String(),
		Complete:              r.Complete(),
		AssetsFailed:          r.AssetsFailed,
		LikesRemoved:          r.LikesRemoved,
		CommentLikesRemoved:   r.CommentLikesRemoved,
		CommentsRemoved:       r.CommentsRemoved,
		PlaylistsUpdated:      r.PlaylistsUpdated,
		WatchHistoriesUpdated: r.WatchHistoriesUpdated,
	}
	for _, f := range r.Failures {
		out.Failures = append(out.Failures, fmt.Sprintf("%s: %v", f.Step, f.Err))
	}
	for _, s := range r.Skipped {
		out.Skipped = append(out.Skipped, string(s))
	}
	return out
}

func printReportJSON(cmd *cobra.Command, r *usecase.CascadeReport) error {
	data, err := json.MarshalIndent(toReportOutput(r), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printReport(cmd *cobra.Command, entity string, r *usecase.CascadeReport) {
	out := toReportOutput(r)
	cmd.Printf("Deleted %s %s\n", entity, out.ID)
	cmd.Printf("  likes removed:            %d\n", out.LikesRemoved)
	if entity == "video" {
		cmd.Printf("  comments removed:         %d\n", out.CommentsRemoved)
		cmd.Printf("  comment likes removed:    %d\n", out.CommentLikesRemoved)
		cmd.Printf("  playlists updated:        %d\n", out.PlaylistsUpdated)
		cmd.Printf("  watch histories updated:  %d\n", out.WatchHistoriesUpdated)
		cmd.Printf("  assets deferred to queue: %d\n", out.AssetsFailed)
	}
	if out.Complete {
		return
	}
	cmd.Println("Cascade incomplete:")
	for _, f := range out.Failures {
		cmd.Printf("  failed:  %s\n", f)
	}
	for _, s := range out.Skipped {
		cmd.Printf("  skipped: %s\n", s)
	}
}
