package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"postgrid/internal/reorder"
	"postgrid/internal/store"
)

func newPostsReorderCmd(app *App) *cobra.Command {
	var to int
	cmd := &cobra.Command{
		Use:   "reorder <post-id>",
		Short: "Move a post to a new position among the reorderable posts",
		Long: `Move a post to a new position among the reorderable posts.

The position is an index into the movable subsequence (drafts and scheduled
posts only); published and in-flight posts keep their slots and times. The
moved post receives a recomputed scheduled time between its new neighbors,
exactly like a drag-and-drop in the TUI.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadGridConfig(s.Dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			db, err := s.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			seq := reorder.NewSequence(db.Posts)
			abs, ok := seq.Find(args[0])
			if !ok {
				return writeErr(cmd, fmt.Errorf("%w: %s", store.ErrNotFound, args[0]))
			}
			srcPos, ok := seq.MovablePos(abs)
			if !ok {
				return writeErr(cmd, fmt.Errorf("post %s is not reorderable in its current status", args[0]))
			}

			plan, err := reorder.PlanReschedule(seq.Movable(), args[0], srcPos, to, cfg.Spacing(), nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !plan.NoOp {
				if err := s.UpdateScheduledTime(cmd.Context(), plan.PostID, plan.NewTime); err != nil {
					return writeErr(cmd, err)
				}
				for _, sh := range plan.Shifts {
					if err := s.UpdateScheduledTime(cmd.Context(), sh.PostID, sh.NewTime); err != nil {
						return writeErr(cmd, err)
					}
				}
				newLogger(os.Stderr, app).Debug("post reordered",
					"id", plan.PostID, "from", srcPos, "to", to, "newTime", plan.NewTime)
			}
			return writeOut(cmd, app, plan)
		},
	}
	cmd.Flags().IntVar(&to, "to", 0, "Destination position within the reorderable posts")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
