package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"postgrid/internal/model"
	"postgrid/internal/store"
)

func newPostsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Manage scheduled posts",
	}
	cmd.AddCommand(newPostsAddCmd(app))
	cmd.AddCommand(newPostsListCmd(app))
	cmd.AddCommand(newPostsShowCmd(app))
	cmd.AddCommand(newPostsSetStatusCmd(app))
	cmd.AddCommand(newPostsRescheduleCmd(app))
	cmd.AddCommand(newPostsReorderCmd(app))
	cmd.AddCommand(newPostsRmCmd(app))
	return cmd
}

func newPostsAddCmd(app *App) *cobra.Command {
	var caption, at, status, media, platform string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a post to the schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			db, err := s.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			when, err := parseWhen(at)
			if err != nil {
				return writeErr(cmd, err)
			}
			st := model.Status(strings.TrimSpace(status))
			if status == "" {
				st = model.StatusDraft
			}
			if !st.Valid() {
				return writeErr(cmd, fmt.Errorf("invalid status %q", status))
			}

			now := time.Now().UTC()
			p := model.Post{
				ID:          store.NewPostID(),
				Caption:     strings.TrimSpace(caption),
				MediaRef:    strings.TrimSpace(media),
				Platform:    strings.TrimSpace(platform),
				Status:      st,
				ScheduledAt: when,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			db.Posts = append(db.Posts, p)
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			newLogger(os.Stderr, app).Debug("post added", "id", p.ID, "at", p.ScheduledAt)
			return writeOut(cmd, app, p)
		},
	}
	cmd.Flags().StringVar(&caption, "caption", "", "Post caption (markdown)")
	cmd.Flags().StringVar(&at, "at", "", "Scheduled time (RFC3339 or 2006-01-02T15:04; default: now + 1h)")
	cmd.Flags().StringVar(&status, "status", "", "Initial status (default: draft)")
	cmd.Flags().StringVar(&media, "media", "", "Media reference (path or remote key)")
	cmd.Flags().StringVar(&platform, "platform", "", "Target platform tag")
	return cmd
}

func newPostsListCmd(app *App) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts ordered by scheduled time",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			db, err := s.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			out := db.Posts
			if status != "" {
				filtered := out[:0:0]
				for _, p := range out {
					if string(p.Status) == status {
						filtered = append(filtered, p)
					}
				}
				out = filtered
			}
			return writeOut(cmd, app, out)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	return cmd
}

func newPostsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <post-id>",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			db, err := s.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			p, ok := db.FindPost(args[0])
			if !ok {
				return writeErr(cmd, fmt.Errorf("%w: %s", store.ErrNotFound, args[0]))
			}
			return writeOut(cmd, app, p)
		},
	}
}

func newPostsSetStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <post-id> <status>",
		Short: "Change a post's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			db, err := s.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			st := model.Status(args[1])
			if !st.Valid() {
				return writeErr(cmd, fmt.Errorf("invalid status %q", args[1]))
			}
			p, ok := db.FindPost(args[0])
			if !ok {
				return writeErr(cmd, fmt.Errorf("%w: %s", store.ErrNotFound, args[0]))
			}
			p.Status = st
			p.UpdatedAt = time.Now().UTC()
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, p)
		},
	}
}

func newPostsRescheduleCmd(app *App) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "reschedule <post-id>",
		Short: "Set an explicit scheduled time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(at) == "" {
				return writeErr(cmd, errors.New("--at is required"))
			}
			s, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			when, err := parseWhen(at)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.UpdateScheduledTime(cmd.Context(), args[0], when); err != nil {
				return writeErr(cmd, err)
			}
			db, err := s.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			p, _ := db.FindPost(args[0])
			return writeOut(cmd, app, p)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "New scheduled time (RFC3339 or 2006-01-02T15:04)")
	return cmd
}

func newPostsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <post-id>",
		Short: "Remove a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			db, err := s.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			kept := db.Posts[:0:0]
			removed := false
			for _, p := range db.Posts {
				if p.ID == args[0] {
					removed = true
					continue
				}
				kept = append(kept, p)
			}
			if !removed {
				return writeErr(cmd, fmt.Errorf("%w: %s", store.ErrNotFound, args[0]))
			}
			db.Posts = kept
			if err := s.Save(cmd.Context(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"removed": args[0]})
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the grid configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective grid configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadGridConfig(s.Dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, cfg)
		},
	})
	return cmd
}

// parseWhen accepts RFC3339 or the shorter local form 2006-01-02T15:04.
// An empty value schedules one hour out.
func parseWhen(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().UTC().Add(time.Hour).Truncate(time.Minute), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", s, time.Local); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q (want RFC3339 or 2006-01-02T15:04)", s)
}
