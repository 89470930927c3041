// Package cli implements the postgrid command-line interface.
//
// Without a subcommand the binary starts the interactive schedule grid TUI;
// the posts subcommands provide a scriptable surface over the same store.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"postgrid/internal/format"
	"postgrid/internal/store"
	"postgrid/internal/tui"
)

type App struct {
	Dir        string
	Workspace  string
	PrettyJSON bool
	Verbose    bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "postgrid",
		Short:        "Local-first post scheduler with a drag-to-reorder grid",
		SilenceUsage: true,
		Example: `  # Start the interactive grid TUI
  postgrid

  # Scriptable commands
  postgrid posts list
  postgrid posts add --caption "launch teaser" --at 2026-04-01T10:00
  postgrid posts reorder post-1234 --to 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("POSTGRID_DIR", ""), "Path to store dir (overrides workspace resolution; mostly for fixtures/tests)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("POSTGRID_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newPostsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func runTUI(app *App) error {
	s, err := resolveStore(app)
	if err != nil {
		return err
	}
	cfg, err := store.LoadGridConfig(s.Dir)
	if err != nil {
		return err
	}
	return tui.Run(s, cfg, newTUILogger(app))
}

func resolveStore(app *App) (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		ws := app.Workspace
		if ws == "" {
			ws = "default"
		}
		d, err := store.WorkspaceDir(ws)
		if err != nil {
			return store.Store{}, err
		}
		app.Workspace = ws
		dir = d
		app.Dir = dir
	}
	return store.Store{Dir: dir}, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
