package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/TimelordUK/wcstats/internal/render"
	"github.com/TimelordUK/wcstats/internal/source"
	"github.com/TimelordUK/wcstats/internal/ui"
	"github.com/TimelordUK/wcstats/internal/watch"
)

func newBrowseCommand(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse sessions interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := a.analyzeDir(cmd, dir, "")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			model := ui.NewModel(sessions, render.New(out, a.cfg.Theme, !a.noColor))
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(out),
			)
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "log directory (default from config)")
	return cmd
}

func newWatchCommand(a *app) *cobra.Command {
	var (
		dir    string
		settle time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Report each session log as it is written",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.logDir(dir)
			if err != nil {
				return err
			}

			an, done, err := a.analyzer()
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()
			r := a.renderer(cmd, true)
			handle := func(path string) {
				s, err := an.Analyze(path)
				switch {
				case errors.Is(err, source.ErrNoEvents):
					return
				case err != nil:
					a.logger.Warn("skipping session", "log", path, "error", err)
					return
				}
				if _, err := fmt.Fprint(out, r.Session(s, nil)); err != nil {
					a.logger.Warn("report write failed", "log", path, "error", err)
				}
			}

			if settle <= 0 {
				return fmt.Errorf("settle must be positive, got %s", settle)
			}
			w, err := watch.New(dir, handle, watch.WithLogger(a.logger), watch.WithSettle(settle))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			a.logger.Info("watching", "dir", w.Dir())
			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "log directory (default from config)")
	cmd.Flags().DurationVar(&settle, "settle", watch.DefaultSettle, "quiet time before a written log is reported")
	return cmd
}
