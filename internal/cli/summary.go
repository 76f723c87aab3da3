package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimelordUK/wcstats/internal/analysis"
	"github.com/TimelordUK/wcstats/internal/render"
)

// analyzeDir analyzes every log in dir recorded for filename
func (a *app) analyzeDir(cmd *cobra.Command, dir, filename string) ([]*analysis.Session, error) {
	logs, err := a.findLogs(dir, filename)
	if err != nil {
		return nil, err
	}

	an, done, err := a.analyzer()
	if err != nil {
		return nil, err
	}
	defer done()

	sessions, err := an.AnalyzeAll(cmd.Context(), logs)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, errNoSessions
	}
	return sessions, nil
}

func newSummaryCommand(a *app) *cobra.Command {
	var filename, dir string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show per-file totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			sessions, err := a.analyzeDir(cmd, dir, filename)
			if err != nil {
				return err
			}
			stats := analysis.Summarize(sessions)

			if format != render.FormatText {
				return render.Encode(cmd.OutOrStdout(), format, stats)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), a.renderer(cmd, true).Summary(stats))
			return err
		},
	}

	cmd.Flags().StringVar(&filename, "filename", "", "only sessions of this file")
	cmd.Flags().StringVar(&dir, "dir", "", "log directory (default from config)")
	addOutputFlag(cmd)
	return cmd
}

func newListCommand(a *app) *cobra.Command {
	var dir, sortBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			key, err := analysis.ParseSortKey(sortBy)
			if err != nil {
				return err
			}

			sessions, err := a.analyzeDir(cmd, dir, "")
			if err != nil {
				return err
			}
			stats := analysis.Summarize(sessions)
			analysis.SortFileStats(stats, key)

			if format != render.FormatText {
				return render.Encode(cmd.OutOrStdout(), format, stats)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), a.renderer(cmd, true).List(stats))
			return err
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "log directory (default from config)")
	cmd.Flags().StringVar(&sortBy, "sort", "date", "sort by date, words or duration")
	addOutputFlag(cmd)
	return cmd
}
