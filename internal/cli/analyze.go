package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/TimelordUK/wcstats/internal/analysis"
	"github.com/TimelordUK/wcstats/internal/commitmsg"
	"github.com/TimelordUK/wcstats/internal/render"
	"github.com/TimelordUK/wcstats/internal/source"
)

type analyzeResult struct {
	Session     *analysis.Session     `json:"session" yaml:"session"`
	Accumulated *analysis.Accumulated `json:"accumulated,omitempty" yaml:"accumulated,omitempty"`
}

func newAnalyzeCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "analyze <log>",
		Short: "Report on one session log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			an, done, err := a.analyzer()
			if err != nil {
				return err
			}
			defer done()

			s, err := an.Analyze(args[0])
			if err != nil {
				return err
			}

			result := analyzeResult{Session: s}
			if all {
				logs, err := source.NewDirectory(filepath.Dir(args[0])).Find(filepath.Base(s.FullPath))
				if err != nil {
					return err
				}
				sessions, err := an.AnalyzeAll(cmd.Context(), logs)
				if err != nil {
					return err
				}
				if len(sessions) > 0 {
					acc := analysis.Accumulate(sessions)
					result.Accumulated = &acc
				}
			}

			if format != render.FormatText {
				return render.Encode(cmd.OutOrStdout(), format, result)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), a.renderer(cmd, true).Session(result.Session, result.Accumulated))
			return err
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include accumulated stats for every session of the same file")
	addOutputFlag(cmd)
	return cmd
}

func newProcessCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "process <log>...",
		Short: "Suggest a commit message for a set of session logs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			an, done, err := a.analyzer()
			if err != nil {
				return err
			}
			defer done()

			sessions, err := an.AnalyzeAll(cmd.Context(), args)
			if err != nil {
				return err
			}

			msg := commitmsg.Generate(commitmsg.Group(sessions))
			_, err = fmt.Fprint(cmd.OutOrStdout(), a.renderer(cmd, true).CommitMessage(msg))
			return err
		},
	}
}
