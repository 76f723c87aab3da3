package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TimelordUK/wcstats/internal/diff"
	"github.com/TimelordUK/wcstats/internal/replay"
)

var checkpointOrder = []replay.Name{replay.Initial, replay.PreSave, replay.Final}

func parseCheckpoint(s string) (replay.Name, error) {
	for _, name := range checkpointOrder {
		if string(name) == s {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown checkpoint %q (use initial, pre_save or final)", s)
}

func newCheckpointsCommand(a *app) *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "checkpoints <log>",
		Short: "Print the reconstructed text at each checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			an, done, err := a.analyzer()
			if err != nil {
				return err
			}
			defer done()

			s, err := an.Analyze(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if only != "" {
				name, err := parseCheckpoint(only)
				if err != nil {
					return err
				}
				text, ok := s.Text(name)
				if !ok {
					return fmt.Errorf("%s: %w", name, diff.ErrMissingCheckpoint)
				}
				_, err = fmt.Fprint(out, text)
				return err
			}

			r := a.renderer(cmd, true)
			var parts []string
			for _, name := range checkpointOrder {
				if text, ok := s.Text(name); ok {
					parts = append(parts, r.Checkpoint(name, text))
				}
			}
			_, err = fmt.Fprint(out, strings.Join(parts, "\n"))
			return err
		},
	}

	cmd.Flags().StringVar(&only, "name", "", "print only this checkpoint: initial, pre_save or final")
	return cmd
}

func newDiffCommand(a *app) *cobra.Command {
	var from, to string
	var color bool

	cmd := &cobra.Command{
		Use:   "diff <log>",
		Short: "Show a unified diff between two checkpoints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromName, err := parseCheckpoint(from)
			if err != nil {
				return err
			}
			toName, err := parseCheckpoint(to)
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

			unified, err := diff.Checkpoints(s.Checkpoints, fromName, toName)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), a.renderer(cmd, color).Diff(unified))
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", string(replay.Initial), "checkpoint to diff from")
	cmd.Flags().StringVar(&to, "to", string(replay.Final), "checkpoint to diff to")
	cmd.Flags().BoolVar(&color, "color", false, "highlight the diff")
	return cmd
}
