// Package cli implements the wcstats command line.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/TimelordUK/wcstats/internal/analysis"
	"github.com/TimelordUK/wcstats/internal/cache"
	"github.com/TimelordUK/wcstats/internal/config"
	"github.com/TimelordUK/wcstats/internal/logging"
	"github.com/TimelordUK/wcstats/internal/render"
	"github.com/TimelordUK/wcstats/internal/source"
)

var errNoSessions = errors.New("no sessions found")

// app carries the state shared by every command
type app struct {
	configPath string
	logLevel   string
	noCache    bool
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRoot constructs the root wcstats command with every subcommand registered
func NewRoot() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "wcstats",
		Short:        "Writing statistics from recorded editing sessions",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default "+config.GetConfigPath()+")")
	flags.StringVar(&a.logLevel, "log-level", "", "diagnostic log level: trace, debug, info, warn or error")
	flags.BoolVar(&a.noCache, "no-cache", false, "do not read or write the analysis cache")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newAnalyzeCommand(a),
		newProcessCommand(a),
		newSummaryCommand(a),
		newListCommand(a),
		newCheckpointsCommand(a),
		newDiffCommand(a),
		newBrowseCommand(a),
		newWatchCommand(a),
		newCacheCommand(a),
		newConfigCommand(a),
	)
	return root
}

// setup loads configuration and builds the logger
func (a *app) setup(cmd *cobra.Command) error {
	var cfg *config.Config
	var err error
	if a.configPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFile(a.configPath)
	}
	if err != nil {
		return err
	}
	a.cfg = cfg

	levelName := cfg.Log.Level
	if a.logLevel != "" {
		levelName = a.logLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	a.logger, err = logging.New(cmd.ErrOrStderr(), level, cfg.Log.Format)
	return err
}

// analyzer builds an analyzer from the config. The returned func releases
// the cache and must always be called.
func (a *app) analyzer() (*analysis.Analyzer, func(), error) {
	opts, err := analysis.OptionsFromConfig(a.cfg)
	if err != nil {
		return nil, nil, err
	}

	options := []analysis.AnalyzerOption{analysis.WithLogger(a.logger)}
	done := func() {}

	if a.cfg.Cache.Enabled && !a.noCache && a.cfg.Cache.Path != "" {
		store, err := cache.Open(a.cfg.Cache.Path)
		if err != nil {
			// analysis still works without the cache
			a.logger.Warn("cache unavailable", "path", a.cfg.Cache.Path, "error", err)
		} else {
			options = append(options, analysis.WithCache(store))
			done = func() {
				if err := store.Close(); err != nil {
					a.logger.Warn("cache close failed", "error", err)
				}
			}
		}
	}

	return analysis.NewAnalyzer(opts, options...), done, nil
}

// renderer builds a renderer for the command's output
func (a *app) renderer(cmd *cobra.Command, color bool) *render.Renderer {
	return render.New(cmd.OutOrStdout(), a.cfg.Theme, color && !a.noColor)
}

// logDir returns the --dir flag value or the configured log directory
func (a *app) logDir(dir string) (string, error) {
	if dir == "" {
		dir = a.cfg.Logs.Dir
	}
	if dir == "" {
		return "", fmt.Errorf("no log directory configured")
	}
	return dir, nil
}

// findLogs lists the logs in dir, optionally for one filename
func (a *app) findLogs(dir, filename string) ([]string, error) {
	dir, err := a.logDir(dir)
	if err != nil {
		return nil, err
	}
	d := source.NewDirectory(dir)
	logs, err := d.Find(filename)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, fmt.Errorf("%s: %w", d.Path(), errNoSessions)
	}
	return logs, nil
}

// outputFormat parses the -o flag
func outputFormat(cmd *cobra.Command) (render.Format, error) {
	value, err := cmd.Flags().GetString("output")
	if err != nil {
		return render.FormatText, nil
	}
	return render.ParseFormat(value)
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "text", "output format: text, json or yaml")
}
