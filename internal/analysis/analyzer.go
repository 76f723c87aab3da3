// Package analysis turns session logs into writing statistics.
//
// Each log is replayed into checkpoints and the initial and final texts are
// measured. Batches run one replay per log on a bounded worker pool.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/TimelordUK/wcstats/internal/config"
	wcio "github.com/TimelordUK/wcstats/internal/io"
	"github.com/TimelordUK/wcstats/internal/logging"
	"github.com/TimelordUK/wcstats/internal/metrics"
	"github.com/TimelordUK/wcstats/internal/replay"
	"github.com/TimelordUK/wcstats/internal/source"
)

// Options control how sessions are analyzed
type Options struct {
	Sentences     metrics.SentenceStrategy
	Similarity    metrics.SimilarityStrategy
	EmptyDeletion replay.EmptyDeletion

	// SeedFromFile seeds the replay with the tracked file's current content
	// when it was modified within SeedWindow of the session end
	SeedFromFile bool
	SeedWindow   time.Duration

	Workers  int
	FailFast bool
}

// OptionsFromConfig builds Options from the analysis section of cfg
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	sentences, err := cfg.SentenceStrategy()
	if err != nil {
		return Options{}, err
	}
	similarity, err := cfg.SimilarityStrategy()
	if err != nil {
		return Options{}, err
	}
	emptyDeletion, err := cfg.EmptyDeletion()
	if err != nil {
		return Options{}, err
	}
	window, err := cfg.SeedWindow()
	if err != nil {
		return Options{}, err
	}

	return Options{
		Sentences:     sentences,
		Similarity:    similarity,
		EmptyDeletion: emptyDeletion,
		SeedFromFile:  cfg.Analysis.SeedFromFile,
		SeedWindow:    window,
		Workers:       cfg.Analysis.Workers,
		FailFast:      cfg.Analysis.FailFast,
	}, nil
}

// fingerprint identifies the options that change analysis results
func (o Options) fingerprint() string {
	return fmt.Sprintf("%s|%s|%s|seed=%t", o.Sentences, o.Similarity, o.EmptyDeletion, o.SeedFromFile)
}

// Cache stores analyzed sessions between runs
type Cache interface {
	Get(key CacheKey) (*Session, bool)
	Put(key CacheKey, s *Session) error
}

// CacheKey identifies one analysis of one version of a log
type CacheKey struct {
	LogPath     string
	Stamp       source.Stamp
	Fingerprint string
}

// Analyzer analyzes session logs
type Analyzer struct {
	opts    Options
	counter *metrics.Counter
	cache   Cache
	logger  *slog.Logger
}

// AnalyzerOption configures an Analyzer
type AnalyzerOption func(*Analyzer)

// WithCache stores and reuses results in c
func WithCache(c Cache) AnalyzerOption {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(l *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(opts Options, options ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		opts:    opts,
		counter: metrics.NewCounter(opts.Sentences),
	}
	for _, option := range options {
		option(a)
	}
	a.logger = logging.OrDiscard(a.logger)
	return a
}

// Analyze replays and measures one session log. A log without events yields
// source.ErrNoEvents.
func (a *Analyzer) Analyze(logPath string) (*Session, error) {
	logPath, err := filepath.Abs(logPath)
	if err != nil {
		return nil, err
	}

	stamp, err := source.StatLog(logPath)
	if err != nil {
		return nil, err
	}

	l, err := source.LoadLog(logPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", logPath, err)
	}
	if len(l.Events) == 0 {
		return nil, fmt.Errorf("%s: %w", logPath, source.ErrNoEvents)
	}

	seedPath, seedStamp := a.seedFile(l)
	key := CacheKey{
		LogPath:     logPath,
		Stamp:       stamp,
		Fingerprint: a.opts.fingerprint() + seedStamp,
	}

	if a.cache != nil {
		if s, ok := a.cache.Get(key); ok {
			a.logger.Debug("cache hit", "log", logPath)
			return s, nil
		}
	}

	s, err := a.measure(logPath, l, a.readSeed(seedPath))
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if err := a.cache.Put(key, s); err != nil {
			a.logger.Warn("cache write failed", "log", logPath, "error", err)
		}
	}
	return s, nil
}

func (a *Analyzer) measure(logPath string, l *source.Log, seed string) (*Session, error) {
	opts := []replay.Option{replay.WithEmptyDeletion(a.opts.EmptyDeletion)}
	if a.logger.Enabled(context.Background(), logging.LevelTrace) {
		opts = append(opts, replay.WithStepHook(func(st replay.Step) {
			a.logger.Log(context.Background(), logging.LevelTrace, "replay step",
				"log", logPath, "event", st.Index, "kind", st.Event.Kind,
				"cursor", st.Snapshot.Cursor(), "lines", st.Snapshot.LineCount())
		}))
	}
	cps, err := replay.Replay(l.ReplayEvents(), seed, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", logPath, err)
	}
	for _, w := range cps.Warnings() {
		a.logger.Debug("replay warning", "log", logPath, "event", w.Index, "dt", w.Timestamp, "error", w.Err)
	}

	initialText, _ := cps.Text(replay.Initial)
	finalText, _ := cps.Text(replay.Final)

	initial := a.counter.Count(initialText)
	final := a.counter.Count(finalText)

	modes := make(map[string]int64, len(l.ModeDurations))
	for mode := range l.ModeDurations {
		modes[mode] = l.ModeMillis(mode)
	}

	counts := l.EventCounts()
	similarity := metrics.Similarity(a.opts.Similarity, initialText, finalText)

	return &Session{
		Filename:         filepath.Base(l.Filename),
		FullPath:         l.Filename,
		Date:             l.Start(),
		DurationMs:       l.Duration(),
		ModeDurations:    modes,
		Initial:          initial,
		Final:            final,
		Changes:          final.Sub(initial),
		ChangePercentage: round1(100 - similarity),
		EventCounts:      counts,
		TypingSpeed:      round1(typingSpeed(counts[string(replay.KindKeystroke)], modes["i"])),
		LogPath:          logPath,
		Checkpoints:      cps.Texts(),
		Warnings:         len(cps.Warnings()),
	}, nil
}

// seedFile returns the tracked file when it is trusted as the starting text,
// and a stamp describing it for cache keys. It only stats the file.
func (a *Analyzer) seedFile(l *source.Log) (string, string) {
	if !a.opts.SeedFromFile || l.Filename == "" {
		return "", ""
	}

	info, err := os.Stat(l.Filename)
	if err != nil || info.IsDir() {
		return "", ""
	}

	end := l.Start().Add(time.Duration(l.Duration()) * time.Millisecond)
	gap := info.ModTime().Sub(end)
	if gap < 0 {
		gap = -gap
	}
	if gap >= a.opts.SeedWindow {
		return "", ""
	}

	return l.Filename, fmt.Sprintf("|%d@%d", info.Size(), info.ModTime().UnixNano())
}

// readSeed returns the content of the seed file, or "" without one
func (a *Analyzer) readSeed(path string) string {
	if path == "" {
		return ""
	}
	data, err := wcio.ReadFile(path)
	if err != nil {
		a.logger.Debug("seed unreadable", "file", path, "error", err)
		return ""
	}
	return string(data)
}

// AnalyzeAll analyzes logs concurrently and returns sessions in input order.
// Logs without events are always skipped. Other failures abort the batch when
// FailFast is set and are logged and skipped otherwise.
func (a *Analyzer) AnalyzeAll(ctx context.Context, paths []string) ([]*Session, error) {
	results := make([]*Session, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	workers := a.opts.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			s, err := a.Analyze(path)
			switch {
			case err == nil:
				results[i] = s
			case errors.Is(err, source.ErrNoEvents):
				a.logger.Info("skipping empty session", "log", path)
			case a.opts.FailFast:
				return err
			default:
				a.logger.Warn("skipping session", "log", path, "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sessions := make([]*Session, 0, len(results))
	for _, s := range results {
		if s != nil {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}
