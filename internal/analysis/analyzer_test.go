package analysis

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/wcstats/internal/config"
	"github.com/TimelordUK/wcstats/internal/logging"
	"github.com/TimelordUK/wcstats/internal/metrics"
	"github.com/TimelordUK/wcstats/internal/replay"
	"github.com/TimelordUK/wcstats/internal/source"
)

func writeLog(t *testing.T, dir, name string, l source.Log) string {
	t.Helper()
	data, err := json.Marshal(l)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func typingLog(filename string, start time.Time) source.Log {
	return source.Log{
		Filename:      filename,
		StartTime:     start.UnixMilli(),
		ModeDurations: map[string]float64{"i": 60000, "n": 5000},
		Events: []source.LogEvent{
			{DT: 100, Type: "m", Content: "i"},
			{DT: 200, Type: "k", Pos: 1000, Content: "Hello world."},
			{DT: 300, Type: "k", Content: "\n"},
			{DT: 400, Type: "k", Content: "Again"},
			{DT: 500, Type: "s", Content: "pre"},
			{DT: 600, Type: "end"},
		},
	}
}

func defaultOptions() Options {
	return Options{SeedWindow: time.Hour, Workers: 2}
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[CacheKey]*Session
	hits    int
}

func (c *memoryCache) Get(key CacheKey) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return s, ok
}

func (c *memoryCache) Put(key CacheKey, s *Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[CacheKey]*Session)
	}
	c.entries[key] = s
	return nil
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	path := writeLog(t, dir, "s1.json", typingLog("/nowhere/essay.md", start))

	s, err := NewAnalyzer(defaultOptions()).Analyze(path)
	require.NoError(t, err)

	assert.Equal(t, "essay.md", s.Filename)
	assert.Equal(t, "/nowhere/essay.md", s.FullPath)
	assert.True(t, start.Equal(s.Date))
	assert.Equal(t, int64(600), s.DurationMs)
	assert.Equal(t, metrics.Counts{}, s.Initial)
	assert.Equal(t, metrics.Counts{Words: 3, Sentences: 2, Paragraphs: 2}, s.Final)
	assert.Equal(t, metrics.Counts{Words: 3, Sentences: 2, Paragraphs: 2}, s.Changes)
	assert.Equal(t, 100.0, s.ChangePercentage)
	assert.Equal(t, 0.0, s.Similarity())
	assert.Equal(t, map[string]int{"m": 1, "k": 3, "s": 1, "end": 1}, s.EventCounts)
	assert.Equal(t, 3.0, s.TypingSpeed)
	assert.Equal(t, int64(60000), s.InsertMs())
	assert.Equal(t, int64(5000), s.NormalMs())
	assert.Equal(t, path, s.LogPath)

	final, ok := s.Text(replay.Final)
	require.True(t, ok)
	assert.Equal(t, "Hello world.\nAgain", final)
	pre, ok := s.Text(replay.PreSave)
	require.True(t, ok)
	assert.Equal(t, final, pre)
}

func TestAnalyzeSeedsFromRecentFile(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "draft.txt")
	require.NoError(t, os.WriteFile(tracked, []byte("Existing text here"), 0644))

	l := source.Log{
		Filename:  tracked,
		StartTime: time.Now().Add(-time.Minute).UnixMilli(),
		Events: []source.LogEvent{
			{DT: 1000, Type: "k", Pos: 1018, Content: " today"},
		},
	}
	path := writeLog(t, dir, "s.json", l)

	opts := defaultOptions()
	opts.SeedFromFile = true
	s, err := NewAnalyzer(opts).Analyze(path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Initial.Words)
	assert.Equal(t, 4, s.Final.Words)
	assert.Equal(t, 1, s.Changes.Words)

	// an old file is not trusted as the starting text
	old := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(tracked, old, old))
	s, err = NewAnalyzer(opts).Analyze(path)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Initial.Words)

	// and seeding can be switched off
	opts.SeedFromFile = false
	now := time.Now()
	require.NoError(t, os.Chtimes(tracked, now, now))
	s, err = NewAnalyzer(opts).Analyze(path)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Initial.Words)
}

func TestAnalyzeNoEvents(t *testing.T) {
	path := writeLog(t, t.TempDir(), "empty.json", source.Log{Filename: "x.md"})
	_, err := NewAnalyzer(defaultOptions()).Analyze(path)
	assert.True(t, errors.Is(err, source.ErrNoEvents))
}

func TestAnalyzeMalformed(t *testing.T) {
	path := writeLog(t, t.TempDir(), "bad.json", source.Log{
		Filename: "x.md",
		Events:   []source.LogEvent{{DT: 1, Content: "a"}},
	})
	_, err := NewAnalyzer(defaultOptions()).Analyze(path)
	assert.True(t, errors.Is(err, replay.ErrMalformedEvent))
}

func TestAnalyzeTracesReplaySteps(t *testing.T) {
	path := writeLog(t, t.TempDir(), "s.json", typingLog("/nowhere/a.md", time.Now()))

	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.LevelTrace, "text")
	require.NoError(t, err)
	_, err = NewAnalyzer(defaultOptions(), WithLogger(logger)).Analyze(path)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, strings.Count(buf.String(), "replay step"), 5)

	buf.Reset()
	logger, err = logging.New(&buf, slog.LevelDebug, "text")
	require.NoError(t, err)
	_, err = NewAnalyzer(defaultOptions(), WithLogger(logger)).Analyze(path)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "replay step")
}

func TestAnalyzeUsesCache(t *testing.T) {
	path := writeLog(t, t.TempDir(), "s.json", typingLog("/nowhere/a.md", time.Now()))
	cache := &memoryCache{}

	a := NewAnalyzer(defaultOptions(), WithCache(cache))
	first, err := a.Analyze(path)
	require.NoError(t, err)
	second, err := a.Analyze(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.hits)

	opts := defaultOptions()
	opts.Similarity = metrics.SimilarityEdit
	_, err = NewAnalyzer(opts, WithCache(cache)).Analyze(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits, "different options miss the cache")
}

func TestAnalyzeKeysByAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	abs := writeLog(t, dir, "s.json", typingLog("/nowhere/a.md", time.Now()))
	chdir(t, dir)

	cache := &memoryCache{}
	a := NewAnalyzer(defaultOptions(), WithCache(cache))

	rel, err := a.Analyze("s.json")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(rel.LogPath))
	assert.Equal(t, "s.json", filepath.Base(rel.LogPath))
	for key := range cache.entries {
		assert.True(t, filepath.IsAbs(key.LogPath))
	}

	_, err = a.Analyze(abs)
	require.NoError(t, err)
	assert.Len(t, cache.entries, 1)
	assert.Equal(t, 1, cache.hits, "relative and absolute paths share an entry")
}

func TestAnalyzeAll(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	paths := []string{
		writeLog(t, dir, "1.json", typingLog("/nowhere/a.md", now)),
		writeLog(t, dir, "2.json", source.Log{Filename: "/nowhere/empty.md"}),
		writeLog(t, dir, "3.json", source.Log{Filename: "/nowhere/bad.md", Events: []source.LogEvent{{DT: 1}}}),
		writeLog(t, dir, "4.json", typingLog("/nowhere/b.md", now)),
	}

	sessions, err := NewAnalyzer(defaultOptions()).AnalyzeAll(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "a.md", sessions[0].Filename)
	assert.Equal(t, "b.md", sessions[1].Filename)

	opts := defaultOptions()
	opts.FailFast = true
	_, err = NewAnalyzer(opts).AnalyzeAll(context.Background(), paths)
	assert.True(t, errors.Is(err, replay.ErrMalformedEvent))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Analysis.Similarity = "edit"
	cfg.Analysis.EmptyDeletion = "ignore"

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, metrics.SimilarityEdit, opts.Similarity)
	assert.Equal(t, replay.EmptyDeletionIgnore, opts.EmptyDeletion)
	assert.Equal(t, time.Hour, opts.SeedWindow)
	assert.True(t, opts.SeedFromFile)

	cfg.Analysis.SentenceStrategy = "bogus"
	_, err = OptionsFromConfig(cfg)
	assert.Error(t, err)
}

// chdir changes the working directory for the rest of the test and restores
// it on cleanup (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
