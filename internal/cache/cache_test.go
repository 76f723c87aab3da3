package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/wcstats/internal/analysis"
	"github.com/TimelordUK/wcstats/internal/metrics"
	"github.com/TimelordUK/wcstats/internal/source"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	s := openStore(t)
	stamp := source.Stamp{Size: 120, ModTime: time.Unix(1700000000, 42)}
	key := analysis.CacheKey{LogPath: "/logs/a.json", Stamp: stamp, Fingerprint: "punctuation|jaccard"}

	_, ok := s.Get(key)
	assert.False(t, ok)

	sess := &analysis.Session{
		Filename:    "a.md",
		Date:        time.Unix(1700000000, 0),
		Final:       metrics.Counts{Words: 7},
		EventCounts: map[string]int{"k": 12},
		Checkpoints: map[string]string{"initial": "", "final": "seven words"},
	}
	require.NoError(t, s.Put(key, sess))

	got, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, "a.md", got.Filename)
	assert.Equal(t, 7, got.Final.Words)
	assert.Equal(t, 12, got.Keystrokes())
	assert.True(t, sess.Date.Equal(got.Date))
	assert.Equal(t, "seven words", got.Checkpoints["final"])
}

func TestGetMissesOnChangedStampOrFingerprint(t *testing.T) {
	s := openStore(t)
	key := analysis.CacheKey{
		LogPath:     "/logs/a.json",
		Stamp:       source.Stamp{Size: 10, ModTime: time.Unix(100, 0)},
		Fingerprint: "v1",
	}
	require.NoError(t, s.Put(key, &analysis.Session{Filename: "a.md"}))

	grown := key
	grown.Stamp.Size = 11
	_, ok := s.Get(grown)
	assert.False(t, ok)

	touched := key
	touched.Stamp.ModTime = time.Unix(101, 0)
	_, ok = s.Get(touched)
	assert.False(t, ok)

	reconfigured := key
	reconfigured.Fingerprint = "v2"
	_, ok = s.Get(reconfigured)
	assert.False(t, ok)

	_, ok = s.Get(key)
	assert.True(t, ok)
}

func TestPrune(t *testing.T) {
	s := openStore(t)
	dir := t.TempDir()
	kept := filepath.Join(dir, "kept.json")
	require.NoError(t, os.WriteFile(kept, []byte("{}"), 0644))

	for _, p := range []string{kept, filepath.Join(dir, "gone.json")} {
		require.NoError(t, s.Put(analysis.CacheKey{LogPath: p}, &analysis.Session{}))
	}

	removed, err := s.Prune()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, ok := s.Get(analysis.CacheKey{LogPath: kept})
	assert.True(t, ok)
}
