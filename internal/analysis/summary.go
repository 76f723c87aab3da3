package analysis

import (
	"fmt"
	"sort"
	"time"
)

// Accumulated totals several sessions of the same file
type Accumulated struct {
	TotalSessions   int     `json:"total_sessions" yaml:"total_sessions"`
	TotalDurationMs int64   `json:"total_duration_ms" yaml:"total_duration_ms"`
	TotalWordsAdded int     `json:"total_words_added" yaml:"total_words_added"`
	AvgTypingSpeed  float64 `json:"avg_typing_speed" yaml:"avg_typing_speed"`
}

// Accumulate totals sessions. Only positive word changes count as added.
func Accumulate(sessions []*Session) Accumulated {
	var acc Accumulated
	var keystrokes int
	var insertMs int64

	for _, s := range sessions {
		acc.TotalSessions++
		acc.TotalDurationMs += s.DurationMs
		if s.Changes.Words > 0 {
			acc.TotalWordsAdded += s.Changes.Words
		}
		keystrokes += s.Keystrokes()
		insertMs += s.InsertMs()
	}

	if insertMs > 0 {
		acc.AvgTypingSpeed = float64(keystrokes) / (float64(insertMs) / 60000)
	}
	return acc
}

// FileStats totals the sessions of one tracked file
type FileStats struct {
	Filename        string    `json:"filename" yaml:"filename"`
	Sessions        int       `json:"sessions" yaml:"sessions"`
	TotalDurationMs int64     `json:"total_duration_ms" yaml:"total_duration_ms"`
	TotalWords      int       `json:"total_words" yaml:"total_words"`
	TotalKeystrokes int       `json:"total_keystrokes" yaml:"total_keystrokes"`
	FirstSeen       time.Time `json:"first_seen" yaml:"first_seen"`
	LastSeen        time.Time `json:"last_seen" yaml:"last_seen"`
}

// Summarize groups sessions by base filename, sorted by filename
func Summarize(sessions []*Session) []FileStats {
	byName := make(map[string]*FileStats)
	for _, s := range sessions {
		st, ok := byName[s.Filename]
		if !ok {
			st = &FileStats{Filename: s.Filename, FirstSeen: s.Date, LastSeen: s.Date}
			byName[s.Filename] = st
		}
		st.Sessions++
		st.TotalDurationMs += s.DurationMs
		st.TotalWords += s.Changes.Words
		st.TotalKeystrokes += s.Keystrokes()
		if s.Date.Before(st.FirstSeen) {
			st.FirstSeen = s.Date
		}
		if s.Date.After(st.LastSeen) {
			st.LastSeen = s.Date
		}
	}

	stats := make([]FileStats, 0, len(byName))
	for _, st := range byName {
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Filename < stats[j].Filename
	})
	return stats
}

// SortKey orders a file list
type SortKey string

const (
	SortDate     SortKey = "date"
	SortWords    SortKey = "words"
	SortDuration SortKey = "duration"
)

// ParseSortKey parses date, words or duration
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "", SortDate:
		return SortDate, nil
	case SortWords, SortDuration:
		return SortKey(s), nil
	default:
		return "", fmt.Errorf("unknown sort key %q (use date, words or duration)", s)
	}
}

// SortFileStats orders stats in place: largest absolute word change, longest
// duration, or most recently edited first
func SortFileStats(stats []FileStats, key SortKey) {
	sort.SliceStable(stats, func(i, j int) bool {
		switch key {
		case SortWords:
			return abs(stats[i].TotalWords) > abs(stats[j].TotalWords)
		case SortDuration:
			return stats[i].TotalDurationMs > stats[j].TotalDurationMs
		default:
			return stats[i].LastSeen.After(stats[j].LastSeen)
		}
	})
}

// SameFile returns the sessions recorded for filename, oldest first as given
func SameFile(sessions []*Session, filename string) []*Session {
	var matched []*Session
	for _, s := range sessions {
		if s.Filename == filename {
			matched = append(matched, s)
		}
	}
	return matched
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
