package analysis

import (
	"math"
	"time"

	"github.com/TimelordUK/wcstats/internal/metrics"
	"github.com/TimelordUK/wcstats/internal/replay"
)

// Session is the analysis of one session log
type Session struct {
	Filename         string            `json:"filename" yaml:"filename"`
	FullPath         string            `json:"full_path" yaml:"full_path"`
	Date             time.Time         `json:"session_date" yaml:"session_date"`
	DurationMs       int64             `json:"session_duration_ms" yaml:"session_duration_ms"`
	ModeDurations    map[string]int64  `json:"mode_durations" yaml:"mode_durations"`
	Initial          metrics.Counts    `json:"initial_metrics" yaml:"initial_metrics"`
	Final            metrics.Counts    `json:"final_metrics" yaml:"final_metrics"`
	Changes          metrics.Counts    `json:"changes" yaml:"changes"`
	ChangePercentage float64           `json:"change_percentage" yaml:"change_percentage"`
	EventCounts      map[string]int    `json:"event_counts" yaml:"event_counts"`
	TypingSpeed      float64           `json:"typing_speed" yaml:"typing_speed"`
	LogPath          string            `json:"log_path" yaml:"log_path"`
	Checkpoints      map[string]string `json:"checkpoints,omitempty" yaml:"checkpoints,omitempty"`
	Warnings         int               `json:"warnings" yaml:"warnings"`
}

// Similarity returns how much of the text survived the session, in percent
func (s *Session) Similarity() float64 {
	return 100 - s.ChangePercentage
}

// InsertMs returns the time spent in insert mode
func (s *Session) InsertMs() int64 {
	return s.ModeDurations["i"]
}

// NormalMs returns the time spent in normal mode
func (s *Session) NormalMs() int64 {
	return s.ModeDurations["n"]
}

// Keystrokes returns the number of keystroke events
func (s *Session) Keystrokes() int {
	return s.EventCounts[string(replay.KindKeystroke)]
}

// Text returns the reconstructed text of a checkpoint
func (s *Session) Text(name replay.Name) (string, bool) {
	text, ok := s.Checkpoints[string(name)]
	return text, ok
}

// typingSpeed returns keystrokes per minute of insert mode
func typingSpeed(keystrokes int, insertMs int64) float64 {
	if insertMs <= 0 || keystrokes <= 0 {
		return 0
	}
	return float64(keystrokes) / (float64(insertMs) / 60000)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
