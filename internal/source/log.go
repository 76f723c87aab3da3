package source

import (
	"errors"
	"time"

	"github.com/TimelordUK/wcstats/internal/replay"
	"github.com/TimelordUK/wcstats/pkg/timefmt"
)

var (
	// ErrInvalidLog indicates a session log could not be decoded
	ErrInvalidLog = errors.New("invalid session log")

	// ErrNoEvents indicates a session log recorded nothing
	ErrNoEvents = errors.New("session log has no events")
)

// Log is one recorded writing session as the recorder writes it
type Log struct {
	Filename      string             `json:"filename"`
	StartTime     int64              `json:"start_time"` // unix ms
	Events        []LogEvent         `json:"events"`
	ModeDurations map[string]float64 `json:"mode_durations"`
}

// LogEvent is a single recorded event
type LogEvent struct {
	DT      int64  `json:"dt"` // ms since session start
	Type    string `json:"type"`
	Pos     int    `json:"pos,omitempty"`
	Content string `json:"content,omitempty"`
}

// Start returns the session start time
func (l *Log) Start() time.Time {
	return timefmt.FromMillis(l.StartTime)
}

// Duration returns the dt of the last event in ms
func (l *Log) Duration() int64 {
	var last int64
	for _, ev := range l.Events {
		if ev.DT > last {
			last = ev.DT
		}
	}
	return last
}

// ModeMillis returns the time spent in a mode, in ms
func (l *Log) ModeMillis(mode string) int64 {
	return int64(l.ModeDurations[mode])
}

// EventCounts tallies events by their type
func (l *Log) EventCounts() map[string]int {
	counts := make(map[string]int)
	for _, ev := range l.Events {
		counts[ev.Type]++
	}
	return counts
}

// ReplayEvents converts the log's events for the replay engine
func (l *Log) ReplayEvents() []replay.Event {
	events := make([]replay.Event, len(l.Events))
	for i, ev := range l.Events {
		events[i] = replay.Event{
			Kind:      replay.Kind(ev.Type),
			Timestamp: ev.DT,
			Pos:       ev.Pos,
			Content:   ev.Content,
		}
	}
	return events
}
