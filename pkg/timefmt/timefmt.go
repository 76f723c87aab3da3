package timefmt

import (
	"fmt"
	"math"
	"time"
)

// Layouts used in reports
const (
	SessionLayout = "2006-01-02 15:04"
	DayLayout     = "2006-01-02"
)

// FormatDuration renders milliseconds as "1h 2m 3s", "2m 3s" or "3.4s"
func FormatDuration(ms int64) string {
	seconds := float64(ms) / 1000
	hours := math.Floor(seconds / 3600)
	remainder := seconds - hours*3600
	minutes := math.Floor(remainder / 60)
	seconds = remainder - minutes*60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", int(hours), int(minutes), int(seconds))
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", int(minutes), int(seconds))
	}
	return fmt.Sprintf("%.1fs", seconds)
}

// FromMillis converts a unix millisecond timestamp to local time
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).Local()
}

// FormatSession formats a session start for display
func FormatSession(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(SessionLayout)
}

// FormatDay formats a timestamp as a date only
func FormatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DayLayout)
}
