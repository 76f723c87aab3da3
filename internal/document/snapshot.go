package document

import (
	"strings"

	"github.com/TimelordUK/wcstats/internal/position"
)

// Snapshot is a read-only copy of a buffer at a point in time. It does not
// change when the buffer it came from is modified.
type Snapshot struct {
	lines  []string
	cursor position.Position
}

// Text returns the snapshot content with lines joined by a line terminator
func (s *Snapshot) Text() string {
	return strings.Join(s.lines, "\n")
}

// LineCount returns the number of lines
func (s *Snapshot) LineCount() int {
	return len(s.lines)
}

// Cursor returns the cursor position at the time of the snapshot
func (s *Snapshot) Cursor() position.Position {
	return s.cursor
}
