package document

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/TimelordUK/wcstats/internal/position"
)

// Bulk markers compress runs of line insertions or deletions into one event
var (
	bulkInsertPattern = regexp.MustCompile(`^\[(\d+) new lines?\]$`)
	bulkDeletePattern = regexp.MustCompile(`^\[(\d+) deleted lines?\]$`)
)

// MaxBulkLines is the largest count a bulk marker may carry. Larger counts
// are treated as literal text.
const MaxBulkLines = 1 << 20

// Buffer holds document lines and a cursor that always points inside them.
// Lines never contain the line terminator and the slice is never empty.
type Buffer struct {
	lines  []string
	cursor position.Position
}

// New creates a buffer from seed text, or a single empty line when seed is empty
func New(seed string) *Buffer {
	lines := []string{""}
	if seed != "" {
		lines = strings.Split(seed, "\n")
	}
	return &Buffer{
		lines:  lines,
		cursor: position.Position{Line: 1, Column: 0},
	}
}

// Cursor returns the current cursor position
func (b *Buffer) Cursor() position.Position {
	return b.cursor
}

// Content joins all lines with a line terminator
func (b *Buffer) Content() string {
	return strings.Join(b.lines, "\n")
}

// SetCursor moves the cursor, clamping line and then column into the buffer.
// It reports whether the requested position had to be clamped.
func (b *Buffer) SetCursor(line, column int) bool {
	clamped := false
	if line < 1 {
		line, clamped = 1, true
	}
	if line > len(b.lines) {
		line, clamped = len(b.lines), true
	}

	length := utf8.RuneCountInString(b.lines[line-1])
	if column < 0 {
		column, clamped = 0, true
	}
	if column > length {
		column, clamped = length, true
	}

	b.cursor = position.Position{Line: line, Column: column}
	return clamped
}

// Insert applies a keystroke at the cursor: a bulk line marker, a line break,
// or literal text
func (b *Buffer) Insert(content string) {
	if content == "" {
		return
	}

	if n, ok := bulkCount(bulkInsertPattern, content); ok {
		b.insertLines(n)
		return
	}

	if content == "\n" || content == "\r\n" {
		b.splitLine()
		return
	}

	idx := b.cursor.Line - 1
	runes := []rune(b.lines[idx])
	col := b.cursor.Column
	inserted := []rune(content)

	line := make([]rune, 0, len(runes)+len(inserted))
	line = append(line, runes[:col]...)
	line = append(line, inserted...)
	line = append(line, runes[col:]...)

	b.lines[idx] = string(line)
	b.cursor.Column += len(inserted)
}

// Delete applies a deletion at the cursor: a bulk line marker, or a single
// backspace
func (b *Buffer) Delete(content string) {
	if content == "" {
		return
	}

	if n, ok := bulkCount(bulkDeletePattern, content); ok {
		b.deleteLines(n)
		return
	}

	b.Backspace()
}

// Backspace removes the rune before the cursor, joining onto the previous line
// at column zero. It does nothing at the start of the document.
func (b *Buffer) Backspace() {
	idx := b.cursor.Line - 1

	if b.cursor.Column > 0 {
		runes := []rune(b.lines[idx])
		col := b.cursor.Column
		b.lines[idx] = string(runes[:col-1]) + string(runes[col:])
		b.cursor.Column--
		return
	}

	if b.cursor.Line > 1 {
		prev := b.lines[idx-1]
		b.lines[idx-1] = prev + b.lines[idx]
		b.lines = append(b.lines[:idx], b.lines[idx+1:]...)
		b.cursor.Line--
		b.cursor.Column = utf8.RuneCountInString(prev)
	}
}

// Snapshot returns a deep copy of the current state
func (b *Buffer) Snapshot() *Snapshot {
	lines := make([]string, len(b.lines))
	copy(lines, b.lines)
	return &Snapshot{
		lines:  lines,
		cursor: b.cursor,
	}
}

func (b *Buffer) insertLines(n int) {
	idx := b.cursor.Line
	blank := make([]string, n)

	lines := make([]string, 0, len(b.lines)+n)
	lines = append(lines, b.lines[:idx]...)
	lines = append(lines, blank...)
	lines = append(lines, b.lines[idx:]...)
	b.lines = lines

	// a zero count on the last line has nowhere to move to
	line := b.cursor.Line + 1
	if line > len(b.lines) {
		line = len(b.lines)
	}
	b.cursor = position.Position{Line: line, Column: 0}
}

func (b *Buffer) splitLine() {
	idx := b.cursor.Line - 1
	runes := []rune(b.lines[idx])
	before := string(runes[:b.cursor.Column])
	after := string(runes[b.cursor.Column:])

	b.lines[idx] = before
	b.lines = append(b.lines[:idx+1], append([]string{after}, b.lines[idx+1:]...)...)
	b.cursor = position.Position{Line: b.cursor.Line + 1, Column: 0}
}

func (b *Buffer) deleteLines(n int) {
	idx := b.cursor.Line - 1
	if remaining := len(b.lines) - idx; n > remaining {
		n = remaining
	}
	b.lines = append(b.lines[:idx], b.lines[idx+n:]...)

	if len(b.lines) == 0 {
		b.lines = []string{""}
	}

	if b.cursor.Line > len(b.lines) {
		last := len(b.lines)
		b.cursor = position.Position{
			Line:   last,
			Column: utf8.RuneCountInString(b.lines[last-1]),
		}
		return
	}

	if length := utf8.RuneCountInString(b.lines[idx]); b.cursor.Column > length {
		b.cursor.Column = length
	}
}

// bulkCount extracts N from a bulk marker. A count that does not parse as a
// non-negative int, or exceeds MaxBulkLines, is not a marker.
func bulkCount(pattern *regexp.Regexp, content string) (int, bool) {
	if !strings.HasPrefix(content, "[") || !strings.HasSuffix(content, "]") {
		return 0, false
	}
	m := pattern.FindStringSubmatch(content)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 || n > MaxBulkLines {
		return 0, false
	}
	return n, true
}
