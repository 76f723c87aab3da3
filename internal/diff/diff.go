// Package diff compares reconstructed checkpoint texts.
package diff

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/TimelordUK/wcstats/internal/replay"
)

// ErrMissingCheckpoint is returned when a requested checkpoint was not captured
var ErrMissingCheckpoint = errors.New("checkpoint not captured")

// contextLines is the number of unchanged lines shown around each hunk
const contextLines = 3

// Texts returns a unified diff from one text to another. Identical texts
// produce an empty string.
func Texts(fromName, toName, from, to string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(from),
		B:        splitLines(to),
		FromFile: fromName,
		ToFile:   toName,
		Context:  contextLines,
	})
}

// Checkpoints returns a unified diff between two checkpoints of a replay
func Checkpoints(texts map[string]string, from, to replay.Name) (string, error) {
	a, ok := texts[string(from)]
	if !ok {
		return "", fmt.Errorf("%s: %w", from, ErrMissingCheckpoint)
	}
	b, ok := texts[string(to)]
	if !ok {
		return "", fmt.Errorf("%s: %w", to, ErrMissingCheckpoint)
	}
	return Texts(string(from), string(to), a, b)
}

// Stat counts added and removed lines in a unified diff
func Stat(unified string) (added, removed int) {
	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}
	return added, removed
}

// splitLines splits text into newline-terminated lines so the last line
// compares equal whether or not the text ends with a newline
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := difflib.SplitLines(text)
	if strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}
