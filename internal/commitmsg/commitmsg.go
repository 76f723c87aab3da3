// Package commitmsg suggests a commit message from analyzed sessions.
package commitmsg

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/TimelordUK/wcstats/internal/analysis"
	"github.com/TimelordUK/wcstats/pkg/timefmt"
)

// longSessionMs is the total duration past which the message mentions time
const longSessionMs = 5 * 60 * 1000

// revisedPercent is the average change above which an edit counts as a revision
const revisedPercent = 30

// FileSessions holds the sessions recorded for one file
type FileSessions struct {
	Path     string
	Sessions []*analysis.Session
}

// Group collects sessions by full path, in order of first appearance
func Group(sessions []*analysis.Session) []FileSessions {
	index := make(map[string]int)
	var files []FileSessions
	for _, s := range sessions {
		i, ok := index[s.FullPath]
		if !ok {
			i = len(files)
			index[s.FullPath] = i
			files = append(files, FileSessions{Path: s.FullPath})
		}
		files[i].Sessions = append(files[i].Sessions, s)
	}
	return files
}

// Generate builds a one-line commit message
func Generate(files []FileSessions) string {
	switch len(files) {
	case 0:
		return "Update"
	case 1:
		return single(files[0])
	}

	var totalWords int
	var totalMs int64
	for _, f := range files {
		totalWords += words(f.Sessions)
		totalMs += duration(f.Sessions)
	}

	var msg string
	if len(files) <= 3 {
		var parts []string
		for _, f := range files {
			if w := words(f.Sessions); w != 0 {
				parts = append(parts, fmt.Sprintf("%s (%+dw)", filepath.Base(f.Path), w))
			}
		}
		if len(parts) > 0 {
			msg = "Edit " + strings.Join(parts, ", ")
		} else {
			msg = fmt.Sprintf("Edit %d files", len(files))
		}
	} else {
		msg = fmt.Sprintf("Edit %d files", len(files))
		if totalWords != 0 {
			msg += fmt.Sprintf(": %+d words", totalWords)
		}
	}

	return withDuration(msg, totalMs)
}

func single(f FileSessions) string {
	base := filepath.Base(f.Path)
	totalWords := words(f.Sessions)
	totalMs := duration(f.Sessions)

	isNew := true
	for _, s := range f.Sessions {
		if s.Initial.Words != 0 {
			isNew = false
			break
		}
	}
	if isNew && len(f.Sessions) > 0 {
		last := f.Sessions[len(f.Sessions)-1]
		return fmt.Sprintf("New file %s: %d words, %s", base, last.Final.Words, timefmt.FormatDuration(totalMs))
	}

	var msg string
	switch {
	case totalWords != 0:
		msg = fmt.Sprintf("Edit %s: %+d words", base, totalWords)
	case averageChange(f.Sessions) > revisedPercent:
		msg = fmt.Sprintf("Revise %s: %d%% changed", base, int(averageChange(f.Sessions)))
	default:
		msg = "Edit " + base
	}
	return withDuration(msg, totalMs)
}

func withDuration(msg string, totalMs int64) string {
	if totalMs > longSessionMs {
		msg += ", " + timefmt.FormatDuration(totalMs)
	}
	return msg
}

func words(sessions []*analysis.Session) int {
	total := 0
	for _, s := range sessions {
		total += s.Changes.Words
	}
	return total
}

func duration(sessions []*analysis.Session) int64 {
	var total int64
	for _, s := range sessions {
		total += s.DurationMs
	}
	return total
}

func averageChange(sessions []*analysis.Session) float64 {
	if len(sessions) == 0 {
		return 0
	}
	var total float64
	for _, s := range sessions {
		total += s.ChangePercentage
	}
	return total / float64(len(sessions))
}
