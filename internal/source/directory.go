package source

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"

	wcio "github.com/TimelordUK/wcstats/internal/io"
)

// Directory finds session logs in a log directory
type Directory struct {
	path string
}

// NewDirectory creates a directory source
func NewDirectory(path string) *Directory {
	return &Directory{path: path}
}

// Path returns the directory path
func (d *Directory) Path() string {
	return d.path
}

// Find returns the *.json logs in the directory, oldest modification first.
// When filename is set only logs recorded for that base filename are returned;
// logs that cannot be read are skipped.
func (d *Directory) Find(filename string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(d.path, "*.json"))
	if err != nil {
		return nil, err
	}

	type entry struct {
		path  string
		mtime int64
	}
	var entries []entry

	for _, path := range matches {
		if filename != "" {
			name, err := peekFilename(path)
			if err != nil || filepath.Base(name) != filename {
				continue
			}
		}

		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		entries = append(entries, entry{path: path, mtime: info.ModTime().UnixNano()})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].mtime < entries[j].mtime
	})

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.path
	}
	return paths, nil
}

// peekFilename decodes only the tracked filename of a log
func peekFilename(path string) (string, error) {
	data, err := wcio.ReadFile(path)
	if err != nil {
		return "", err
	}
	var header struct {
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return "", err
	}
	return header.Filename, nil
}
