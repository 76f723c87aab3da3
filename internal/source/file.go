package source

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"

	wcio "github.com/TimelordUK/wcstats/internal/io"
)

// Stamp identifies a version of a log file on disk
type Stamp struct {
	Size    int64
	ModTime time.Time
}

// StatLog returns the current stamp of a log file
func StatLog(path string) (Stamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Stamp{}, err
	}
	return Stamp{Size: info.Size(), ModTime: info.ModTime()}, nil
}

// LoadLog reads and decodes a session log
func LoadLog(path string) (*Log, error) {
	data, err := wcio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeLog(data)
}

// DecodeLog decodes a session log from JSON
func DecodeLog(data []byte) (*Log, error) {
	var l Log
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLog, err)
	}
	return &l, nil
}
