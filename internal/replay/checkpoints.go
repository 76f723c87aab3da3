package replay

import (
	"github.com/TimelordUK/wcstats/internal/document"
)

// Name identifies a checkpoint
type Name string

const (
	Initial Name = "initial"
	PreSave Name = "pre_save"
	Final   Name = "final"
)

// Warning records a recoverable problem with one event
type Warning struct {
	Index     int
	Timestamp int64
	Pos       int
	Err       error
}

func (w Warning) Error() string {
	return w.Err.Error()
}

func (w Warning) Unwrap() error {
	return w.Err
}

// Checkpoints holds the snapshots captured during a replay
type Checkpoints struct {
	snapshots map[Name]*document.Snapshot
	warnings  []Warning
}

func newCheckpoints() *Checkpoints {
	return &Checkpoints{snapshots: make(map[Name]*document.Snapshot, 3)}
}

// Get returns the snapshot for name
func (c *Checkpoints) Get(name Name) (*document.Snapshot, bool) {
	s, ok := c.snapshots[name]
	return s, ok
}

// Text returns the reconstructed text for name
func (c *Checkpoints) Text(name Name) (string, bool) {
	s, ok := c.snapshots[name]
	if !ok {
		return "", false
	}
	return s.Text(), true
}

// Has reports whether the checkpoint was captured
func (c *Checkpoints) Has(name Name) bool {
	_, ok := c.snapshots[name]
	return ok
}

// Texts returns every checkpoint's text keyed by name
func (c *Checkpoints) Texts() map[string]string {
	texts := make(map[string]string, len(c.snapshots))
	for name, s := range c.snapshots {
		texts[string(name)] = s.Text()
	}
	return texts
}

// Warnings returns the recoverable problems met during replay
func (c *Checkpoints) Warnings() []Warning {
	return c.warnings
}
