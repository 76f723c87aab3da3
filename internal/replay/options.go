package replay

import (
	"fmt"

	"github.com/TimelordUK/wcstats/internal/document"
)

// EmptyDeletion selects how a deletion event without content is applied
type EmptyDeletion int

const (
	// EmptyDeletionBackspace treats a content-less deletion as one backspace
	EmptyDeletionBackspace EmptyDeletion = iota
	// EmptyDeletionIgnore skips content-less deletions
	EmptyDeletionIgnore
)

// ParseEmptyDeletion parses "backspace" or "ignore"
func ParseEmptyDeletion(s string) (EmptyDeletion, error) {
	switch s {
	case "", "backspace":
		return EmptyDeletionBackspace, nil
	case "ignore":
		return EmptyDeletionIgnore, nil
	default:
		return 0, fmt.Errorf("unknown empty deletion mode %q", s)
	}
}

func (m EmptyDeletion) String() string {
	if m == EmptyDeletionIgnore {
		return "ignore"
	}
	return "backspace"
}

// Step describes the buffer after an event has been applied
type Step struct {
	Index    int
	Event    Event
	Snapshot *document.Snapshot
}

// Options configure a replay
type Options struct {
	EmptyDeletion EmptyDeletion
	OnStep        func(Step)
}

// Option is a functional option for Replay
type Option func(*Options)

// WithEmptyDeletion sets how content-less deletions are applied
func WithEmptyDeletion(mode EmptyDeletion) Option {
	return func(o *Options) {
		o.EmptyDeletion = mode
	}
}

// WithStepHook registers a function called after every event. Each call gets
// its own snapshot, so the hook never sees the live buffer.
func WithStepHook(fn func(Step)) Option {
	return func(o *Options) {
		o.OnStep = fn
	}
}
