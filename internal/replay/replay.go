// Package replay rebuilds document text from a recorded event stream.
//
// Events are applied in timestamp order to a document.Buffer owned by a single
// Replay call. Before each edit the cursor is moved to the event's encoded
// position, if it has one. Snapshots are taken at the start (initial), at a
// pre-save marker (pre_save) and at the end marker or end of stream (final).
//
// Replay is synchronous and shares nothing between calls, so independent
// session logs can be replayed concurrently.
package replay

import (
	"fmt"
	"slices"

	"github.com/TimelordUK/wcstats/internal/document"
	"github.com/TimelordUK/wcstats/internal/position"
)

// Replay applies events to a buffer seeded with seed and returns the captured
// checkpoints. An event without a kind fails the whole replay with
// ErrMalformedEvent and no checkpoints.
func Replay(events []Event, seed string, opts ...Option) (*Checkpoints, error) {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}

	if err := validate(events); err != nil {
		return nil, err
	}

	ordered := slices.Clone(events)
	slices.SortStableFunc(ordered, func(a, b Event) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		}
		return 0
	})

	buf := document.New(seed)
	cps := newCheckpoints()
	cps.snapshots[Initial] = buf.Snapshot()

	for i, ev := range ordered {
		if ev.Pos != 0 {
			p := position.FromEncoded(ev.Pos)
			if buf.SetCursor(p.Line, p.Column) {
				cps.warnings = append(cps.warnings, Warning{
					Index:     i,
					Timestamp: ev.Timestamp,
					Pos:       ev.Pos,
					Err:       fmt.Errorf("%w: %s clamped to %s", ErrPositionOutOfEncodingRange, p, buf.Cursor()),
				})
			}
		}

		switch {
		case ev.Kind == KindKeystroke:
			buf.Insert(ev.Content)
		case ev.Kind == KindDeletion:
			if ev.Content == "" {
				if options.EmptyDeletion == EmptyDeletionBackspace {
					buf.Backspace()
				}
			} else {
				buf.Delete(ev.Content)
			}
		case ev.IsSnapshotMarker():
			cps.snapshots[PreSave] = buf.Snapshot()
		case ev.Kind == KindEnd:
			cps.snapshots[Final] = buf.Snapshot()
		}

		if options.OnStep != nil {
			options.OnStep(Step{Index: i, Event: ev, Snapshot: buf.Snapshot()})
		}
	}

	if !cps.Has(Final) {
		cps.snapshots[Final] = buf.Snapshot()
	}

	return cps, nil
}

func validate(events []Event) error {
	for i, ev := range events {
		if ev.Kind == "" {
			return fmt.Errorf("%w: event %d at %d has no type", ErrMalformedEvent, i, ev.Timestamp)
		}
	}
	return nil
}
