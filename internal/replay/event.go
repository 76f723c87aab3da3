package replay

// Kind identifies an event. Values are the recorder's wire names.
type Kind string

const (
	KindKeystroke Kind = "k"
	KindDeletion  Kind = "d"
	KindSave      Kind = "s"
	KindEnd       Kind = "end"
	KindCursor    Kind = "c"
	KindMode      Kind = "m"
	KindCommand   Kind = "cmd"
)

// SavePre is the content of a save event that marks the pre-save snapshot
const SavePre = "pre"

// Event is one recorded edit action
type Event struct {
	Kind      Kind
	Timestamp int64
	Pos       int // encoded position, 0 when absent
	Content   string
}

// IsSnapshotMarker reports whether e requests the pre_save checkpoint
func (e Event) IsSnapshotMarker() bool {
	return e.Kind == KindSave && e.Content == SavePre
}
