package replay

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/wcstats/internal/position"
)

func text(t *testing.T, cps *Checkpoints, name Name) string {
	t.Helper()
	s, ok := cps.Text(name)
	require.True(t, ok, "checkpoint %s missing", name)
	return s
}

func TestEmptyLogKeepsSeed(t *testing.T) {
	for _, seed := range []string{"", "hello", "a\nb\n", "  \n\n"} {
		cps, err := Replay(nil, seed)
		require.NoError(t, err)
		assert.Equal(t, seed, text(t, cps, Initial))
		assert.Equal(t, seed, text(t, cps, Final))
		assert.False(t, cps.Has(PreSave))
	}
}

func TestTypingIntoEmptyDocument(t *testing.T) {
	events := []Event{
		{Kind: KindKeystroke, Timestamp: 10, Pos: position.Encode(1, 0), Content: "Hi"},
	}
	cps, err := Replay(events, "")
	require.NoError(t, err)

	final, _ := cps.Get(Final)
	assert.Equal(t, "Hi", final.Text())
	assert.Equal(t, position.Position{Line: 1, Column: 2}, final.Cursor())
}

func TestNewlineSplitsSeedLine(t *testing.T) {
	events := []Event{
		{Kind: KindKeystroke, Timestamp: 1, Pos: position.Encode(1, 1), Content: "\n"},
	}
	cps, err := Replay(events, "ab")
	require.NoError(t, err)

	final, _ := cps.Get(Final)
	assert.Equal(t, []string{"a", "b"}, strings.Split(final.Text(), "\n"))
	assert.Equal(t, "a\nb", final.Text())
}

func TestBulkNewLines(t *testing.T) {
	events := []Event{
		{Kind: KindKeystroke, Timestamp: 1, Pos: position.Encode(1, 1), Content: "[3 new lines]"},
	}
	cps, err := Replay(events, "X")
	require.NoError(t, err)

	final, _ := cps.Get(Final)
	assert.Equal(t, []string{"X", "", "", ""}, strings.Split(final.Text(), "\n"))
	assert.Equal(t, position.Position{Line: 2, Column: 0}, final.Cursor())
}

func TestEmptyDeletionJoinsLines(t *testing.T) {
	events := []Event{
		{Kind: KindDeletion, Timestamp: 1, Pos: position.Encode(2, 0), Content: ""},
	}
	cps, err := Replay(events, "ab\ncd")
	require.NoError(t, err)

	final, _ := cps.Get(Final)
	assert.Equal(t, []string{"abcd"}, strings.Split(final.Text(), "\n"))
	assert.Equal(t, position.Position{Line: 1, Column: 2}, final.Cursor())
}

func TestEmptyDeletionIgnored(t *testing.T) {
	events := []Event{
		{Kind: KindDeletion, Timestamp: 1, Pos: position.Encode(2, 0)},
	}
	cps, err := Replay(events, "ab\ncd", WithEmptyDeletion(EmptyDeletionIgnore))
	require.NoError(t, err)
	assert.Equal(t, "ab\ncd", text(t, cps, Final))
}

func TestPreSaveExcludesLaterEdits(t *testing.T) {
	events := []Event{
		{Kind: KindKeystroke, Timestamp: 1, Pos: position.Encode(1, 0), Content: "draft"},
		{Kind: KindSave, Timestamp: 2, Content: SavePre},
		{Kind: KindSave, Timestamp: 3, Content: "post"},
		{Kind: KindKeystroke, Timestamp: 4, Content: " two"},
		{Kind: KindEnd, Timestamp: 5},
	}
	cps, err := Replay(events, "")
	require.NoError(t, err)

	assert.True(t, cps.Has(PreSave))
	assert.Equal(t, "", text(t, cps, Initial))
	assert.Equal(t, "draft", text(t, cps, PreSave))
	assert.Equal(t, "draft two", text(t, cps, Final))
}

func TestMissingKindIsMalformed(t *testing.T) {
	events := []Event{
		{Kind: KindKeystroke, Timestamp: 1, Content: "a"},
		{Timestamp: 2, Content: "b"},
		{Kind: KindEnd, Timestamp: 3},
	}
	cps, err := Replay(events, "seed")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedEvent))
	assert.Nil(t, cps)
}

func TestEventsSortedStablyByTimestamp(t *testing.T) {
	events := []Event{
		{Kind: KindKeystroke, Timestamp: 20, Content: "c"},
		{Kind: KindKeystroke, Timestamp: 10, Pos: position.Encode(1, 0), Content: "a"},
		{Kind: KindKeystroke, Timestamp: 10, Content: "b"},
	}
	cps, err := Replay(events, "")
	require.NoError(t, err)
	assert.Equal(t, "abc", text(t, cps, Final))

	// the caller's slice is left alone
	assert.Equal(t, int64(20), events[0].Timestamp)
}

func TestEndMarkerCapturesFinal(t *testing.T) {
	events := []Event{
		{Kind: KindKeystroke, Timestamp: 1, Content: "kept"},
		{Kind: KindEnd, Timestamp: 2},
		{Kind: KindKeystroke, Timestamp: 3, Content: " dropped"},
	}
	cps, err := Replay(events, "")
	require.NoError(t, err)
	assert.Equal(t, "kept", text(t, cps, Final))
}

func TestLaterEndMarkerReplacesFinal(t *testing.T) {
	events := []Event{
		{Kind: KindKeystroke, Timestamp: 1, Content: "a"},
		{Kind: KindEnd, Timestamp: 2},
		{Kind: KindKeystroke, Timestamp: 3, Content: "b"},
		{Kind: KindEnd, Timestamp: 4},
		{Kind: KindKeystroke, Timestamp: 5, Content: "c"},
	}
	cps, err := Replay(events, "")
	require.NoError(t, err)
	assert.Equal(t, "ab", text(t, cps, Final))
}

func TestOversizedBulkMarkerIsText(t *testing.T) {
	marker := "[9223372036854775807 new lines]"
	var cps *Checkpoints
	var err error
	require.NotPanics(t, func() {
		cps, err = Replay([]Event{{Kind: KindKeystroke, Timestamp: 1, Content: marker}}, "x")
	})
	require.NoError(t, err)
	assert.Equal(t, marker+"x", text(t, cps, Final))
}

func TestUnknownKindsOnlyMoveCursor(t *testing.T) {
	events := []Event{
		{Kind: KindCursor, Timestamp: 1, Pos: position.Encode(2, 1)},
		{Kind: KindMode, Timestamp: 2, Content: "i"},
		{Kind: Kind("future"), Timestamp: 3, Content: "zzz"},
		{Kind: KindKeystroke, Timestamp: 4, Content: "X"},
	}
	cps, err := Replay(events, "ab\ncd")
	require.NoError(t, err)
	assert.Equal(t, "ab\ncXd", text(t, cps, Final))
}

func TestOutOfRangePositionWarns(t *testing.T) {
	events := []Event{
		{Kind: KindKeystroke, Timestamp: 1, Pos: position.Encode(7, 3), Content: "!"},
	}
	cps, err := Replay(events, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc!", text(t, cps, Final))

	require.Len(t, cps.Warnings(), 1)
	w := cps.Warnings()[0]
	assert.True(t, errors.Is(w, ErrPositionOutOfEncodingRange))
	assert.Equal(t, 0, w.Index)
	assert.Equal(t, 7003, w.Pos)
}

func TestCheckpointsAreIndependent(t *testing.T) {
	events := []Event{
		{Kind: KindKeystroke, Timestamp: 1, Content: "one"},
		{Kind: KindSave, Timestamp: 2, Content: SavePre},
		{Kind: KindKeystroke, Timestamp: 3, Content: "\n"},
		{Kind: KindDeletion, Timestamp: 4, Pos: position.Encode(1, 0), Content: "[5 deleted lines]"},
	}
	cps, err := Replay(events, "")
	require.NoError(t, err)

	pre, _ := cps.Get(PreSave)
	assert.Equal(t, []string{"one"}, strings.Split(pre.Text(), "\n"))
	assert.Equal(t, "", text(t, cps, Final))

	texts := cps.Texts()
	assert.Equal(t, map[string]string{"initial": "", "pre_save": "one", "final": ""}, texts)
}

func TestCursorInvariantAtEveryStep(t *testing.T) {
	events := []Event{
		{Kind: KindKeystroke, Timestamp: 1, Pos: position.Encode(1, 0), Content: "Dear reader"},
		{Kind: KindKeystroke, Timestamp: 2, Content: "\n"},
		{Kind: KindKeystroke, Timestamp: 3, Content: "[4 new lines]"},
		{Kind: KindDeletion, Timestamp: 4, Pos: position.Encode(3, 0), Content: "[9 deleted lines]"},
		{Kind: KindDeletion, Timestamp: 5, Content: "r"},
		{Kind: KindDeletion, Timestamp: 6, Pos: position.Encode(1, 999), Content: "r"},
		{Kind: KindKeystroke, Timestamp: 7, Pos: position.Encode(40, 2), Content: "!"},
		{Kind: KindDeletion, Timestamp: 8, Pos: position.Encode(1, 0), Content: "x"},
		{Kind: KindDeletion, Timestamp: 9, Pos: position.Encode(1, 0), Content: "[1 deleted line]"},
	}

	steps := 0
	hook := func(s Step) {
		steps++
		c := s.Snapshot.Cursor()
		lines := strings.Split(s.Snapshot.Text(), "\n")
		require.Equal(t, len(lines), s.Snapshot.LineCount())
		require.GreaterOrEqual(t, c.Line, 1)
		require.LessOrEqual(t, c.Line, len(lines))
		require.GreaterOrEqual(t, c.Column, 0)
		require.LessOrEqual(t, c.Column, len([]rune(lines[c.Line-1])))
	}

	_, err := Replay(events, "", WithStepHook(hook))
	require.NoError(t, err)
	assert.Equal(t, len(events), steps)
}

func TestParseEmptyDeletion(t *testing.T) {
	m, err := ParseEmptyDeletion("ignore")
	require.NoError(t, err)
	assert.Equal(t, EmptyDeletionIgnore, m)

	m, err = ParseEmptyDeletion("")
	require.NoError(t, err)
	assert.Equal(t, EmptyDeletionBackspace, m)

	_, err = ParseEmptyDeletion("explode")
	assert.Error(t, err)
}
