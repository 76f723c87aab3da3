package position

import "fmt"

// ColumnLimit is the first column that no longer round-trips through Encode.
// Larger columns alias into the next line's encoding space.
const ColumnLimit = 1000

// Position is a cursor location: 1-based line, 0-based column
type Position struct {
	Line   int
	Column int
}

// Encode packs a line and column into a single integer
func Encode(line, column int) int {
	return line*ColumnLimit + column
}

// Decode unpacks an encoded position
func Decode(value int) (line, column int) {
	return value / ColumnLimit, value % ColumnLimit
}

// FromEncoded decodes value into a Position
func FromEncoded(value int) Position {
	line, column := Decode(value)
	return Position{Line: line, Column: column}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
