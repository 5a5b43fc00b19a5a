package types

import (
	"sort"

	"github.com/protozod/protozod/ast"
)

// LineIndex maps byte offsets to 1-based line and column numbers.
type LineIndex struct {
	// starts holds the byte offset of the first byte of each line.
	starts []int
}

// NewLineIndex builds a line index for the given source.
func NewLineIndex(source []byte) *LineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

// Position returns the 1-based line and column for a byte offset. Columns
// count bytes, not runes, matching how most editors report proto sources.
func (x *LineIndex) Position(off ast.ByteOffset) (line, col int) {
	o := int(off)
	i := sort.Search(len(x.starts), func(i int) bool {
		return x.starts[i] > o
	})
	line = i
	col = o - x.starts[i-1] + 1
	return line, col
}
