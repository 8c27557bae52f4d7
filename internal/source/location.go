// Package source defines immutable source locations attached to every AST
// node and every diagnostic.
package source

import "fmt"

// Location identifies a range of characters in a template file. The zero
// value is the unknown location. Locations are never mutated after creation.
type Location struct {
	FilePath    string
	BeginLine   int // 1-based, 0 when unknown
	BeginColumn int // 1-based, 0 when unknown
	EndLine     int
	EndColumn   int
}

// Unknown is the location attached to nodes whose origin cannot be traced to
// a template file, such as synthesized sentinel nodes.
var Unknown = Location{}

// New returns a point location at the given line and column.
func New(filePath string, line, column int) Location {
	return Location{
		FilePath:    filePath,
		BeginLine:   line,
		BeginColumn: column,
		EndLine:     line,
		EndColumn:   column,
	}
}

// NewRange returns a location spanning from (beginLine, beginColumn) to
// (endLine, endColumn) inclusive.
func NewRange(filePath string, beginLine, beginColumn, endLine, endColumn int) Location {
	return Location{
		FilePath:    filePath,
		BeginLine:   beginLine,
		BeginColumn: beginColumn,
		EndLine:     endLine,
		EndColumn:   endColumn,
	}
}

// IsKnown reports whether the location carries usable position information.
func (l Location) IsKnown() bool {
	return l.BeginLine > 0 && l.BeginColumn > 0
}

// String renders the location as "file:line:col", or "unknown" for the zero
// value.
func (l Location) String() string {
	if !l.IsKnown() {
		if l.FilePath != "" {
			return l.FilePath
		}
		return "unknown"
	}
	if l.FilePath == "" {
		return fmt.Sprintf("%d:%d", l.BeginLine, l.BeginColumn)
	}
	return fmt.Sprintf("%s:%d:%d", l.FilePath, l.BeginLine, l.BeginColumn)
}

// Extend returns a location covering both l and other. Unknown inputs are
// ignored; extending two unknown locations yields Unknown.
func (l Location) Extend(other Location) Location {
	if !l.IsKnown() {
		return other
	}
	if !other.IsKnown() {
		return l
	}
	merged := l
	if other.EndLine > merged.EndLine ||
		(other.EndLine == merged.EndLine && other.EndColumn > merged.EndColumn) {
		merged.EndLine = other.EndLine
		merged.EndColumn = other.EndColumn
	}
	return merged
}
