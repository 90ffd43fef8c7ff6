// Package source describes positions in a source text.
package source

import "fmt"

// Location is a 1-based row and column.
type Location struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (l Location) String() string {
	return fmt.Sprintf("%v:%v", l.Row, l.Col)
}

// Before reports whether l precedes m.
func (l Location) Before(m Location) bool {
	if l.Row != m.Row {
		return l.Row < m.Row
	}
	return l.Col < m.Col
}

// Range spans from Start to End. End is the location of the last character, not the one after it.
type Range struct {
	Start Location `json:"start"`
	End   Location `json:"end"`
}

func (r Range) String() string {
	return fmt.Sprintf("%v-%v", r.Start, r.End)
}

// Span returns the range covering both r and s.
func Span(r, s Range) Range {
	start := r.Start
	if s.Start.Before(start) {
		start = s.Start
	}
	end := r.End
	if end.Before(s.End) {
		end = s.End
	}
	return Range{
		Start: start,
		End:   end,
	}
}

// At returns an empty range positioned at l.
func At(l Location) Range {
	return Range{
		Start: l,
		End:   l,
	}
}
