package driver

import (
	"fmt"
	"io"

	"github.com/nihei9/regll/source"
)

// LeafStream yields the leaves of an input one by one and io.EOF after the last one. A stream is
// consumed once.
type LeafStream interface {
	Next() (*Leaf, error)
}

// InvalidTokenError is a piece of text that matches no terminal.
type InvalidTokenError struct {
	Loc  source.Range
	Text string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid token; location: %v, text: %q", e.Loc, e.Text)
}

type sliceStream struct {
	leaves []*Leaf
	pos    int
}

// NewSliceStream returns a stream yielding leaves in order.
func NewSliceStream(leaves ...*Leaf) LeafStream {
	return &sliceStream{
		leaves: leaves,
	}
}

func (s *sliceStream) Next() (*Leaf, error) {
	if s.pos >= len(s.leaves) {
		return nil, io.EOF
	}
	leaf := s.leaves[s.pos]
	s.pos++
	return leaf, nil
}
