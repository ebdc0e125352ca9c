package gomap

import (
	"github.com/ohler55/ojg/oj"

	"github.com/subsume-dev/subsume/ir"
)

// FromJSON parses a JSON document into a node tree.
func FromJSON(d []byte) (*ir.Node, error) {
	v, err := oj.Parse(d)
	if err != nil {
		return nil, err
	}
	return FromGo(v)
}
