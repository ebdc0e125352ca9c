package gomap

import (
	"github.com/goccy/go-yaml"

	"github.com/subsume-dev/subsume/ir"
)

// FromYAML parses a YAML document into a node tree.
func FromYAML(d []byte) (*ir.Node, error) {
	var v any
	if err := yaml.Unmarshal(d, &v); err != nil {
		return nil, err
	}
	return FromGo(v)
}
