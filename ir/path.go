package ir

import (
	"strconv"
	"strings"
)

// Path renders the node's location in its tree, rooted at "$".
func (y *Node) Path() string {
	if y.Parent == nil {
		return "$"
	}
	switch y.Parent.Type {
	case ObjectType:
		return AppendField(y.Parent.Path(), y.ParentField)
	case ArrayType:
		return AppendIndex(y.Parent.Path(), y.ParentIndex)
	default:
		panic("parent but not in container")
	}
}

// AppendField extends a $-rooted path with an object field, quoting the
// field when it contains path metacharacters.
func AppendField(path, f string) string {
	if f != "" && strings.IndexAny(f, "'.*$[]") == -1 {
		return path + "." + f
	}
	return path + ".'" + strings.Replace(f, "'", "\\'", -1) + "'"
}

// AppendIndex extends a $-rooted path with an array index.
func AppendIndex(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
