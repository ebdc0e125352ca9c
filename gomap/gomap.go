// Package gomap converts between native Go values and the matcher's node
// representation.
package gomap

import "errors"

// ErrDecode reports a Go value with no node representation.
var ErrDecode = errors.New("cannot map value")
