package ir

import "errors"

// ErrInternal reports a malformed node handed to the matcher, such as an
// object whose fields and values disagree in length. It is returned in every
// operation mode.
var ErrInternal = errors.New("internal error")
