package subsume

import (
	"errors"
	"fmt"
)

// ErrConfig reports a misconfigured call or default registration: an
// unrecognized mode, a nil assertion primitive, or input that has no node
// representation. Configuration errors are returned in every mode.
var ErrConfig = errors.New("config error")

// MismatchError is the failure result of a match. It only escapes a public
// entry point in assert mode; check mode converts it to a false return.
type MismatchError struct {
	// Path locates the mismatch in the actual value, rooted at "$".
	Path string
	// Reason describes the mismatch.
	Reason string
	// Err holds an underlying leaf-primitive error, if any.
	Err error
}

func (e *MismatchError) Error() string {
	// leaf-primitive errors already carry the path-qualified message
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *MismatchError) Unwrap() error {
	return e.Err
}

// IsMismatch reports whether err is a structural or leaf mismatch, as
// opposed to a configuration or internal error.
func IsMismatch(err error) bool {
	var me *MismatchError
	return errors.As(err, &me)
}
