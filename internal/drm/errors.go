package drm

import (
	"errors"
	"fmt"
)

// ErrNotDevice is wrapped in the *fs.PathError returned by Open when the path
// exists but is not a character device.
var ErrNotDevice = errors.New("not a character device")

// QueryError reports a failed ioctl against an open card.
type QueryError struct {
	Op   string
	Path string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("drm %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
