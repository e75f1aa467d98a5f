//go:build !linux

package platform

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by New on systems without DRM.
var ErrUnsupported = errors.New("display enumeration requires linux")

func New(opts Options) (Backend, error) {
	return nil, fmt.Errorf("%w: backend %q", ErrUnsupported, opts.Backend)
}
