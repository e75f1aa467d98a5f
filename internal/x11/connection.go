package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Connection manages the X11 connection used to read RandR output state.
// It is not safe for concurrent use.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	// resources is the screen snapshot taken by the last ConnectorIDs call.
	resources *randr.GetScreenResourcesReply
}

// NewConnection connects to the X server named by display (or $DISPLAY when
// empty) and initialises the RandR extension.
func NewConnection(display string) (*Connection, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, err
	}

	if err := randr.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// Close cleanly disconnects from the X11 server. Calling Close again is a no-op.
func (c *Connection) Close() error {
	if c == nil || c.XUtil == nil {
		return nil
	}
	c.XUtil.Conn().Close()
	c.XUtil = nil
	return nil
}
