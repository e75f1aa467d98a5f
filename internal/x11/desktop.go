package x11

import (
	"fmt"

	"github.com/BurntSushi/xgbutil/ewmh"
)

// WindowManager returns the name advertised by an EWMH compliant window
// manager.
func (c *Connection) WindowManager() (string, error) {
	if c == nil || c.XUtil == nil {
		return "", fmt.Errorf("x11 connection is closed")
	}
	return ewmh.GetEwmhWM(c.XUtil)
}

// DesktopCount returns _NET_NUMBER_OF_DESKTOPS.
func (c *Connection) DesktopCount() (int, error) {
	if c == nil || c.XUtil == nil {
		return 0, fmt.Errorf("x11 connection is closed")
	}
	n, err := ewmh.NumberOfDesktopsGet(c.XUtil)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
