package monitor

// DeviceID identifies the display-control device. Only one device is
// supported, so every DeviceID equals every other.
type DeviceID struct{}

// DummyDeviceID returns the placeholder device identity. Callers must not
// rely on it to tell two devices apart.
func DummyDeviceID() DeviceID {
	return DeviceID{}
}

// WindowID identifies a window. Multi-window identity is not implemented, so
// every WindowID equals every other.
type WindowID struct{}

// DummyWindowID returns the placeholder window identity. Callers must not
// rely on it to tell two windows apart.
func DummyWindowID() WindowID {
	return WindowID{}
}
