//go:build linux

package drm

import (
	"bytes"
	"io/fs"
	"os"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// maxSnapshotAttempts bounds the count/fill loop used when object lists grow
// between the two halves of a query.
const maxSnapshotAttempts = 8

// Card owns an open DRM device node. The descriptor is released exactly once
// by Close. A Card is not safe for concurrent use.
type Card struct {
	path string
	file *os.File
}

// Open opens path read-write. It fails if the path is missing, access is
// denied, or the node is not a character device.
func Open(path string) (*Card, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Mode()&fs.ModeCharDevice == 0 {
		f.Close()
		return nil, &fs.PathError{Op: "open", Path: path, Err: ErrNotDevice}
	}

	return &Card{path: path, file: f}, nil
}

// OpenDefault opens DefaultCardPath.
func OpenDefault() (*Card, error) {
	return Open(DefaultCardPath)
}

// Path returns the device node path the card was opened from.
func (c *Card) Path() string {
	return c.path
}

// Fd returns the raw descriptor, or ^uintptr(0) after Close.
func (c *Card) Fd() uintptr {
	if c == nil || c.file == nil {
		return ^uintptr(0)
	}
	return c.file.Fd()
}

// Close releases the device node. Calling Close again is a no-op.
func (c *Card) Close() error {
	if c == nil || c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}

// do runs fn with the descriptor held open for the duration of the call.
func (c *Card) do(op string, fn func(fd uintptr) error) error {
	if c == nil || c.file == nil {
		path := ""
		if c != nil {
			path = c.path
		}
		return &QueryError{Op: op, Path: path, Err: os.ErrClosed}
	}

	raw, err := c.file.SyscallConn()
	if err != nil {
		return &QueryError{Op: op, Path: c.path, Err: err}
	}

	var opErr error
	if err := raw.Control(func(fd uintptr) { opErr = fn(fd) }); err != nil {
		return &QueryError{Op: op, Path: c.path, Err: err}
	}
	if opErr != nil {
		return &QueryError{Op: op, Path: c.path, Err: opErr}
	}
	return nil
}

// Version queries the driver name, date and description.
func (c *Card) Version() (Version, error) {
	var v sysVersion
	var name, date, desc []byte
	err := c.do("version", func(fd uintptr) error {
		if err := ioctl(fd, ioctlVersion, unsafe.Pointer(&v)); err != nil {
			return err
		}

		name = make([]byte, v.nameLen)
		date = make([]byte, v.dateLen)
		desc = make([]byte, v.descLen)
		v.name = bufPtr(name)
		v.date = bufPtr(date)
		v.desc = bufPtr(desc)

		err := ioctl(fd, ioctlVersion, unsafe.Pointer(&v))
		runtime.KeepAlive(name)
		runtime.KeepAlive(date)
		runtime.KeepAlive(desc)
		return err
	})
	if err != nil {
		return Version{}, err
	}

	return Version{
		Major:       int(v.major),
		Minor:       int(v.minor),
		Patch:       int(v.patchlevel),
		Name:        cString(name),
		Date:        cString(date),
		Description: cString(desc),
	}, nil
}

// Capability returns the value of a GET_CAP capability.
func (c *Card) Capability(id uint64) (uint64, error) {
	req := sysGetCap{capability: id}
	err := c.do("get-cap", func(fd uintptr) error {
		return ioctl(fd, ioctlGetCap, unsafe.Pointer(&req))
	})
	if err != nil {
		return 0, err
	}
	return req.value, nil
}

// Resources lists the CRTCs, encoders and connectors of the card.
func (c *Card) Resources() (Resources, error) {
	var res Resources
	err := c.do("get-resources", func(fd uintptr) error {
		for attempt := 0; attempt < maxSnapshotAttempts; attempt++ {
			var counts sysCardRes
			if err := ioctl(fd, ioctlModeGetResources, unsafe.Pointer(&counts)); err != nil {
				return err
			}

			crtcs := make([]uint32, counts.countCrtcs)
			connectors := make([]uint32, counts.countConnectors)
			encoders := make([]uint32, counts.countEncoders)

			fill := sysCardRes{
				crtcIDPtr:       slicePtr(crtcs),
				connectorIDPtr:  slicePtr(connectors),
				encoderIDPtr:    slicePtr(encoders),
				countCrtcs:      counts.countCrtcs,
				countConnectors: counts.countConnectors,
				countEncoders:   counts.countEncoders,
			}
			err := ioctl(fd, ioctlModeGetResources, unsafe.Pointer(&fill))
			runtime.KeepAlive(crtcs)
			runtime.KeepAlive(connectors)
			runtime.KeepAlive(encoders)
			if err != nil {
				return err
			}

			if fill.countCrtcs > counts.countCrtcs ||
				fill.countConnectors > counts.countConnectors ||
				fill.countEncoders > counts.countEncoders {
				continue
			}

			res = Resources{
				CRTCs:      crtcs[:fill.countCrtcs],
				Connectors: connectors[:fill.countConnectors],
				Encoders:   encoders[:fill.countEncoders],
				MinWidth:   fill.minWidth,
				MaxWidth:   fill.maxWidth,
				MinHeight:  fill.minHeight,
				MaxHeight:  fill.maxHeight,
			}
			return nil
		}
		return unix.EAGAIN
	})
	if err != nil {
		return Resources{}, err
	}
	return res, nil
}

// ConnectorIDs returns the connector object ids in kernel order.
func (c *Card) ConnectorIDs() ([]uint32, error) {
	res, err := c.Resources()
	if err != nil {
		return nil, err
	}
	return res.Connectors, nil
}

// Connector queries one connector, including its probed mode list.
func (c *Card) Connector(id uint32) (ConnectorInfo, error) {
	var info ConnectorInfo
	err := c.do("get-connector", func(fd uintptr) error {
		for attempt := 0; attempt < maxSnapshotAttempts; attempt++ {
			// A zero mode count asks the kernel to probe the connector.
			counts := sysGetConnector{connectorID: id}
			if err := ioctl(fd, ioctlModeGetConnector, unsafe.Pointer(&counts)); err != nil {
				return err
			}

			modes := make([]sysModeInfo, counts.countModes)
			encoders := make([]uint32, counts.countEncoders)

			fill := sysGetConnector{
				connectorID:   id,
				modesPtr:      slicePtr(modes),
				encodersPtr:   slicePtr(encoders),
				countModes:    counts.countModes,
				countEncoders: counts.countEncoders,
			}
			err := ioctl(fd, ioctlModeGetConnector, unsafe.Pointer(&fill))
			runtime.KeepAlive(modes)
			runtime.KeepAlive(encoders)
			if err != nil {
				return err
			}

			if fill.countModes > counts.countModes || fill.countEncoders > counts.countEncoders {
				continue
			}

			info = connectorFromSys(&fill, modes[:fill.countModes])
			return nil
		}
		return unix.EAGAIN
	})
	if err != nil {
		return ConnectorInfo{}, err
	}
	return info, nil
}

func connectorFromSys(c *sysGetConnector, modes []sysModeInfo) ConnectorInfo {
	info := ConnectorInfo{
		ID:         c.connectorID,
		Type:       ConnectorType(c.connectorType),
		TypeID:     c.connectorTypeID,
		Name:       ConnectorName(ConnectorType(c.connectorType), c.connectorTypeID),
		Connection: ConnectionState(c.connection),
		EncoderID:  c.encoderID,
		MmWidth:    c.mmWidth,
		MmHeight:   c.mmHeight,
		Subpixel:   c.subpixel,
	}
	if len(modes) > 0 {
		info.Modes = make([]ModeInfo, len(modes))
		for i := range modes {
			info.Modes[i] = modeFromSys(&modes[i])
		}
	}
	return info
}

func modeFromSys(m *sysModeInfo) ModeInfo {
	return ModeInfo{
		Clock:      m.clock,
		HDisplay:   m.hdisplay,
		HSyncStart: m.hsyncStart,
		HSyncEnd:   m.hsyncEnd,
		HTotal:     m.htotal,
		HSkew:      m.hskew,
		VDisplay:   m.vdisplay,
		VSyncStart: m.vsyncStart,
		VSyncEnd:   m.vsyncEnd,
		VTotal:     m.vtotal,
		VScan:      m.vscan,
		VRefresh:   m.vrefresh,
		Flags:      m.flags,
		Type:       m.typ,
		Name:       cString(m.name[:]),
	}
}

func bufPtr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
