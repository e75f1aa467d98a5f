//go:build linux

package drm

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	iocWrite = 1
	iocRead  = 2

	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30

	drmIoctlBase = 'd'
)

func iowr(nr, size uintptr) uintptr {
	return (iocRead|iocWrite)<<iocDirShift |
		size<<iocSizeShift |
		drmIoctlBase<<iocTypeShift |
		nr<<iocNRShift
}

// Kernel structures from include/uapi/drm/drm.h and drm_mode.h.

type sysVersion struct {
	major      int32
	minor      int32
	patchlevel int32
	nameLen    uintptr
	name       uintptr
	dateLen    uintptr
	date       uintptr
	descLen    uintptr
	desc       uintptr
}

type sysGetCap struct {
	capability uint64
	value      uint64
}

type sysCardRes struct {
	fbIDPtr         uint64
	crtcIDPtr       uint64
	connectorIDPtr  uint64
	encoderIDPtr    uint64
	countFbs        uint32
	countCrtcs      uint32
	countConnectors uint32
	countEncoders   uint32
	minWidth        uint32
	maxWidth        uint32
	minHeight       uint32
	maxHeight       uint32
}

type sysGetConnector struct {
	encodersPtr     uint64
	modesPtr        uint64
	propsPtr        uint64
	propValuesPtr   uint64
	countModes      uint32
	countProps      uint32
	countEncoders   uint32
	encoderID       uint32
	connectorID     uint32
	connectorType   uint32
	connectorTypeID uint32
	connection      uint32
	mmWidth         uint32
	mmHeight        uint32
	subpixel        uint32
	pad             uint32
}

type sysModeInfo struct {
	clock      uint32
	hdisplay   uint16
	hsyncStart uint16
	hsyncEnd   uint16
	htotal     uint16
	hskew      uint16
	vdisplay   uint16
	vsyncStart uint16
	vsyncEnd   uint16
	vtotal     uint16
	vscan      uint16
	vrefresh   uint32
	flags      uint32
	typ        uint32
	name       [32]byte
}

var (
	ioctlVersion          = iowr(0x00, unsafe.Sizeof(sysVersion{}))
	ioctlGetCap           = iowr(0x0c, unsafe.Sizeof(sysGetCap{}))
	ioctlModeGetResources = iowr(0xa0, unsafe.Sizeof(sysCardRes{}))
	ioctlModeGetConnector = iowr(0xa7, unsafe.Sizeof(sysGetConnector{}))
)

// ioctl issues a single request, restarting it when the kernel reports an
// interrupted or busy call the way libdrm's drmIoctl does.
func ioctl(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg))
		switch errno {
		case 0:
			return nil
		case unix.EINTR, unix.EAGAIN:
			continue
		default:
			return errno
		}
	}
}

func slicePtr[T any](s []T) uint64 {
	if len(s) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&s[0])))
}
