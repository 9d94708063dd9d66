// Package input discovers raw keyboard devices through the Linux evdev
// interface and decodes their key events.
package input

import (
	"errors"
	"fmt"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	devInputGlob = "/dev/input/event*"

	// ioctl request numbers built from _IOC(_IOC_READ, 'E', nr, size).
	iocRead   = 2
	iocEvBase = 0x45 // 'E'

	keyMax     = 0x2ff
	keyBitsLen = keyMax/8 + 1
)

func eviocgname(size int) uint {
	return iocRead<<30 | uint(size)<<16 | iocEvBase<<8 | 0x06
}

func eviocgbit(ev, size int) uint {
	return iocRead<<30 | uint(size)<<16 | iocEvBase<<8 | uint(0x20+ev)
}

// Device is one opened keyboard event source.
type Device struct {
	fd   int
	path string
	name string
}

func (d *Device) Fd() int      { return d.fd }
func (d *Device) Path() string { return d.path }
func (d *Device) Name() string { return d.name }

func (d *Device) Close() {
	unix.Close(d.fd)
}

// ReadEvents drains all pending events from the device. An empty slice with a
// nil error means nothing was pending (the fd is non-blocking); a non-nil
// error means the device is gone and should be dropped.
func (d *Device) ReadEvents(buf []byte) ([]Event, error) {
	n, err := unix.Read(d.fd, buf)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", d.path, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("read %s: device closed", d.path)
	}
	return decodeEvents(buf[:n]), nil
}

// Discover enumerates /dev/input and opens every device that looks like a real
// keyboard. Open failures caused by missing permissions are counted and
// reported so the caller can build an actionable diagnostic; all other open
// failures are skipped. An empty device list is a normal result, not an error.
func Discover() ([]*Device, int, error) {
	paths, err := filepath.Glob(devInputGlob)
	if err != nil {
		return nil, 0, fmt.Errorf("enumerating input devices: %w", err)
	}

	var devices []*Device
	denied := 0
	for _, path := range paths {
		fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
		if err != nil {
			if errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) {
				denied++
			}
			continue
		}
		if !isKeyboard(fd) {
			unix.Close(fd)
			continue
		}
		devices = append(devices, &Device{
			fd:   fd,
			path: path,
			name: deviceName(fd),
		})
	}
	return devices, denied, nil
}

// isKeyboard reports whether the device advertises the full alphabetic key
// range. Mice, headset buttons and most virtual devices expose EV_KEY too, but
// only genuine keyboards carry all 26 letters.
func isKeyboard(fd int) bool {
	var bits [keyBitsLen]byte
	if err := ioctl(fd, eviocgbit(EvKey, len(bits)), unsafe.Pointer(&bits[0])); err != nil {
		return false
	}
	for _, code := range letterCodes {
		if bits[code/8]&(1<<(code%8)) == 0 {
			return false
		}
	}
	return true
}

func deviceName(fd int) string {
	var buf [256]byte
	if err := ioctl(fd, eviocgname(len(buf)), unsafe.Pointer(&buf[0])); err != nil {
		return "unknown"
	}
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf[:])
}

func ioctl(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
