// Package device manages the uinput-backed virtual input device that remote
// pointer and key events are injected into. One mutex serializes the device
// handle, the open flag and the pointer button state; the device moves
// between exactly two states, closed and open, and a failed start always
// rolls back to closed.
package device

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"vncinput/internal/linux"
)

// DefaultPath is the uinput control node.
const DefaultPath = "/dev/uinput"

// DefaultName is the descriptor name the created node advertises.
const DefaultName = "VNC-RemoteInput"

// InputDevice owns one virtual device instance. The zero value is not
// usable; construct with New.
type InputDevice struct {
	mu   sync.Mutex
	path string
	name string

	fd     int
	opened bool
	width  uint32
	height uint32

	leftDown   bool
	middleDown bool
	rightDown  bool

	// generation counts lifecycle requests; a scheduled async start aborts
	// if its generation is no longer current when it runs.
	generation uint64
}

// New returns a closed device bound to a uinput node path and a descriptor
// name. Empty arguments select the defaults.
func New(path, name string) *InputDevice {
	if path == "" {
		path = DefaultPath
	}
	if name == "" {
		name = DefaultName
	}
	return &InputDevice{path: path, name: name, fd: -1}
}

// Capability registration order matters to the kernel: event classes come
// before their axis bits, and the direct-source property closes the list.
var capabilities = []struct {
	req uintptr
	bit int
}{
	{linux.UISetEvbit, linux.EvKey},
	{linux.UISetEvbit, linux.EvRep},
	{linux.UISetEvbit, linux.EvRel},
	{linux.UISetRelbit, linux.RelX},
	{linux.UISetRelbit, linux.RelY},
	{linux.UISetRelbit, linux.RelWheel},
	{linux.UISetEvbit, linux.EvAbs},
	{linux.UISetAbsbit, linux.AbsX},
	{linux.UISetAbsbit, linux.AbsY},
	{linux.UISetEvbit, linux.EvSyn},
	{linux.UISetPropbit, linux.InputPropDirect},
}

// Start creates the virtual device with the given absolute-axis bounds.
// It fails with ErrAlreadyOpen if the device is live, and with a wrapped
// ErrNotInitialized if any step of the creation sequence fails.
func (d *InputDevice) Start(width, height uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	return d.startLocked(width, height)
}

// StartAsync schedules Start on its own goroutine and returns immediately.
// The buffered channel delivers the outcome once; callers that want
// fire-and-forget semantics may simply discard it.
func (d *InputDevice) StartAsync(width, height uint32) <-chan error {
	d.mu.Lock()
	d.generation++
	gen := d.generation
	d.mu.Unlock()
	return d.scheduleStart(gen, width, height)
}

// Reconfigure stops the device synchronously and schedules an async start
// with the new dimensions. Overlapping reconfigurations resolve to the
// last requested one: an older scheduled start finds its generation stale
// and reports ErrSuperseded instead of racing the newer device into place.
func (d *InputDevice) Reconfigure(width, height uint32) <-chan error {
	d.mu.Lock()
	d.generation++
	gen := d.generation
	d.stopLocked()
	d.mu.Unlock()
	return d.scheduleStart(gen, width, height)
}

// Stop destroys the device. It is idempotent and never fails; the destroy
// and close calls are best-effort and local state always ends up closed.
// A pending async start is invalidated.
func (d *InputDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	d.stopLocked()
	return nil
}

// Size reports the configured dimensions of the open device.
func (d *InputDevice) Size() (width, height uint32, open bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height, d.opened
}

func (d *InputDevice) scheduleStart(gen uint64, width, height uint32) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- d.startGeneration(gen, width, height)
	}()
	return done
}

func (d *InputDevice) startGeneration(gen uint64, width, height uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.generation {
		return ErrSuperseded
	}
	return d.startLocked(width, height)
}

func (d *InputDevice) startLocked(width, height uint32) error {
	if d.opened {
		return ErrAlreadyOpen
	}

	fd, err := unix.Open(d.path, unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrNotInitialized, d.path, err)
	}

	for _, c := range capabilities {
		if err := linux.IoctlSetInt(fd, c.req, c.bit); err != nil {
			return d.abortStart(fd, fmt.Errorf("capability ioctl %#x(%d): %v", c.req, c.bit, err))
		}
	}
	for code := 0; code < linux.KeyMax; code++ {
		if err := linux.IoctlSetInt(fd, linux.UISetKeybit, code); err != nil {
			return d.abortStart(fd, fmt.Errorf("UI_SET_KEYBIT %d: %v", code, err))
		}
	}

	var desc linux.UserDev
	copy(desc.Name[:], d.name)
	desc.ID = linux.InputID{
		Bustype: linux.BusVirtual,
		Vendor:  1,
		Product: 1,
		Version: 4,
	}
	desc.Absmin[linux.AbsX] = 0
	desc.Absmax[linux.AbsX] = int32(width)
	desc.Absmin[linux.AbsY] = 0
	desc.Absmax[linux.AbsY] = int32(height)

	n, err := unix.Write(fd, desc.Bytes())
	if err != nil {
		return d.abortStart(fd, fmt.Errorf("write device descriptor: %v", err))
	}
	if n != linux.UserDevSize() {
		return d.abortStart(fd, fmt.Errorf("short descriptor write (%d of %d bytes)", n, linux.UserDevSize()))
	}

	if err := linux.IoctlSetInt(fd, linux.UIDevCreate, 0); err != nil {
		return d.abortStart(fd, fmt.Errorf("UI_DEV_CREATE: %v", err))
	}

	d.fd = fd
	d.opened = true
	d.width = width
	d.height = height
	d.leftDown = false
	d.middleDown = false
	d.rightDown = false
	return nil
}

// abortStart releases the half-configured descriptor so a failed start
// never leaves a partially registered device behind.
func (d *InputDevice) abortStart(fd int, cause error) error {
	_ = unix.Close(fd)
	return fmt.Errorf("%w: %v", ErrNotInitialized, cause)
}

func (d *InputDevice) stopLocked() {
	d.opened = false
	d.leftDown = false
	d.middleDown = false
	d.rightDown = false
	if d.fd < 0 {
		return
	}
	_ = linux.IoctlSetInt(d.fd, linux.UIDevDestroy, 0)
	_ = unix.Close(d.fd)
	d.fd = -1
}
