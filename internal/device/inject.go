package device

import (
	"fmt"

	"golang.org/x/sys/unix"

	"vncinput/internal/linux"
)

// inject writes one timestamped event record to the device. The record must
// transfer whole; a short write leaves the kernel stream mid-record and is
// reported as ErrBadValue. Callers hold the device lock.
func (d *InputDevice) inject(typ uint16, code uint16, value int32) error {
	if d.fd < 0 {
		return fmt.Errorf("%w: device handle closed", ErrBadValue)
	}
	ev := linux.NewInputEvent(typ, code, value)
	n, err := unix.Write(d.fd, ev.Bytes())
	if err != nil {
		return fmt.Errorf("%w: write event: %v", ErrBadValue, err)
	}
	if n != linux.InputEventSize() {
		return fmt.Errorf("%w: short event write (%d of %d bytes)", ErrBadValue, n, linux.InputEventSize())
	}
	return nil
}

// injectSyn writes one event and then a SYN_REPORT terminator. The
// terminator goes out even when the payload write failed: consumers apply a
// batch of field updates only once they see the report, and withholding it
// would stall them mid-update.
func (d *InputDevice) injectSyn(typ uint16, code uint16, value int32) error {
	err := d.inject(typ, code, value)
	if synErr := d.inject(linux.EvSyn, linux.SynReport, 0); err == nil {
		err = synErr
	}
	return err
}

// movePointer emits a relative motion step.
func (d *InputDevice) movePointer(dx, dy int32) error {
	if err := d.inject(linux.EvRel, linux.RelX, dx); err != nil {
		return err
	}
	return d.injectSyn(linux.EvRel, linux.RelY, dy)
}

// setPointer emits an absolute position.
func (d *InputDevice) setPointer(x, y int32) error {
	if err := d.inject(linux.EvAbs, linux.AbsX, x); err != nil {
		return err
	}
	return d.injectSyn(linux.EvAbs, linux.AbsY, y)
}

func (d *InputDevice) press(code uint16) error {
	return d.inject(linux.EvKey, code, 1)
}

func (d *InputDevice) release(code uint16) error {
	return d.inject(linux.EvKey, code, 0)
}

// click taps a key, press immediately followed by release.
func (d *InputDevice) click(code uint16) error {
	if err := d.press(code); err != nil {
		return err
	}
	return d.release(code)
}
