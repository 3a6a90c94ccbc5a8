package device

import (
	"vncinput/internal/keymap"
	"vncinput/internal/linux"
)

// Button mask bits as sent by the remote client, one snapshot per update.
const (
	maskLeft      = 1 << 0
	maskMiddle    = 1 << 1
	maskRight     = 1 << 2
	maskWheelUp   = 1 << 3
	maskWheelDown = 1 << 4
)

// PointerEvent applies one button-mask snapshot at absolute coordinates.
// The left button drives touch-down/move/up edges against the remembered
// state, middle and right are edge-triggered taps on navigation keys, and
// the wheel bits emit one tick per call with no accumulated state. Calls on
// a closed device are dropped.
func (d *InputDevice) PointerEvent(buttonMask int, x, y int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.opened {
		return nil
	}

	var firstErr error
	note := func(err error) {
		if firstErr == nil && err != nil {
			firstErr = err
		}
	}

	left := buttonMask&maskLeft != 0
	switch {
	case left && d.leftDown: // dragging, target already touching
		note(d.inject(linux.EvAbs, linux.AbsX, x))
		note(d.inject(linux.EvAbs, linux.AbsY, y))
		note(d.inject(linux.EvSyn, linux.SynReport, 0))
	case left: // touch down
		d.leftDown = true
		note(d.inject(linux.EvAbs, linux.AbsX, x))
		note(d.inject(linux.EvAbs, linux.AbsY, y))
		note(d.inject(linux.EvKey, linux.BtnTouch, 1))
		note(d.inject(linux.EvSyn, linux.SynReport, 0))
	case d.leftDown: // touch up
		d.leftDown = false
		note(d.inject(linux.EvAbs, linux.AbsX, x))
		note(d.inject(linux.EvAbs, linux.AbsY, y))
		note(d.inject(linux.EvKey, linux.BtnTouch, 0))
		note(d.inject(linux.EvSyn, linux.SynReport, 0))
	}

	right := buttonMask&maskRight != 0
	if right && !d.rightDown {
		d.rightDown = true
		note(d.press(linux.KeyBack))
		note(d.inject(linux.EvSyn, linux.SynReport, 0))
	} else if !right && d.rightDown {
		d.rightDown = false
		note(d.release(linux.KeyBack))
		note(d.inject(linux.EvSyn, linux.SynReport, 0))
	}

	middle := buttonMask&maskMiddle != 0
	if middle && !d.middleDown {
		d.middleDown = true
		note(d.press(linux.KeyEnd))
		note(d.inject(linux.EvSyn, linux.SynReport, 0))
	} else if !middle && d.middleDown {
		d.middleDown = false
		note(d.release(linux.KeyEnd))
		note(d.inject(linux.EvSyn, linux.SynReport, 0))
	}

	if buttonMask&maskWheelUp != 0 {
		note(d.inject(linux.EvRel, linux.RelWheel, 1))
		note(d.inject(linux.EvSyn, linux.SynReport, 0))
	}
	if buttonMask&maskWheelDown != 0 {
		note(d.inject(linux.EvRel, linux.RelWheel, -1))
		note(d.inject(linux.EvSyn, linux.SynReport, 0))
	}

	return firstErr
}

// KeyEvent emulates one remote keystroke. Only key-down notifications act;
// a key-up is a no-op because every remote keystroke is emitted as a
// complete tap, modifiers bracketed around it. Keysyms the translator does
// not know yield scancode 0 and are dropped silently.
func (d *InputDevice) KeyEvent(down bool, keysym uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.opened || !down {
		return nil
	}

	r := keymap.Translate(keysym)
	if r.Code == 0 {
		return nil
	}

	var firstErr error
	note := func(err error) {
		if firstErr == nil && err != nil {
			firstErr = err
		}
	}

	if r.Shift {
		note(d.press(linux.KeyLeftShift))
	}
	if r.Alt {
		note(d.press(linux.KeyLeftAlt))
	}
	note(d.inject(linux.EvSyn, linux.SynReport, 0))

	note(d.press(r.Code))
	note(d.inject(linux.EvSyn, linux.SynReport, 0))
	note(d.release(r.Code))
	note(d.inject(linux.EvSyn, linux.SynReport, 0))

	if r.Alt {
		note(d.release(linux.KeyLeftAlt))
	}
	if r.Shift {
		note(d.release(linux.KeyLeftShift))
	}
	note(d.inject(linux.EvSyn, linux.SynReport, 0))

	return firstErr
}
