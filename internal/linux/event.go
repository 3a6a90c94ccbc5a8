package linux

import (
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// InputEvent mirrors struct input_event from linux/input.h.
type InputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// NewInputEvent builds an event record stamped with the current wall-clock
// time, ready to be written to a uinput descriptor.
func NewInputEvent(typ uint16, code uint16, value int32) InputEvent {
	return InputEvent{
		Time:  unix.NsecToTimeval(time.Now().UnixNano()),
		Type:  typ,
		Code:  code,
		Value: value,
	}
}

func InputEventSize() int {
	return int(unsafe.Sizeof(InputEvent{}))
}

func (ev *InputEvent) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(ev)), InputEventSize())
}

// InputID mirrors struct input_id from linux/input.h.
type InputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// UserDev mirrors struct uinput_user_dev from linux/uinput.h.
type UserDev struct {
	Name         [UinputMaxNameSize]byte
	ID           InputID
	FFEffectsMax uint32
	Absmax       [AbsCnt]int32
	Absmin       [AbsCnt]int32
	Absfuzz      [AbsCnt]int32
	Absflat      [AbsCnt]int32
}

func UserDevSize() int {
	return int(unsafe.Sizeof(UserDev{}))
}

func (ud *UserDev) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(ud)), UserDevSize())
}
