package device

import "errors"

var (
	// ErrAlreadyOpen is returned by Start when the device is already live.
	// The device is left untouched.
	ErrAlreadyOpen = errors.New("virtual input device already open")

	// ErrNotInitialized is returned when the open/configure/create sequence
	// fails. The descriptor is closed and the device is back in the closed
	// state before the error is reported.
	ErrNotInitialized = errors.New("virtual input device not initialized")

	// ErrBadValue is returned when an event record cannot be written in
	// full, or when injection is attempted on a closed handle. It never
	// tears down the device.
	ErrBadValue = errors.New("event injection rejected")

	// ErrSuperseded is delivered on an async start's completion channel
	// when a newer lifecycle request was issued before it ran.
	ErrSuperseded = errors.New("start superseded by a newer request")
)
