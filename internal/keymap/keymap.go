// Package keymap translates X11-style keysyms coming from a remote client
// into kernel scancodes for the virtual input device. It is a best-effort
// compatibility table for a small symbol set, not a full layout: accented
// letters collapse onto their unaccented base key plus the alt modifier.
package keymap

import "vncinput/internal/linux"

// Result is the outcome of a single keysym lookup. A zero Code means the
// keysym has no mapping and the event must be dropped without injection.
type Result struct {
	Code  uint16
	Shift bool
	Alt   bool
}

// Letter keys in alphabetic order; the scancode values follow the physical
// qwerty layout, so letters[0] is KEY_A at position 30.
var letters = [26]uint16{
	linux.KeyA, linux.KeyB, linux.KeyC, linux.KeyD, linux.KeyE, linux.KeyF,
	linux.KeyG, linux.KeyH, linux.KeyI, linux.KeyJ, linux.KeyK, linux.KeyL,
	linux.KeyM, linux.KeyN, linux.KeyO, linux.KeyP, linux.KeyQ, linux.KeyR,
	linux.KeyS, linux.KeyT, linux.KeyU, linux.KeyV, linux.KeyW, linux.KeyX,
	linux.KeyY, linux.KeyZ,
}

// Punctuation ranges, each with a parallel shift table.
// space ! " # $ % & ' ( ) * + , - . /
var spec1 = [16]uint16{57, 2, 40, 4, 5, 6, 8, 40, 10, 11, 9, 13, 51, 12, 52, 52}
var spec1Shift = [16]bool{false, true, true, true, true, true, true, false, true, true, true, true, false, false, false, true}

// : ; < = > ? @
var spec2 = [7]uint16{39, 39, 227, 13, 228, 53, 3}
var spec2Shift = [7]bool{true, false, true, true, true, true, true}

// [ \ ] ^ _ `
var spec3 = [6]uint16{26, 43, 27, 7, 12, 399}
var spec3Shift = [6]bool{false, false, false, true, true, false}

// { | } ~ del
var spec4 = [5]uint16{26, 43, 27, 215, 14}
var spec4Shift = [5]bool{true, true, true, true, false}

// Named keysyms and control codes resolved by exact match. Navigation keys
// land on the directional pad, escape and delete double as the back key, and
// the function keys reach device chrome (search, call, camera, ...).
var named = map[uint32]Result{
	0xff08: {Code: linux.KeyBackspace},
	0xff09: {Code: linux.KeyTab},
	0xff0d: {Code: linux.KeyEnter},
	0xff1b: {Code: linux.KeyBack},    // esc -> back
	0xff51: {Code: linux.KeyLeft},    // dpad left
	0xff53: {Code: linux.KeyRight},   // dpad right
	0xff54: {Code: linux.KeyDown},    // dpad down
	0xff52: {Code: linux.KeyUp},      // dpad up
	0xff50: {Code: linux.KeyHome},
	0xffff: {Code: linux.KeyBack},    // del -> back
	0xff55: {Code: 229},              // page up -> menu
	0xffcf: {Code: linux.KeyCompose}, // F2 -> search
	0xffe3: {Code: linux.KeyCompose}, // left ctrl -> search
	0xff56: {Code: linux.KeyF3},      // page down -> call
	0xff57: {Code: linux.KeyEnd},     // end -> endcall
	0xffc2: {Code: 211},              // F5 -> focus
	0xffc3: {Code: 212},              // F6 -> camera
	0xffc4: {Code: 150},              // F7 -> explorer
	0xffc5: {Code: 155},              // F8 -> envelope

	// Editor shortcuts sent as raw control codes, chorded with alt.
	0x01: {Code: linux.KeyG, Alt: true}, // ctrl+a
	0x03: {Code: linux.KeyC, Alt: true}, // ctrl+c
	0x04: {Code: linux.KeyD, Alt: true}, // ctrl+d
	0x12: {Code: linux.KeyS, Alt: true}, // ctrl+r
}

// Latin-1 and Hungarian accented letters, keyed both by their Latin-1 code
// point and by the legacy client encoding. Deliberately lossy: the output is
// the unaccented base key with alt, shift added for uppercase.
var accented = map[uint32]Result{
	225:   {Code: linux.KeyB, Alt: true},              // a acute
	50081: {Code: linux.KeyB, Alt: true},
	193:   {Code: linux.KeyB, Shift: true, Alt: true}, // A acute
	50049: {Code: linux.KeyB, Shift: true, Alt: true},
	233:   {Code: linux.KeyE, Alt: true},              // e acute
	50089: {Code: linux.KeyE, Alt: true},
	201:   {Code: linux.KeyE, Shift: true, Alt: true}, // E acute
	50057: {Code: linux.KeyE, Shift: true, Alt: true},
	0xffbf: {Code: linux.KeyJ, Alt: true},             // i acute
	50093: {Code: linux.KeyJ, Alt: true},
	205:   {Code: linux.KeyJ, Shift: true, Alt: true}, // I acute
	50061: {Code: linux.KeyJ, Shift: true, Alt: true},
	243:   {Code: linux.KeyQ, Alt: true},              // o acute
	50099: {Code: linux.KeyQ, Alt: true},
	211:   {Code: linux.KeyQ, Shift: true, Alt: true}, // O acute
	50067: {Code: linux.KeyQ, Shift: true, Alt: true},
	246:   {Code: linux.KeyP, Alt: true},              // o diaeresis
	50102: {Code: linux.KeyP, Alt: true},
	214:   {Code: linux.KeyP, Shift: true, Alt: true}, // O diaeresis
	50070: {Code: linux.KeyP, Shift: true, Alt: true},
	245:   {Code: linux.KeyR, Alt: true},              // o double acute
	50577: {Code: linux.KeyR, Alt: true},
	213:   {Code: linux.KeyR, Shift: true, Alt: true}, // O double acute
	50576: {Code: linux.KeyR, Shift: true, Alt: true},
	218:   {Code: linux.KeyW, Shift: true, Alt: true}, // U acute
	50074: {Code: linux.KeyW, Shift: true, Alt: true},
	50106: {Code: linux.KeyW, Shift: true, Alt: true}, // u acute (legacy clients)
	252:   {Code: linux.KeyV, Alt: true},              // u diaeresis
	50108: {Code: linux.KeyV, Alt: true},
	220:   {Code: linux.KeyV, Shift: true, Alt: true}, // U diaeresis
	50076: {Code: linux.KeyV, Shift: true, Alt: true},
	251:   {Code: linux.KeyX, Alt: true},              // u double acute
	50609: {Code: linux.KeyX, Alt: true},
	219:   {Code: linux.KeyX, Shift: true, Alt: true}, // U double acute
	50608: {Code: linux.KeyX, Shift: true, Alt: true},
}

// Translate resolves a keysym to a scancode plus shift/alt modifier flags.
// Unknown keysyms yield the zero Result.
func Translate(keysym uint32) Result {
	switch {
	case keysym >= 'a' && keysym <= 'z':
		return Result{Code: letters[keysym-'a']}
	case keysym >= 'A' && keysym <= 'Z':
		return Result{Code: letters[keysym-'A'], Shift: true}
	case keysym >= '1' && keysym <= '9':
		return Result{Code: uint16(keysym - '1' + linux.Key1)}
	case keysym == '0':
		return Result{Code: linux.Key0}
	case keysym >= 0x20 && keysym <= 0x2f:
		return Result{Code: spec1[keysym-0x20], Shift: spec1Shift[keysym-0x20]}
	case keysym >= 0x3a && keysym <= 0x40:
		return Result{Code: spec2[keysym-0x3a], Shift: spec2Shift[keysym-0x3a]}
	case keysym >= 0x5b && keysym <= 0x60:
		return Result{Code: spec3[keysym-0x5b], Shift: spec3Shift[keysym-0x5b]}
	case keysym >= 0x7b && keysym <= 0x7f:
		return Result{Code: spec4[keysym-0x7b], Shift: spec4Shift[keysym-0x7b]}
	}
	if r, ok := named[keysym]; ok {
		return r
	}
	if r, ok := accented[keysym]; ok {
		return r
	}
	return Result{}
}
