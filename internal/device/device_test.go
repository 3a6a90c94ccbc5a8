package device

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vncinput/internal/linux"
)

// wireEvent is the decoded tail of one raw input_event record; the
// timestamp is not asserted on.
type wireEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

// newPipeDevice builds an open device whose handle is the write end of a
// pipe, so tests can assert on the exact bytes the injector produces.
func newPipeDevice(t *testing.T) (*InputDevice, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	d := New("", "")
	d.fd = int(w.Fd())
	d.opened = true
	return d, r
}

func readEvents(t *testing.T, r *os.File, count int) []wireEvent {
	t.Helper()
	size := linux.InputEventSize()
	buf := make([]byte, size*count)
	if err := r.SetReadDeadline(time.Now().Add(time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	if _, err := io.ReadFull(r, buf); err != nil {
		t.Fatalf("read %d events: %v", count, err)
	}
	events := make([]wireEvent, count)
	for i := range events {
		tail := buf[i*size+size-8 : (i+1)*size]
		events[i] = wireEvent{
			Type:  binary.LittleEndian.Uint16(tail[0:2]),
			Code:  binary.LittleEndian.Uint16(tail[2:4]),
			Value: int32(binary.LittleEndian.Uint32(tail[4:8])),
		}
	}
	return events
}

func expectNoOutput(t *testing.T, r *os.File) {
	t.Helper()
	if err := r.SetReadDeadline(time.Now().Add(50 * time.Millisecond)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	buf := make([]byte, 1)
	if n, err := r.Read(buf); err == nil || n > 0 {
		t.Fatalf("expected no injected events, read %d bytes", n)
	}
}

func expectEvents(t *testing.T, r *os.File, want []wireEvent) {
	t.Helper()
	got := readEvents(t, r, len(want))
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v (full sequence %+v)", i, got[i], want[i], got)
		}
	}
}

func syn() wireEvent {
	return wireEvent{Type: linux.EvSyn, Code: linux.SynReport, Value: 0}
}

func TestStartWhileOpenFails(t *testing.T) {
	d, _ := newPipeDevice(t)
	fd := d.fd
	if err := d.Start(100, 100); !errors.Is(err, ErrAlreadyOpen) {
		t.Fatalf("Start on open device returned %v, want ErrAlreadyOpen", err)
	}
	if !d.opened || d.fd != fd {
		t.Fatalf("failed Start mutated device state: opened=%v fd=%d", d.opened, d.fd)
	}
}

func TestStartRollsBackOnIoctlFailure(t *testing.T) {
	// A regular file accepts the open but rejects the first capability
	// ioctl, exercising the rollback path.
	path := filepath.Join(t.TempDir(), "uinput")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("write stub node: %v", err)
	}
	d := New(path, "test-device")
	err := d.Start(640, 480)
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Start returned %v, want ErrNotInitialized", err)
	}
	if d.opened || d.fd != -1 {
		t.Fatalf("failed Start left device live: opened=%v fd=%d", d.opened, d.fd)
	}
}

func TestStartMissingNode(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "missing"), "")
	if err := d.Start(10, 10); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Start returned %v, want ErrNotInitialized", err)
	}
}

func TestStopIdempotent(t *testing.T) {
	d, _ := newPipeDevice(t)
	if err := d.Stop(); err != nil {
		t.Fatalf("first Stop returned %v", err)
	}
	if d.opened || d.fd != -1 {
		t.Fatalf("Stop left device open: opened=%v fd=%d", d.opened, d.fd)
	}
	if err := d.Stop(); err != nil {
		t.Fatalf("second Stop returned %v", err)
	}
}

func TestStopOnFreshDevice(t *testing.T) {
	d := New("", "")
	if err := d.Stop(); err != nil {
		t.Fatalf("Stop on closed device returned %v", err)
	}
}

func TestStartGenerationSuperseded(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "missing"), "")
	d.generation = 7
	if err := d.startGeneration(3, 100, 100); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("stale generation start returned %v, want ErrSuperseded", err)
	}
	if d.opened || d.fd != -1 {
		t.Fatalf("superseded start touched device state")
	}
}

func TestReconfigureDeliversOutcome(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "missing"), "")
	select {
	case err := <-d.Reconfigure(800, 600):
		if !errors.Is(err, ErrNotInitialized) {
			t.Fatalf("Reconfigure completion = %v, want ErrNotInitialized", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Reconfigure never delivered a completion")
	}
}

func TestStartAsyncDeliversOutcome(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "missing"), "")
	select {
	case err := <-d.StartAsync(800, 600):
		if !errors.Is(err, ErrNotInitialized) {
			t.Fatalf("StartAsync completion = %v, want ErrNotInitialized", err)
		}
	case <-time.After(time.Second):
		t.Fatal("StartAsync never delivered a completion")
	}
}

func TestInjectOnClosedHandle(t *testing.T) {
	d := New("", "")
	if err := d.inject(linux.EvKey, linux.KeyA, 1); !errors.Is(err, ErrBadValue) {
		t.Fatalf("inject on closed handle returned %v, want ErrBadValue", err)
	}
}

func TestInjectorPrimitives(t *testing.T) {
	d, r := newPipeDevice(t)

	if err := d.injectSyn(linux.EvKey, linux.KeyA, 1); err != nil {
		t.Fatalf("injectSyn: %v", err)
	}
	expectEvents(t, r, []wireEvent{
		{Type: linux.EvKey, Code: linux.KeyA, Value: 1},
		syn(),
	})

	if err := d.movePointer(3, -4); err != nil {
		t.Fatalf("movePointer: %v", err)
	}
	expectEvents(t, r, []wireEvent{
		{Type: linux.EvRel, Code: linux.RelX, Value: 3},
		{Type: linux.EvRel, Code: linux.RelY, Value: -4},
		syn(),
	})

	if err := d.setPointer(120, 240); err != nil {
		t.Fatalf("setPointer: %v", err)
	}
	expectEvents(t, r, []wireEvent{
		{Type: linux.EvAbs, Code: linux.AbsX, Value: 120},
		{Type: linux.EvAbs, Code: linux.AbsY, Value: 240},
		syn(),
	})

	if err := d.click(linux.KeyEnter); err != nil {
		t.Fatalf("click: %v", err)
	}
	expectEvents(t, r, []wireEvent{
		{Type: linux.EvKey, Code: linux.KeyEnter, Value: 1},
		{Type: linux.EvKey, Code: linux.KeyEnter, Value: 0},
	})

	expectNoOutput(t, r)
}
