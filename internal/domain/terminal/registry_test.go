package terminal

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GriffinCanCode/TermDeck/backend/internal/infrastructure/logging"
)

// collectorSink records emitted events for assertions.
type collectorSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *collectorSink) Emit(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

// output returns the concatenated output bytes seen for a session.
func (s *collectorSink) output(id string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	for _, evt := range s.events {
		if evt.Type == EventOutput && evt.SessionID == id {
			buf.Write(evt.Data)
		}
	}
	return buf.Bytes()
}

func (s *collectorSink) exitEvent(id string) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, evt := range s.events {
		if evt.Type == EventExit && evt.SessionID == id {
			return evt, true
		}
	}
	return Event{}, false
}

func newTestRegistry(t *testing.T) (*Registry, *collectorSink) {
	t.Helper()
	t.Setenv("SHELL", "/bin/sh")

	sink := &collectorSink{}
	reg := NewRegistry(sink, logging.NewNop())
	t.Cleanup(reg.CloseAll)
	return reg, sink
}

// waitFor polls cond until it holds or the deadline passes. Reader
// teardown is advisory, so tests tolerate a grace period rather than
// asserting instantaneous effects.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestSpawnAndHas(t *testing.T) {
	reg, _ := newTestRegistry(t)

	if reg.Has("t1") {
		t.Fatal("registry should start empty")
	}

	if err := reg.Spawn("t1", "", nil); err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}

	if !reg.Has("t1") {
		t.Error("Has should report the spawned session")
	}
	if got := reg.Count(); got != 1 {
		t.Errorf("Count = %d, want 1", got)
	}

	found := false
	for _, id := range reg.List() {
		if id == "t1" {
			found = true
		}
	}
	if !found {
		t.Error("List should contain the spawned session")
	}
}

func TestSpawnDuplicate(t *testing.T) {
	reg, _ := newTestRegistry(t)

	if err := reg.Spawn("dup", "", nil); err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}

	err := reg.Spawn("dup", "", nil)
	if !errors.Is(err, ErrDuplicateSession) {
		t.Fatalf("expected ErrDuplicateSession, got %v", err)
	}

	// Existing session untouched.
	if got := reg.Count(); got != 1 {
		t.Errorf("Count = %d, want 1", got)
	}
	if err := reg.Write("dup", []byte("\n")); err != nil {
		t.Errorf("existing session should still accept writes: %v", err)
	}
}

func TestUnknownSession(t *testing.T) {
	reg, _ := newTestRegistry(t)

	if err := reg.Write("ghost", []byte("x")); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Write: expected ErrSessionNotFound, got %v", err)
	}
	if err := reg.Resize("ghost", 80, 24); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Resize: expected ErrSessionNotFound, got %v", err)
	}
	if err := reg.Close("ghost"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Close: expected ErrSessionNotFound, got %v", err)
	}
}

func TestEchoRoundTrip(t *testing.T) {
	reg, sink := newTestRegistry(t)

	if err := reg.Spawn("t1", "", nil); err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	if err := reg.Write("t1", []byte("echo hi\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	ok := waitFor(t, 5*time.Second, func() bool {
		return bytes.Contains(sink.output("t1"), []byte("hi"))
	})
	if !ok {
		t.Fatalf("output events never contained the echoed bytes: %q", sink.output("t1"))
	}

	if err := reg.Close("t1"); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if len(reg.List()) != 0 {
		t.Error("List should be empty immediately after Close")
	}
	if err := reg.Write("t1", []byte("x")); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Write after Close: expected ErrSessionNotFound, got %v", err)
	}
}

func TestResize(t *testing.T) {
	reg, _ := newTestRegistry(t)

	if err := reg.Spawn("t1", "", nil); err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	if err := reg.Resize("t1", 120, 40); err != nil {
		t.Errorf("Resize on live session failed: %v", err)
	}
	if err := reg.Resize("ghost", 80, 24); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestCloseRemovesSynchronously(t *testing.T) {
	reg, _ := newTestRegistry(t)

	if err := reg.Spawn("t1", "", nil); err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	if err := reg.Close("t1"); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Removal is synchronous even though the reader may lag.
	if reg.Has("t1") {
		t.Error("session should be gone immediately after Close")
	}

	// The identifier is free for reuse.
	if err := reg.Spawn("t1", "", nil); err != nil {
		t.Errorf("respawn under a closed identifier failed: %v", err)
	}
}

func TestConcurrentSpawnSameID(t *testing.T) {
	reg, _ := newTestRegistry(t)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- reg.Spawn("dup", "", nil)
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, ErrDuplicateSession) {
			t.Errorf("unexpected spawn error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("exactly one spawn should win, got %d", succeeded)
	}
	if got := reg.Count(); got != 1 {
		t.Errorf("Count = %d, want 1", got)
	}
}

func TestExitEventOnShellExit(t *testing.T) {
	reg, sink := newTestRegistry(t)

	if err := reg.Spawn("t1", "", nil); err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	if err := reg.Write("t1", []byte("exit\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	ok := waitFor(t, 5*time.Second, func() bool {
		_, found := sink.exitEvent("t1")
		return found
	})
	if !ok {
		t.Fatal("no exit event after the shell exited")
	}

	evt, _ := sink.exitEvent("t1")
	if evt.ExitCode == nil {
		t.Fatal("exit event should carry the real exit code")
	}
	if *evt.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", *evt.ExitCode)
	}

	// Natural exit does not remove the entry; the UI still closes it.
	if !reg.Has("t1") {
		t.Error("session entry should remain until explicitly closed")
	}
}
