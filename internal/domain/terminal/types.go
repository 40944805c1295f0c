package terminal

import "errors"

// EventType distinguishes the kind of event emitted by a session.
type EventType string

const (
	// EventOutput carries raw bytes read from the PTY.
	EventOutput EventType = "output"
	// EventExit marks the session's terminal event: the shell exited
	// or the PTY stream failed.
	EventExit EventType = "exit"
)

// Event is a single asynchronous notification pushed to the UI layer.
// Data is verbatim PTY output, at most ReadBufferSize bytes per event.
// ExitCode is set on exit events when the child's status is known.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Data      []byte    `json:"data,omitempty"`
	ExitCode  *int32    `json:"exit_code,omitempty"`
}

// Sink receives session events. Implementations must not block: a
// session's reader goroutine calls Emit inline, and emission failures
// are the sink's problem (drop, don't propagate).
type Sink interface {
	Emit(Event)
}

// Registry errors. Spawn and I/O failures are returned as wrapped OS
// errors; these sentinels cover the two registry-level conditions.
var (
	ErrDuplicateSession = errors.New("session already exists")
	ErrSessionNotFound  = errors.New("session not found")
)
