// Package terminal manages PTY-backed shell sessions for the desktop UI.
//
// Each session owns one shell process attached to a pseudo-terminal. A
// dedicated reader goroutine streams raw output bytes to an injected
// event sink; the UI layer renders them (no VT100 parsing happens here).
// The registry is the single shared entry point: it maps caller-supplied
// session identifiers to sessions and enforces uniqueness and existence
// before delegating.
//
// Concurrency model:
//   - Registry map under one RWMutex (read-mostly: write/resize/list
//     only need read access; spawn/close take the write lock).
//   - Two independent locks per session so a write in progress never
//     blocks a concurrent resize and vice versa.
//   - Liveness is a lock-free atomic flag shared with the reader.
//
// Close is advisory: it clears the liveness flag and closes the PTY fd,
// which unblocks the reader and hangs up the shell. The reader may need
// one more loop iteration to quiesce; no events are emitted for a
// session after its flag is cleared.
//
// Example Usage:
//
//	reg := terminal.NewRegistry(sink, logger)
//	if err := reg.Spawn("t1", "/home/user", nil); err != nil { ... }
//	reg.Write("t1", []byte("echo hi\n"))
//	reg.Resize("t1", 120, 40)
//	reg.Close("t1")
package terminal
