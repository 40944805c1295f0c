package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/creack/pty"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/TermDeck/backend/internal/infrastructure/logging"
)

// ReadBufferSize bounds a single output event's payload.
const ReadBufferSize = 4096

// Session is one shell process attached to a PTY. The write and resize
// paths take independent locks; the liveness flag is shared with the
// reader goroutine and read/written lock-free.
type Session struct {
	id   string
	cmd  *exec.Cmd
	ptmx *os.File

	writeMu  sync.Mutex
	resizeMu sync.Mutex

	alive     atomic.Bool
	closeOnce sync.Once

	reapOnce sync.Once
	exitCode *int32

	sink   Sink
	logger *logging.Logger
}

// newSession spawns an interactive login shell on a fresh PTY with the
// given initial geometry and starts the session's reader goroutine.
// On failure no session exists and nothing is left running.
func newSession(id, cwd string, env map[string]string, opts Options, sink Sink, logger *logging.Logger) (*Session, error) {
	shell := opts.Shell
	if shell == "" {
		shell = defaultShell()
	}

	// -l -i so the user's shell configuration is sourced.
	cmd := exec.Command(shell, loginShellArgs()...)
	if cwd == "" {
		cwd = opts.WorkDir
	}
	if cwd != "" {
		cmd.Dir = cwd
	}

	cmd.Env = os.Environ()
	for key, value := range env {
		cmd.Env = append(cmd.Env, key+"="+value)
	}
	// Forced so downstream programs render correctly.
	cmd.Env = append(cmd.Env, "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: opts.Rows, Cols: opts.Cols})
	if err != nil {
		return nil, fmt.Errorf("start pty: %w", err)
	}

	s := &Session{
		id:     id,
		cmd:    cmd,
		ptmx:   ptmx,
		sink:   sink,
		logger: logger,
	}
	s.alive.Store(true)

	go s.readLoop()

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Write sends the full byte sequence to the shell's stdin. The PTY fd
// is unbuffered, so a nil return means the bytes were handed to the
// kernel; failures are surfaced to the caller, never retried.
func (s *Session) Write(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.ptmx.Write(data); err != nil {
		return fmt.Errorf("write to pty: %w", err)
	}
	return nil
}

// Resize applies a new character-cell geometry. Pixel dimensions are
// not tracked and stay zero.
func (s *Session) Resize(cols, rows uint16) error {
	s.resizeMu.Lock()
	defer s.resizeMu.Unlock()

	if err := pty.Setsize(s.ptmx, &pty.Winsize{Rows: rows, Cols: cols}); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	return nil
}

// Close requests teardown and returns without waiting for the reader
// to quiesce. Clearing the flag before closing the fd means the reader
// exits silently instead of emitting an exit event for a session the
// caller already discarded. Closing the master unblocks a reader stuck
// in Read and hangs up the shell. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.alive.Store(false)
		_ = s.ptmx.Close()

		// Reap in the background so the child never lingers as a
		// zombie; the reader skips reaping on this path.
		go s.reap()
	})
}

// readLoop streams PTY output to the sink until the liveness flag
// clears or the stream ends. Single sequential reader, so output
// events are emitted in read order.
func (s *Session) readLoop() {
	buf := make([]byte, ReadBufferSize)
	for {
		if !s.alive.Load() {
			return
		}

		n, err := s.ptmx.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			s.sink.Emit(Event{Type: EventOutput, SessionID: s.id, Data: data})
		}
		if err == nil {
			continue
		}

		if !s.alive.Load() {
			// Explicit close tore the fd down; quiesce silently.
			return
		}

		// EOF means the shell exited. On Linux a dead child surfaces
		// as EIO on the master side instead, so any read error here is
		// treated as termination.
		if !errors.Is(err, io.EOF) {
			s.logger.Warn("pty read failed",
				zap.String("session_id", s.id),
				zap.Error(err),
			)
		}
		s.sink.Emit(Event{Type: EventExit, SessionID: s.id, ExitCode: s.reap()})
		return
	}
}

// reap joins the child exactly once and caches its exit code. Returns
// nil when the status could not be determined.
func (s *Session) reap() *int32 {
	s.reapOnce.Do(func() {
		err := s.cmd.Wait()
		var exitErr *exec.ExitError
		switch {
		case err == nil:
			code := int32(0)
			s.exitCode = &code
		case errors.As(err, &exitErr):
			code := int32(exitErr.ExitCode())
			s.exitCode = &code
		default:
			s.logger.Warn("wait on shell failed",
				zap.String("session_id", s.id),
				zap.Error(err),
			)
		}
	})
	return s.exitCode
}

// defaultShell resolves the shell from the host environment.
func defaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	if runtime.GOOS == "windows" {
		return "cmd.exe"
	}
	return "/bin/bash"
}

func loginShellArgs() []string {
	if runtime.GOOS == "windows" {
		return nil
	}
	return []string{"-l", "-i"}
}
