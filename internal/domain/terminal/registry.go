package terminal

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/TermDeck/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TermDeck/backend/internal/infrastructure/monitoring"
)

// Options carries spawn defaults shared by all sessions in a registry.
type Options struct {
	Shell   string // empty: resolve from $SHELL
	WorkDir string // empty: inherit the process cwd
	Cols    uint16
	Rows    uint16
}

// Registry is the shared mapping from session identifier to Session.
// One RWMutex covers the whole map: per-session write/resize traffic
// only needs read access to locate its target, while the rare
// spawn/close mutations take the write lock.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	opts    Options
	sink    Sink
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewRegistry creates an empty registry emitting to sink. Initial
// geometry defaults to 80x24.
func NewRegistry(sink Sink, logger *logging.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		opts:     Options{Cols: 80, Rows: 24},
		sink:     sink,
		logger:   logger,
	}
}

// WithOptions overrides spawn defaults. Zero geometry fields keep the
// 80x24 default.
func (r *Registry) WithOptions(opts Options) *Registry {
	if opts.Cols == 0 {
		opts.Cols = 80
	}
	if opts.Rows == 0 {
		opts.Rows = 24
	}
	r.opts = opts
	return r
}

// WithMetrics attaches session metrics collection.
func (r *Registry) WithMetrics(m *monitoring.Metrics) *Registry {
	r.metrics = m
	return r
}

// Spawn creates a session under id. The write lock is held across
// construction so check-and-insert is one atomic step: two concurrent
// spawns on the same id cannot both pass the existence check.
// Spawning is rare next to per-session traffic, so the coarser
// critical section is an acceptable trade.
func (r *Registry) Spawn(id, cwd string, env map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSession, id)
	}

	sess, err := newSession(id, cwd, env, r.opts, r.sink, r.logger)
	if err != nil {
		return err
	}
	r.sessions[id] = sess

	r.logger.Info("session spawned",
		zap.String("session_id", id),
		zap.String("cwd", cwd),
	)
	if r.metrics != nil {
		r.metrics.SessionsActive.Inc()
		r.metrics.SessionsSpawned.Inc()
	}
	return nil
}

// Write resolves id and sends data to the session's stdin.
func (r *Registry) Write(id string, data []byte) error {
	sess, err := r.get(id)
	if err != nil {
		return err
	}
	if r.metrics != nil {
		r.metrics.BytesWritten.Add(float64(len(data)))
	}
	return sess.Write(data)
}

// Resize resolves id and applies the new geometry.
func (r *Registry) Resize(id string, cols, rows uint16) error {
	sess, err := r.get(id)
	if err != nil {
		return err
	}
	return sess.Resize(cols, rows)
}

// Close removes the session and closes it inside the same critical
// section, so no caller can observe a removed-but-still-open session.
// Session.Close never blocks, which keeps this safe under the write
// lock. The reader goroutine may lag behind the removal; it emits
// nothing once the liveness flag is cleared.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(r.sessions, id)
	sess.Close()

	r.logger.Info("session closed", zap.String("session_id", id))
	if r.metrics != nil {
		r.metrics.SessionsActive.Dec()
		r.metrics.SessionsClosed.Inc()
	}
	return nil
}

// List returns the live session identifiers in unspecified order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Has reports whether a session exists under id.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[id]
	return ok
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll tears down every session. Shutdown path.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, sess := range r.sessions {
		sess.Close()
		delete(r.sessions, id)
		if r.metrics != nil {
			r.metrics.SessionsActive.Dec()
			r.metrics.SessionsClosed.Inc()
		}
	}
}

func (r *Registry) get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}
