package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coveradmin/insurance-portal/internal/api/metrics"
	"github.com/coveradmin/insurance-portal/internal/core/domain"
)

// Registry tracks the inactivity monitor for every live session, keyed by
// the signed token. Login registers a session, the access guard touches it
// on every allowed request, logout ends it.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]*entry
	idleTimeout time.Duration
	log         zerolog.Logger
}

type entry struct {
	monitor *Monitor
	cancel  context.CancelFunc
}

func NewRegistry(idleTimeout time.Duration, log zerolog.Logger) *Registry {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Registry{
		sessions:    make(map[string]*entry),
		idleTimeout: idleTimeout,
		log:         log,
	}
}

// Start registers a monitor for the token and launches its ticker goroutine.
// onExpire runs exactly once when the session idles out, after the registry
// entry is gone. Starting an already-registered token rearms it instead.
func (r *Registry) Start(ctx context.Context, tokenStr string, onExpire func()) {
	r.mu.Lock()
	if existing, ok := r.sessions[tokenStr]; ok {
		existing.monitor.Touch()
		r.mu.Unlock()
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	monitor := NewMonitor(r.idleTimeout,
		func(state State, remaining int) {
			r.log.Info().
				Str("state", string(state)).
				Int("remaining_seconds", remaining).
				Msg("session inactivity warning")
			metrics.SessionWarningsTotal.WithLabelValues(string(state)).Inc()
		},
		func() {
			r.remove(tokenStr)
			if onExpire != nil {
				onExpire()
			}
		},
	)
	r.sessions[tokenStr] = &entry{monitor: monitor, cancel: cancel}
	metrics.SessionsActive.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	go monitor.Run(runCtx)
}

// Touch rearms the session's countdown. Reports whether the session exists.
func (r *Registry) Touch(tokenStr string) bool {
	r.mu.RLock()
	e, ok := r.sessions[tokenStr]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	e.monitor.Touch()
	return true
}

// Snapshot returns the session's state and seconds remaining.
func (r *Registry) Snapshot(tokenStr string) (State, int, error) {
	r.mu.RLock()
	e, ok := r.sessions[tokenStr]
	r.mu.RUnlock()
	if !ok {
		return "", 0, domain.ErrSessionNotFound
	}
	state, remaining := e.monitor.Snapshot()
	return state, remaining, nil
}

// End stops the session's monitor and drops it from the registry.
func (r *Registry) End(tokenStr string) {
	r.remove(tokenStr)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) remove(tokenStr string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[tokenStr]
	if !ok {
		return
	}
	e.cancel()
	delete(r.sessions, tokenStr)
	metrics.SessionsActive.Set(float64(len(r.sessions)))
}
