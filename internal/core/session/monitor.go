// Package session holds the server-resident side of a login session: the
// inactivity state machine, the registry of live sessions, and the logout
// coordinator that tears a session down across every channel.
package session

import (
	"context"
	"sync"
	"time"
)

// State labels the inactivity countdown.
type State string

const (
	StateActive     State = "ACTIVE"
	StateWarned5Min State = "WARNED_5MIN"
	StateWarned1Min State = "WARNED_1MIN"
	StateExpired    State = "EXPIRED"
)

const (
	// DefaultIdleTimeout is the inactivity window before forced logout.
	DefaultIdleTimeout = 30 * time.Minute

	warn5MinAt = 300 // seconds remaining
	warn1MinAt = 60
)

// Monitor counts down inactivity for one session. Ticks decrement the
// countdown at 1-second resolution; any activity rearms it in full, even
// from a warned state. EXPIRED is terminal: the expiry callback fires
// exactly once and later ticks and touches are no-ops.
//
// Coarse polling is deliberate: an idle timer only needs to expire within
// ~1 second of the threshold.
type Monitor struct {
	mu        sync.Mutex
	timeout   int
	remaining int
	state     State
	onWarn    func(state State, remaining int)
	onExpire  func()
	expired   bool
}

// NewMonitor builds a Monitor armed with the full idle timeout. Either
// callback may be nil. A non-positive timeout falls back to
// DefaultIdleTimeout.
func NewMonitor(idleTimeout time.Duration, onWarn func(State, int), onExpire func()) *Monitor {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	secs := int(idleTimeout / time.Second)
	return &Monitor{
		timeout:   secs,
		remaining: secs,
		state:     StateActive,
		onWarn:    onWarn,
		onExpire:  onExpire,
	}
}

// Touch rearms the countdown after user activity. Rearming always wins over
// a concurrent tick; once expired the monitor stays expired.
func (m *Monitor) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateExpired {
		return
	}
	m.remaining = m.timeout
	m.state = StateActive
}

// Tick advances the countdown by one second. Warnings fire when exactly 300
// and 60 seconds remain; the countdown continues uninterrupted through a
// warned state.
func (m *Monitor) Tick() {
	m.mu.Lock()

	if m.state == StateExpired {
		m.mu.Unlock()
		return
	}

	m.remaining--

	var warn func(State, int)
	var warnState State
	var warnRemaining int
	var expire func()

	switch {
	case m.remaining <= 0:
		m.remaining = 0
		m.state = StateExpired
		if !m.expired {
			m.expired = true
			expire = m.onExpire
		}
	case m.remaining == warn5MinAt:
		m.state = StateWarned5Min
		warn, warnState, warnRemaining = m.onWarn, StateWarned5Min, m.remaining
	case m.remaining == warn1MinAt:
		m.state = StateWarned1Min
		warn, warnState, warnRemaining = m.onWarn, StateWarned1Min, m.remaining
	}
	m.mu.Unlock()

	// Callbacks run outside the lock so they may call back into the monitor.
	if warn != nil {
		warn(warnState, warnRemaining)
	}
	if expire != nil {
		expire()
	}
}

// Snapshot returns the current state and the seconds remaining.
func (m *Monitor) Snapshot() (State, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.remaining
}

// Run drives the monitor with a 1-second ticker until the session expires
// or ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Tick()
			if state, _ := m.Snapshot(); state == StateExpired {
				return
			}
		}
	}
}
