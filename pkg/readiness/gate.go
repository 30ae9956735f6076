package readiness

import (
	"sync"
	"time"
)

// State of the gate.
type State int

const (
	// StateBlocked means one or more preconditions are still missing.
	StateBlocked State = iota
	// StateReady means both identity and workspace arrived in time.
	StateReady
	// StateForced means the timeout elapsed first. The gate unblocks anyway,
	// trading correctness for liveness when a dependency never resolves.
	StateForced
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateForced:
		return "forced"
	default:
		return "blocked"
	}
}

// Gate combines the asynchronous preconditions of a workspace view (identity
// available, workspace selected) with a timeout escape hatch into a single
// "ready to proceed" signal. Once ready or forced it never reverts.
type Gate struct {
	mu        sync.Mutex
	state     State
	identity  bool
	workspace bool
	closed    bool
	timer     *time.Timer
	done      chan State
}

// NewGate starts the timeout clock immediately.
func NewGate(timeout time.Duration) *Gate {
	g := &Gate{done: make(chan State, 1)}
	g.timer = time.AfterFunc(timeout, g.force)
	return g
}

// IdentityAvailable records that an authenticated identity arrived.
func (g *Gate) IdentityAvailable() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.identity = true
	g.tryUnblock()
}

// WorkspaceSelected records that the workspace resolved.
func (g *Gate) WorkspaceSelected() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.workspace = true
	g.tryUnblock()
}

func (g *Gate) tryUnblock() {
	if g.closed || g.state != StateBlocked {
		return
	}
	if g.identity && g.workspace {
		g.state = StateReady
		g.timer.Stop()
		g.done <- StateReady
	}
}

func (g *Gate) force() {
	g.mu.Lock()
	defer g.mu.Unlock()
	// A closed gate must not mutate state: the view is already torn down.
	if g.closed || g.state != StateBlocked {
		return
	}
	g.state = StateForced
	g.done <- StateForced
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Done delivers the terminal state exactly once.
func (g *Gate) Done() <-chan State {
	return g.done
}

// Close tears the gate down, clearing the pending timer so it cannot fire
// against a disposed view. Safe to call more than once.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	g.timer.Stop()
}
