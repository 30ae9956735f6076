package readiness

import (
	"testing"
	"time"
)

func TestGateReadyWhenBothInputsArrive(t *testing.T) {
	gate := NewGate(1 * time.Second)
	defer gate.Close()

	gate.IdentityAvailable()
	if gate.State() != StateBlocked {
		t.Fatalf("state after identity only = %v, want blocked", gate.State())
	}

	gate.WorkspaceSelected()

	select {
	case state := <-gate.Done():
		if state != StateReady {
			t.Errorf("terminal state = %v, want ready", state)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("gate never signalled")
	}
}

func TestGateForcedWhenWorkspaceNeverResolves(t *testing.T) {
	gate := NewGate(20 * time.Millisecond)
	defer gate.Close()

	// Identity arrives at t=0, workspace never does.
	gate.IdentityAvailable()

	select {
	case state := <-gate.Done():
		if state != StateForced {
			t.Errorf("terminal state = %v, want forced", state)
		}
	case <-time.After(time.Second):
		t.Fatal("gate never forced")
	}
}

func TestGateNeverForcedAfterReady(t *testing.T) {
	gate := NewGate(20 * time.Millisecond)
	defer gate.Close()

	gate.IdentityAvailable()
	gate.WorkspaceSelected()
	<-gate.Done()

	// Let the timer window pass, then confirm the state did not revert.
	time.Sleep(40 * time.Millisecond)
	if gate.State() != StateReady {
		t.Errorf("state after timeout window = %v, want ready", gate.State())
	}
}

func TestGateNeverRevertsOnceUnblocked(t *testing.T) {
	gate := NewGate(10 * time.Millisecond)
	defer gate.Close()

	<-gate.Done()
	if gate.State() != StateForced {
		t.Fatalf("state = %v, want forced", gate.State())
	}

	// Late-arriving inputs must not move a forced gate.
	gate.IdentityAvailable()
	gate.WorkspaceSelected()
	if gate.State() != StateForced {
		t.Errorf("state after late inputs = %v, want forced", gate.State())
	}
}

func TestGateClosedBeforeTimeoutDoesNotFire(t *testing.T) {
	gate := NewGate(10 * time.Millisecond)
	gate.Close()

	time.Sleep(30 * time.Millisecond)
	if gate.State() != StateBlocked {
		t.Errorf("state after close = %v, want blocked (no mutation after teardown)", gate.State())
	}
	select {
	case state := <-gate.Done():
		t.Errorf("closed gate signalled %v", state)
	default:
	}
}
