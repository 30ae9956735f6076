package entity

// LoadPhase is the lifecycle of one asynchronous unit (workspace load,
// session load, readiness).
type LoadPhase string

const (
	LoadPhaseLoading  LoadPhase = "loading"
	LoadPhaseReady    LoadPhase = "ready"
	LoadPhaseError    LoadPhase = "error"
	LoadPhaseTimedOut LoadPhase = "timedOut"
)

// LoadState tracks a single asynchronous unit. Transitions only move forward,
// with one exception: error may return to loading on a manual retry.
type LoadState struct {
	Phase  LoadPhase
	Reason string
}

func NewLoadState() LoadState {
	return LoadState{Phase: LoadPhaseLoading}
}

// To attempts a transition and reports whether it was legal. Illegal
// transitions leave the state untouched.
func (s *LoadState) To(next LoadPhase, reason string) bool {
	switch s.Phase {
	case LoadPhaseLoading:
		if next == LoadPhaseReady || next == LoadPhaseError || next == LoadPhaseTimedOut {
			s.Phase = next
			s.Reason = reason
			return true
		}
	case LoadPhaseError:
		if next == LoadPhaseLoading {
			s.Phase = next
			s.Reason = ""
			return true
		}
	}
	return false
}
