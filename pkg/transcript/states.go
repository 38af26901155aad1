package transcript

import (
	"errors"
	"fmt"
)

// State enumerates the acquisition state machine. The machine advances through
// these explicitly rather than through nested conditionals; every transition
// failure is soft and lands in StateSkipped.
type State int

const (
	StateStart State = iota
	StateConsentChecked
	StateMenuCascade
	StateAwaitingMenu
	StateTranscriptOption
	StatePanelReady
	StateExtracted
	StateSkipped
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateConsentChecked:
		return "consent checked"
	case StateMenuCascade:
		return "menu cascade"
	case StateAwaitingMenu:
		return "awaiting menu"
	case StateTranscriptOption:
		return "transcript option located"
	case StatePanelReady:
		return "panel ready"
	case StateExtracted:
		return "extracted"
	case StateSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrSkipped marks a candidate that could not be carried to extraction. It is
// always soft: the caller logs it and moves to the next candidate.
var ErrSkipped = errors.New("candidate skipped")

// SkipError records where in the state machine a candidate was abandoned.
type SkipError struct {
	State  State
	Reason string
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("candidate skipped at %s: %s", e.State, e.Reason)
}

func (e *SkipError) Unwrap() error { return ErrSkipped }

func skip(state State, format string, args ...any) error {
	return &SkipError{State: state, Reason: fmt.Sprintf(format, args...)}
}
