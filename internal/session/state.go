package session

import (
	"errors"
	"fmt"
)

// State is the display mode of a lookup session.
type State string

const (
	Idle    State = "idle"
	Loading State = "loading"
	Success State = "success"
	Error   State = "error"
)

type Event string

const (
	EventSearch    Event = "search"
	EventLocate    Event = "locate"
	EventRetry     Event = "retry"
	EventSucceeded Event = "succeeded"
	EventFailed    Event = "failed"
	EventReset     Event = "reset"
)

var ErrInvalidTransition = errors.New("invalid state transition")

// Transition returns the state reached from from on ev. A request is only
// accepted while no other request is outstanding.
func Transition(from State, ev Event) (State, error) {
	switch ev {
	case EventSearch, EventLocate, EventRetry:
		if from != Loading {
			return Loading, nil
		}
	case EventSucceeded:
		if from == Loading {
			return Success, nil
		}
	case EventFailed:
		if from == Loading {
			return Error, nil
		}
	case EventReset:
		if from != Loading {
			return Idle, nil
		}
	}

	return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, from, ev)
}
