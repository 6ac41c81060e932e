package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	cases := []struct {
		from State
		ev   Event
		want State
		ok   bool
	}{
		{Idle, EventSearch, Loading, true},
		{Idle, EventLocate, Loading, true},
		{Success, EventSearch, Loading, true},
		{Error, EventRetry, Loading, true},
		{Loading, EventSucceeded, Success, true},
		{Loading, EventFailed, Error, true},
		{Error, EventReset, Idle, true},
		{Success, EventReset, Idle, true},

		{Loading, EventSearch, Loading, false},
		{Loading, EventLocate, Loading, false},
		{Loading, EventRetry, Loading, false},
		{Loading, EventReset, Loading, false},
		{Idle, EventSucceeded, Idle, false},
		{Success, EventFailed, Success, false},
		{Idle, Event("teleport"), Idle, false},
	}

	for _, tc := range cases {
		got, err := Transition(tc.from, tc.ev)
		assert.Equal(t, tc.want, got, "%s on %s", tc.from, tc.ev)
		if tc.ok {
			assert.NoError(t, err, "%s on %s", tc.from, tc.ev)
		} else {
			assert.True(t, errors.Is(err, ErrInvalidTransition), "%s on %s", tc.from, tc.ev)
		}
	}
}
