// Package statemanager tracks the lifecycle of a simulator run.
package statemanager

import (
	"fmt"

	"github.com/pkg/errors"
)

type State int

const (
	Unbuilt State = iota
	Built
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "UNBUILT"
	case Built:
		return "BUILT"
	case Running:
		return "RUNNING"
	case Finished:
		return "FINISHED"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var ErrTransition = errors.New("illegal state transition")

var transitions = map[State][]State{
	Unbuilt:  {Built},
	Built:    {Built, Running},
	Running:  {Built, Finished},
	Finished: {Built, Running},
}

// Manager holds the state of one simulator. It is not safe for concurrent use.
type Manager struct {
	state State
}

func New() *Manager {
	return &Manager{state: Unbuilt}
}

func (m *Manager) State() State {
	return m.state
}

// Built reports whether the sensors were ever built.
func (m *Manager) Built() bool {
	return m.state != Unbuilt
}

// Transition moves to the given state, refusing moves the lifecycle does
// not allow.
func (m *Manager) Transition(to State) error {
	for _, s := range transitions[m.state] {
		if s == to {
			m.state = to
			return nil
		}
	}
	return errors.Wrapf(ErrTransition, "%s -> %s", m.state, to)
}
