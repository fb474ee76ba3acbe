package statemanager

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestLifecycle(t *testing.T) {
	m := New()
	require.Equal(t, Unbuilt, m.State())
	require.False(t, m.Built())

	for _, to := range []State{Built, Running, Finished, Running, Finished, Built} {
		require.NoError(t, m.Transition(to))
		require.Equal(t, to, m.State())
	}
	require.True(t, m.Built())
}

func TestIllegalTransition(t *testing.T) {
	m := New()
	err := m.Transition(Running)
	require.Error(t, err)
	require.Equal(t, ErrTransition, errors.Cause(err))
	require.Equal(t, Unbuilt, m.State())

	require.NoError(t, m.Transition(Built))
	require.Error(t, m.Transition(Finished))
	require.Equal(t, "BUILT", m.State().String())
}
