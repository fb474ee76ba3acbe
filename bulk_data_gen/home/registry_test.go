package home

import (
	"testing"

	"github.com/homesim/home-monitoring-data-gen/bulk_data_gen/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRegistryKindMismatch(t *testing.T) {
	rng := common.NewRand(1)
	r := NewRegistry()

	err := r.Set("t1", NewPassiveSensor(rng, 1, StyleDoor))
	require.Equal(t, ErrKindMismatch, errors.Cause(err))
	err = r.Set("d1", NewPassiveSensor(rng, 1, StyleMotion))
	require.Equal(t, ErrKindMismatch, errors.Cause(err))
	err = r.Set("x1", NewPassiveSensor(rng, 1, StyleMotion))
	require.Equal(t, ErrKindMismatch, errors.Cause(err))
	err = r.Set("s1", nil)
	require.Equal(t, ErrKindMismatch, errors.Cause(err))
	require.Zero(t, r.Len())
}

func TestRegistryOrder(t *testing.T) {
	rng := common.NewRand(1)
	r := NewRegistry()
	require.NoError(t, r.Set("t1", NewTemperatureSensor(rng, 0, StartTempF, SunlightNight, 2)))
	require.NoError(t, r.Set("d1", NewPassiveSensor(rng, 1, StyleDoor)))
	require.NoError(t, r.Set("c1", NewCO2Sensor(rng, 1, 2, 400, 50)))

	replacement := NewTemperatureSensor(rng, 0, StartTempF, SunlightDirect, 2)
	require.NoError(t, r.Set("t1", replacement))
	require.Equal(t, 3, r.Len())
	require.Equal(t, "t1", r.Entries()[0].Id)
	s, ok := r.Get("t1")
	require.True(t, ok)
	require.Same(t, replacement, s)

	require.True(t, r.Remove("d1"))
	require.False(t, r.Remove("d1"))
	require.Equal(t, []string{"t1", "c1"}, []string{r.Entries()[0].Id, r.Entries()[1].Id})
	_, ok = r.Get("c1")
	require.True(t, ok)
	require.Equal(t, 1, r.Count(KindCO2))
	require.Zero(t, r.Count(KindDoor))
}

func TestRegistryClone(t *testing.T) {
	rng := common.NewRand(1)
	r := NewRegistry()
	therm := NewTemperatureSensor(rng, 0, StartTempF, SunlightIndirect, 2)
	door := NewPassiveSensor(rng, 3, StyleDoor)
	custom := &countingThermometer{}
	require.NoError(t, r.Set("t1", therm))
	require.NoError(t, r.Set("d1", door))
	require.NoError(t, r.Set("t2", custom))

	c := r.Clone()
	require.Equal(t, 3, c.Len())
	for i, e := range c.Entries() {
		require.Equal(t, r.Entries()[i].Id, e.Id)
		require.Equal(t, r.Entries()[i].Kind, e.Kind)
	}

	s, _ := c.Get("t1")
	cloned := s.(*TemperatureSensor)
	require.NotSame(t, therm, cloned)
	cloned.Sample(1000)
	cloned.DayCycle()
	require.Equal(t, StartTempF, therm.Previous())

	s, _ = c.Get("d1")
	s.(*PassiveSensor).Sample(0)
	require.Zero(t, door.pings)

	// sensors without Clone are shared
	s, _ = c.Get("t2")
	require.Same(t, custom, s)

	require.True(t, c.Remove("d1"))
	require.Equal(t, 3, r.Len())
}
