package home

import (
	"testing"

	"github.com/homesim/home-monitoring-data-gen/util/statemanager"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestEstimateRequiresBuild(t *testing.T) {
	cfg := testConfig(1, 60_000)
	sim := cfg.ToSimulator()
	_, err := sim.Estimate(EstimateOptions{})
	require.Equal(t, ErrNotBuilt, errors.Cause(err))
}

func TestEstimate(t *testing.T) {
	cfg := testConfig(30, 60_000)
	sim := cfg.ToSimulator()
	th := &countingThermometer{}
	require.NoError(t, sim.Registry().Set("t9", th))
	require.NoError(t, sim.CustomBuild())

	est, err := sim.Estimate(EstimateOptions{Samples: 3, Multiplier: 1.5})
	require.NoError(t, err)
	require.Equal(t, sim.TotalCycles(), est.Cycles)
	require.Equal(t, 1.5, est.Multiplier)
	require.GreaterOrEqual(t, est.Total, est.PerCycle)
	require.Equal(t, 1+2+3, th.samples)

	require.Equal(t, statemanager.Built, sim.State())
	require.Equal(t, cfg.Start, sim.Now())
	s, ok := sim.Registry().Get("t9")
	require.True(t, ok)
	require.Same(t, th, s)
}

func TestEstimateForceBuild(t *testing.T) {
	cfg := testConfig(1, 60_000)
	sim := cfg.ToSimulator()
	est, err := sim.Estimate(EstimateOptions{ForceBuild: true})
	require.NoError(t, err)
	require.Equal(t, int64(1440), est.Cycles)
	require.Equal(t, 2.0, est.Multiplier)
	require.Equal(t, statemanager.Built, sim.State())
	require.Equal(t, 11, sim.Registry().Len())
}

func TestEstimateLeavesSensorsUntouched(t *testing.T) {
	cfg := testConfig(1, 15_000)
	sim := cfg.ToSimulator()
	require.NoError(t, sim.Build(false))
	registry := sim.Registry()

	get := func(id string) Sensor {
		s, ok := registry.Get(id)
		require.True(t, ok, id)
		return s
	}
	door := get("d1").(*PassiveSensor)
	therm := get("t1").(*TemperatureSensor)
	smoke := get("s1").(*SmokeDetector)
	prev, life := therm.Previous(), smoke.BatteryLife()

	_, err := sim.Estimate(EstimateOptions{Samples: 2})
	require.NoError(t, err)

	require.Same(t, registry, sim.Registry())
	require.Zero(t, door.pings)
	require.Equal(t, prev, therm.Previous())
	require.Zero(t, smoke.cycles)
	require.Equal(t, life, smoke.BatteryLife())

	// the real run starts from the built state
	require.Equal(t, statemanager.Built, sim.State())
	summary, err := sim.Start(RunOptions{})
	require.NoError(t, err)
	require.Equal(t, int64(5760), summary.Cycles)
	require.Equal(t, statemanager.Finished, sim.State())
}
