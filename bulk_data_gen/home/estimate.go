package home

import (
	"time"

	"github.com/homesim/home-monitoring-data-gen/bulk_data_gen/common"
	"github.com/homesim/home-monitoring-data-gen/util/statemanager"
)

// DefaultEstimateSamples is the number of short runs timed by Estimate.
const DefaultEstimateSamples = 5

type EstimateOptions struct {
	// ForceBuild rebuilds the default sensors before and after timing.
	ForceBuild bool
	// Multiplier scales the extrapolated duration.
	Multiplier float64
	// Samples is the number of timed runs; run n lasts n cycles.
	Samples int
}

// Estimate is the extrapolated wall clock cost of a full run.
type Estimate struct {
	PerCycle   time.Duration
	Cycles     int64
	Multiplier float64
	Total      time.Duration
}

// Estimate times a few short runs that write nothing and extrapolates
// linearly to TotalCycles. The runs sample copies of the sensors; the
// simulated clock, buffers and state are restored afterwards.
func (s *HomeSimulator) Estimate(opts EstimateOptions) (*Estimate, error) {
	if !s.state.Built() && !opts.ForceBuild {
		return nil, ErrNotBuilt
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = common.DefaultMultiplier
	}
	if opts.Samples < 1 {
		opts.Samples = DefaultEstimateSamples
	}
	if opts.ForceBuild {
		if err := s.Build(true); err != nil {
			return nil, err
		}
	}

	elapsed, cycles, err := s.timeSamples(opts.Samples)
	if err != nil {
		return nil, err
	}
	if opts.ForceBuild {
		if err := s.Build(true); err != nil {
			return nil, err
		}
	}

	perCycle := elapsed / time.Duration(cycles)
	total := s.TotalCycles()
	est := &Estimate{
		PerCycle:   perCycle,
		Cycles:     total,
		Multiplier: opts.Multiplier,
		Total:      time.Duration(float64(elapsed) / float64(cycles) * float64(total) * opts.Multiplier),
	}
	s.logger.Info("estimated run time", "cycles", total, "per_cycle", perCycle, "total", est.Total)
	return est, nil
}

// timeSamples runs 1..n cycles on a copy of the registry without writing
// and leaves the simulator Built, also when a run fails.
func (s *HomeSimulator) timeSamples(n int) (elapsed time.Duration, cycles int64, err error) {
	registry := s.registry
	s.registry = registry.Clone()
	s.flusher.Prepare("", "")
	s.checkEvery = s.flushCadence()
	if err := s.state.Transition(statemanager.Running); err != nil {
		s.registry = registry
		return 0, 0, err
	}
	defer func() {
		s.registry = registry
		s.now = s.config.Start
		s.flusher.Prepare("", "")
		if terr := s.state.Transition(statemanager.Built); terr != nil && err == nil {
			err = terr
		}
	}()

	for i := 1; i <= n; i++ {
		s.now = s.config.Start
		began := time.Now()
		if err := s.run(int64(i)); err != nil {
			return 0, 0, err
		}
		elapsed += time.Since(began)
		cycles += int64(i)
	}
	return elapsed, cycles, nil
}
