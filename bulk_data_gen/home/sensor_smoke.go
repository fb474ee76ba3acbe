package home

import (
	"math/rand"

	"github.com/homesim/home-monitoring-data-gen/bulk_data_gen/common"
)

// SmokeStatus is the outcome of one smoke detector tick.
type SmokeStatus struct {
	Smoke       bool
	BatteryDead bool
}

type SmokeDetectorParams struct {
	// ChancePerMs is the probability of smoke per simulated millisecond.
	ChancePerMs     float64
	BatteryLifeMs   int64
	BatteryJitterMs int64
}

func DefaultSmokeDetectorParams() SmokeDetectorParams {
	return SmokeDetectorParams{
		ChancePerMs:     1.0 / (10 * float64(common.MillisPerYear)),
		BatteryLifeMs:   common.MillisPerYear,
		BatteryJitterMs: 30 * common.MillisPerDay,
	}
}

// SmokeDetector reports smoke with a fixed chance per tick and a dead
// battery once every battery life, measured in ticks.
type SmokeDetector struct {
	// SmokeChance is the probability of smoke per tick.
	SmokeChance float64

	params      SmokeDetectorParams
	cycleLenMs  int64
	cycles      int64
	batteryLife int64
	rng         *rand.Rand
}

func NewSmokeDetector(rng *rand.Rand, cycleLenMs int64, params SmokeDetectorParams) *SmokeDetector {
	d := &SmokeDetector{
		SmokeChance: params.ChancePerMs * float64(cycleLenMs),
		params:      params,
		cycleLenMs:  cycleLenMs,
		rng:         rng,
	}
	d.batteryLife = d.drawBatteryLife()
	return d
}

func (d *SmokeDetector) drawBatteryLife() int64 {
	life := d.params.BatteryLifeMs / d.cycleLenMs
	if jitter := d.params.BatteryJitterMs / d.cycleLenMs; jitter > 0 {
		life += d.rng.Int63n(jitter)
	}
	if life < 1 {
		life = 1
	}
	return life
}

func (d *SmokeDetector) Kind() Kind {
	return KindSmoke
}

func (d *SmokeDetector) Clone() Sensor {
	c := *d
	return &c
}

// BatteryLife is the current battery threshold, in ticks.
func (d *SmokeDetector) BatteryLife() int64 {
	return d.batteryLife
}

func (d *SmokeDetector) Sample() SmokeStatus {
	d.cycles++
	status := SmokeStatus{Smoke: d.rng.Float64() < d.SmokeChance}
	if d.cycles >= d.batteryLife {
		status.BatteryDead = true
		d.batteryLife = d.drawBatteryLife()
		d.cycles = 0
	}
	return status
}
