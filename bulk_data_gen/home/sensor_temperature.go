package home

import (
	"math"
	"math/rand"

	"github.com/homesim/home-monitoring-data-gen/bulk_data_gen/common"
)

const (
	StartTempF = 70.0
	// BadSensorValue is reported by a failed temperature read that is not NaN.
	BadSensorValue     = -999999.0
	MaxDegFChangePerMs = 1e-6
)

// IsFailure reports whether v is a temperature failure marker.
func IsFailure(v float64) bool {
	return math.IsNaN(v) || v == BadSensorValue
}

// TemperatureSensor walks randomly from its previous reading. Failed reads
// leave the walk untouched.
type TemperatureSensor struct {
	FailRate float64
	Bias     float64

	rng     *rand.Rand
	step    *common.UniformDistribution
	walk    *common.RandomWalkDistribution
	failure *common.TwoStateDistribution
}

// NewTemperatureSensor seeds the walk at startTemp shifted by bias for the
// sensor's current sunlight: +bias in direct light, -bias at night.
func NewTemperatureSensor(rng *rand.Rand, failRate, startTemp float64, sunlight Sunlight, bias float64) *TemperatureSensor {
	switch sunlight {
	case SunlightDirect:
		startTemp += bias
	case SunlightNight:
		startTemp -= bias
	}
	step := common.UD(rng, 0, 0)
	return &TemperatureSensor{
		FailRate: failRate,
		Bias:     bias,
		rng:      rng,
		step:     step,
		walk:     common.WD(step, startTemp),
		failure:  common.TSD(rng, math.NaN(), BadSensorValue, BadSensorValue),
	}
}

func (s *TemperatureSensor) Kind() Kind {
	return KindTemperature
}

func (s *TemperatureSensor) Clone() Sensor {
	c := *s
	step := *s.step
	failure := *s.failure
	c.step = &step
	c.walk = common.WD(c.step, s.walk.State)
	c.failure = &failure
	return &c
}

// Previous is the last successful reading.
func (s *TemperatureSensor) Previous() float64 {
	return s.walk.Get()
}

func (s *TemperatureSensor) Sample(deltaMs int64) float64 {
	if s.rng.Float64() < s.FailRate {
		s.failure.Advance()
		return s.failure.Get()
	}
	maxChange := float64(deltaMs) * MaxDegFChangePerMs
	s.step.Low, s.step.High = -maxChange, maxChange
	s.walk.Advance()
	return s.walk.Get()
}

// DayCycle warms the sensor at sunrise.
func (s *TemperatureSensor) DayCycle() {
	s.walk.State += s.Bias
}

// NightCycle cools the sensor at sunset.
func (s *TemperatureSensor) NightCycle() {
	s.walk.State -= s.Bias
}
