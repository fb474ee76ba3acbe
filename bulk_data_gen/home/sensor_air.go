package home

import (
	"math"
	"math/rand"

	"github.com/homesim/home-monitoring-data-gen/bulk_data_gen/common"
)

const (
	CO2CycleDelay      = 150
	HumidityCycleDelay = 100

	CO2MeanPpm     = 400.0
	CO2StdDevPpm   = 50.0
	CO2PerOccupant = 100
	HumidityMean   = 45.0
	HumidityStdDev = 5.0

	// CO2NoReading and HumidityNoReading flag cycles without a reading.
	CO2NoReading      = 99999
	HumidityNoReading = 999.999
)

// CO2Sensor reads every Delay cycles: a floored normal draw plus up to
// CO2PerOccupant ppm for each occupant.
type CO2Sensor struct {
	Delay     int64
	Occupants int

	rng   *rand.Rand
	level common.Distribution
}

func NewCO2Sensor(rng *rand.Rand, delay int64, occupants int, mean, stddev float64) *CO2Sensor {
	if delay < 1 {
		delay = 1
	}
	return &CO2Sensor{
		Delay:     delay,
		Occupants: occupants,
		rng:       rng,
		level:     common.FD(common.ND(rng, mean, stddev), 0),
	}
}

func (s *CO2Sensor) Kind() Kind {
	return KindCO2
}

// Clone copies the sensor. The level distribution holds no state between
// readings and is shared.
func (s *CO2Sensor) Clone() Sensor {
	c := *s
	return &c
}

func (s *CO2Sensor) Sample(cycle int64) int {
	if cycle%s.Delay != 0 {
		return CO2NoReading
	}
	s.level.Advance()
	shift := s.rng.Intn(s.Occupants+1) * CO2PerOccupant
	return int(math.Floor(s.level.Get())) + shift
}

// HumiditySensor reads a floored normal percentage every Delay cycles.
type HumiditySensor struct {
	Delay int64

	level common.Distribution
}

func NewHumiditySensor(rng *rand.Rand, delay int64, mean, stddev float64) *HumiditySensor {
	if delay < 1 {
		delay = 1
	}
	return &HumiditySensor{
		Delay: delay,
		level: common.FD(common.ND(rng, mean, stddev), 0),
	}
}

func (s *HumiditySensor) Kind() Kind {
	return KindHumidity
}

func (s *HumiditySensor) Clone() Sensor {
	c := *s
	return &c
}

func (s *HumiditySensor) Sample(cycle int64) float64 {
	if cycle%s.Delay != 0 {
		return HumidityNoReading
	}
	s.level.Advance()
	return s.level.Get()
}
