package home

import (
	"math/rand"

	"github.com/homesim/home-monitoring-data-gen/bulk_data_gen/common"
)

// PassiveStyle selects the trigger behaviour of a passive sensor.
type PassiveStyle int

const (
	StyleMotion PassiveStyle = iota
	StyleDoor
)

func (s PassiveStyle) String() string {
	if s == StyleDoor {
		return "door"
	}
	return "motion"
}

// PassiveWindowMs is how often a passive sensor produces a decisive reading.
const PassiveWindowMs = 30_000

// Millivolt bands of a passive sensor reading.
const (
	LogicZeroMinMv = 0
	LogicZeroMaxMv = 1800
	DeadZoneMinMv  = 1801
	DeadZoneMaxMv  = 3099
	LogicOneMinMv  = 3100
	LogicOneMaxMv  = 4999
)

// IsDeadZone reports whether mv carries no new reading.
func IsDeadZone(mv int) bool {
	return mv >= DeadZoneMinMv && mv <= DeadZoneMaxMv
}

// IsTriggered reports whether mv is a logic one.
func IsTriggered(mv int) bool {
	return mv >= LogicOneMinMv
}

// PingsPerCycle is the number of ticks in one passive window at the given
// cycle length, at least one.
func PingsPerCycle(cycleLenMs int64) int {
	p := int(PassiveWindowMs / cycleLenMs)
	if p < 1 {
		return 1
	}
	return p
}

// PassiveSensor is a door contact or motion detector. One tick in every
// PingsPerCycle is decisive; the rest report the dead zone.
type PassiveSensor struct {
	PingsPerCycle int

	style PassiveStyle
	pings int
	rng   *rand.Rand
}

func NewPassiveSensor(rng *rand.Rand, pingsPerCycle int, style PassiveStyle) *PassiveSensor {
	if pingsPerCycle < 1 {
		pingsPerCycle = 1
	}
	return &PassiveSensor{PingsPerCycle: pingsPerCycle, style: style, rng: rng}
}

func (s *PassiveSensor) Kind() Kind {
	if s.style == StyleDoor {
		return KindDoor
	}
	return KindMotion
}

func (s *PassiveSensor) Clone() Sensor {
	c := *s
	return &c
}

func (s *PassiveSensor) Style() PassiveStyle {
	return s.style
}

// Sample returns millivolts; a logic one with probability kappa on the
// decisive tick.
func (s *PassiveSensor) Sample(kappa float64) int {
	s.pings++
	if s.pings < s.PingsPerCycle {
		return common.RandIntRange(s.rng, DeadZoneMinMv, DeadZoneMaxMv)
	}
	s.pings = 0
	if s.rng.Float64() < kappa {
		return common.RandIntRange(s.rng, LogicOneMinMv, LogicOneMaxMv)
	}
	return common.RandIntRange(s.rng, LogicZeroMinMv, LogicZeroMaxMv)
}
