package home

import "github.com/homesim/home-monitoring-data-gen/bulk_data_gen/common"

const (
	SunriseHour = 6
	NoonHour    = 12
	SunsetHour  = 18
)

// Sunlight is the exposure of a sensor to the sun.
type Sunlight int

const (
	SunlightDirect Sunlight = iota
	SunlightIndirect
	SunlightNight
)

func (s Sunlight) String() string {
	switch s {
	case SunlightDirect:
		return "direct"
	case SunlightIndirect:
		return "indirect"
	default:
		return "night"
	}
}

// SunlightState maps the hour of day and a sensor orientation to its
// exposure. Before noon the sun is east, after noon west; the sensor on the
// sun's side is in direct light.
func SunlightState(hour int, east bool) Sunlight {
	switch {
	case hour >= SunsetHour:
		return SunlightNight
	case hour == NoonHour:
		return SunlightIndirect
	}
	sunEast := hour < NoonHour
	if east == sunEast {
		return SunlightDirect
	}
	return SunlightIndirect
}

// IsNight reports whether hour falls between sunset and sunrise.
func IsNight(hour int) bool {
	return hour >= SunsetHour || hour < SunriseHour
}

// KappaScale is the expected number of triggers per occupant per day.
func KappaScale(style PassiveStyle, sundown bool) float64 {
	switch {
	case style == StyleMotion && !sundown:
		return 24.0
	case style == StyleMotion && sundown:
		return 6.0
	case style == StyleDoor && !sundown:
		return 4.0
	default:
		return 1.0
	}
}

// Kappa is the trigger probability per tick of a passive sensor.
func Kappa(style PassiveStyle, sundown bool, occupants int) float64 {
	return float64(occupants) * KappaScale(style, sundown) / float64(common.MillisPerDay)
}
