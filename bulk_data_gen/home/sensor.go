package home

import (
	"fmt"
	"strings"
)

// Kind identifies the sensor model behind a registry entry.
type Kind int

const (
	KindUnknown Kind = iota
	KindTemperature
	KindDoor
	KindMotion
	KindHumidity
	KindCO2
	KindSmoke
)

var kindPrefixes = map[Kind]string{
	KindTemperature: "t",
	KindDoor:        "d",
	KindMotion:      "m",
	KindHumidity:    "h",
	KindCO2:         "c",
	KindSmoke:       "s",
}

var kindNames = map[Kind]string{
	KindUnknown:     "unknown",
	KindTemperature: "temperature",
	KindDoor:        "door",
	KindMotion:      "motion",
	KindHumidity:    "humidity",
	KindCO2:         "co2",
	KindSmoke:       "smoke",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Prefix is the sensor id prefix reserved for the kind.
func (k Kind) Prefix() string {
	return kindPrefixes[k]
}

// KindOf returns the kind encoded in a sensor id prefix.
func KindOf(id string) Kind {
	id = strings.ToLower(id)
	for k, p := range kindPrefixes {
		if strings.HasPrefix(id, p) {
			return k
		}
	}
	return KindUnknown
}

// SensorId builds the id of the n-th (1-based) sensor of a kind.
func SensorId(k Kind, n int) string {
	return fmt.Sprintf("%s%d", k.Prefix(), n)
}

// Sensor is implemented by every sensor model.
type Sensor interface {
	Kind() Kind
}

// Cloner is implemented by sensors that can copy their state. The copy
// shares the random source of the original.
type Cloner interface {
	Clone() Sensor
}

// Thermometer is a temperature sensor.
type Thermometer interface {
	Sensor
	// Sample returns the reading after deltaMs milliseconds, or a failure marker.
	Sample(deltaMs int64) float64
	DayCycle()
	NightCycle()
}

// PassiveSampler is a door or motion sensor reporting millivolts.
type PassiveSampler interface {
	Sensor
	Style() PassiveStyle
	Sample(kappa float64) int
}

// CO2Sampler reports ppm, or CO2NoReading on cycles without a reading.
type CO2Sampler interface {
	Sensor
	Sample(cycle int64) int
}

// HumiditySampler reports percent, or HumidityNoReading on cycles without a reading.
type HumiditySampler interface {
	Sensor
	Sample(cycle int64) float64
}

// SmokeSampler is a smoke detector.
type SmokeSampler interface {
	Sensor
	Sample() SmokeStatus
}

// implements reports whether s provides the operations of kind k.
func implements(k Kind, s Sensor) bool {
	var ok bool
	switch k {
	case KindTemperature:
		_, ok = s.(Thermometer)
	case KindDoor, KindMotion:
		_, ok = s.(PassiveSampler)
	case KindHumidity:
		_, ok = s.(HumiditySampler)
	case KindCO2:
		_, ok = s.(CO2Sampler)
	case KindSmoke:
		_, ok = s.(SmokeSampler)
	}
	return ok
}
