package common

import "time"

const (
	DefaultStartDate  = "2024-06-15"
	DefaultDays       = 365
	DefaultOccupants  = 2
	DefaultCycleLenMs = 500
	DefaultTempBias   = 2.0
	DefaultFailRate   = 0.001
	DefaultMultiplier = 2.0
)

const (
	// MillisPerDay is the number of simulated ticks in a day; a tick is a millisecond.
	MillisPerDay  = int64(24 * time.Hour / time.Millisecond)
	YearLenDays   = 365.25
	MillisPerYear = int64(YearLenDays * float64(MillisPerDay))
)

// Default in-memory size limits, in bytes, before a buffer is written out.
const (
	MaxTableSize  = 100_000_000
	MaxStringSize = 10_000_000
	MaxArraySize  = 10_000_000
)

// DataLimits holds the flush threshold of every output stream, in bytes.
type DataLimits struct {
	TempBytes    int64 `toml:"temp_bytes" yaml:"temp_bytes"`
	PassiveBytes int64 `toml:"passive_bytes" yaml:"passive_bytes"`
	TextBytes    int64 `toml:"text_bytes" yaml:"text_bytes"`
	BinaryBytes  int64 `toml:"binary_bytes" yaml:"binary_bytes"`
}

func DefaultDataLimits() DataLimits {
	return DataLimits{
		TempBytes:    MaxTableSize,
		PassiveBytes: MaxTableSize,
		TextBytes:    MaxStringSize,
		BinaryBytes:  MaxArraySize,
	}
}

// Min returns the smallest configured limit.
func (l DataLimits) Min() int64 {
	m := l.TempBytes
	for _, v := range []int64{l.PassiveBytes, l.TextBytes, l.BinaryBytes} {
		if v < m {
			m = v
		}
	}
	return m
}

// WithDefaults replaces non-positive limits with the defaults.
func (l DataLimits) WithDefaults() DataLimits {
	d := DefaultDataLimits()
	if l.TempBytes <= 0 {
		l.TempBytes = d.TempBytes
	}
	if l.PassiveBytes <= 0 {
		l.PassiveBytes = d.PassiveBytes
	}
	if l.TextBytes <= 0 {
		l.TextBytes = d.TextBytes
	}
	if l.BinaryBytes <= 0 {
		l.BinaryBytes = d.BinaryBytes
	}
	return l
}
