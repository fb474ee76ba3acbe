package common

import (
	"math/rand"
	"time"
)

// Distribution provides an interface to model a statistical distribution.
type Distribution interface {
	Advance()
	Get() float64 // should be idempotent
}

// NewRand returns an unsynchronized random source. A zero seed uses the
// current timestamp, the same way the command line tools do.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// NormalDistribution models a normal distribution.
type NormalDistribution struct {
	Mean   float64
	StdDev float64

	rng   *rand.Rand
	value float64
}

func ND(rng *rand.Rand, mean, stddev float64) *NormalDistribution {
	return &NormalDistribution{Mean: mean, StdDev: stddev, rng: rng}
}

// Advance advances this distribution. Since a normal distribution is
// stateless, this is just overwrites the internal cache value.
func (d *NormalDistribution) Advance() {
	d.value = d.rng.NormFloat64()*d.StdDev + d.Mean
}

// Get returns the last computed value for this distribution.
func (d *NormalDistribution) Get() float64 {
	return d.value
}

// UniformDistribution models a uniform distribution over [Low, High).
type UniformDistribution struct {
	Low  float64
	High float64

	rng   *rand.Rand
	value float64
}

func UD(rng *rand.Rand, low, high float64) *UniformDistribution {
	return &UniformDistribution{Low: low, High: high, rng: rng}
}

// Advance advances this distribution. Since a uniform distribution is
// stateless, this is just overwrites the internal cache value.
func (d *UniformDistribution) Advance() {
	x := d.rng.Float64() // uniform
	x *= d.High - d.Low
	x += d.Low
	d.value = x
}

// Get computes and returns the next value in the distribution.
func (d *UniformDistribution) Get() float64 {
	return d.value
}

// RandomWalkDistribution is a stateful random walk. Initialize it with an
// underlying distribution, which is used to compute the new step value.
type RandomWalkDistribution struct {
	Step Distribution

	State float64 // optional
}

func WD(step Distribution, state float64) *RandomWalkDistribution {
	return &RandomWalkDistribution{Step: step, State: state}
}

// Advance computes the next value of this distribution and stores it.
func (d *RandomWalkDistribution) Advance() {
	d.Step.Advance()
	d.State += d.Step.Get()
}

// Get returns the last computed value for this distribution.
func (d *RandomWalkDistribution) Get() float64 {
	return d.State
}

// FlooredDistribution clamps an underlying distribution from below.
type FlooredDistribution struct {
	Source Distribution
	Min    float64
}

func FD(source Distribution, min float64) *FlooredDistribution {
	return &FlooredDistribution{Source: source, Min: min}
}

func (d *FlooredDistribution) Advance() {
	d.Source.Advance()
}

func (d *FlooredDistribution) Get() float64 {
	if v := d.Source.Get(); v > d.Min {
		return v
	}
	return d.Min
}

//TwoStateDistribution randomly chooses state from two values
type TwoStateDistribution struct {
	Low   float64
	High  float64
	State float64

	rng *rand.Rand
}

func (d *TwoStateDistribution) Advance() {
	d.State = d.Low
	if d.rng.Float64() >= 0.5 {
		d.State = d.High
	}
}

func (d *TwoStateDistribution) Get() float64 {
	return d.State
}

func TSD(rng *rand.Rand, low float64, high float64, state float64) *TwoStateDistribution {
	return &TwoStateDistribution{Low: low, High: high, State: state, rng: rng}
}

// RandIntRange returns a uniform integer in [low, high].
func RandIntRange(rng *rand.Rand, low, high int) int {
	if high <= low {
		return low
	}
	return low + rng.Intn(high-low+1)
}
