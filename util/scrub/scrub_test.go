package scrub

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositiveInt(t *testing.T) {
	v, ok := PositiveInt(7, 1, 500)
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	v, ok = PositiveInt(0, 1, 500)
	assert.False(t, ok)
	assert.Equal(t, 500, v)

	v, ok = PositiveInt(0, 0, 2)
	assert.True(t, ok)
	assert.Equal(t, 0, v)
}

func TestProportion(t *testing.T) {
	for _, x := range []float64{0, 0.5, 0.999} {
		v, ok := Proportion(x, 0.1)
		assert.True(t, ok, "%v", x)
		assert.Equal(t, x, v)
	}
	for _, x := range []float64{-0.1, 1, 3, math.NaN()} {
		v, ok := Proportion(x, 0.1)
		assert.False(t, ok, "%v", x)
		assert.Equal(t, 0.1, v)
	}
}

func TestTempF(t *testing.T) {
	v, ok := TempF(250, 2)
	assert.True(t, ok)
	assert.Equal(t, 250.0, v)

	v, ok = TempF(-100.5, 2)
	assert.False(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestDate(t *testing.T) {
	d, err := Date("2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = Date("2023-04-11T09:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 4, 11, 9, 0, 0, 0, time.UTC), d)

	_, err = Date("yesterday")
	assert.Error(t, err)

	d, ok := DateOr("not a date", "1900-01-01")
	assert.False(t, ok)
	assert.Equal(t, 1900, d.Year())
}
