package home

import (
	"testing"

	"github.com/homesim/home-monitoring-data-gen/bulk_data_gen/common"
	"github.com/stretchr/testify/require"
)

func TestSunlightState(t *testing.T) {
	cases := []struct {
		hour int
		east bool
		want Sunlight
	}{
		{8, true, SunlightDirect},
		{8, false, SunlightIndirect},
		{12, true, SunlightIndirect},
		{12, false, SunlightIndirect},
		{15, true, SunlightIndirect},
		{15, false, SunlightDirect},
		{18, true, SunlightNight},
		{23, false, SunlightNight},
	}
	for _, c := range cases {
		require.Equal(t, c.want, SunlightState(c.hour, c.east), "hour %d east %v", c.hour, c.east)
	}
}

func TestIsNight(t *testing.T) {
	for h := 0; h < 24; h++ {
		require.Equal(t, h < 6 || h >= 18, IsNight(h), "hour %d", h)
	}
}

func TestKappa(t *testing.T) {
	require.Equal(t, 24.0, KappaScale(StyleMotion, false))
	require.Equal(t, 6.0, KappaScale(StyleMotion, true))
	require.Equal(t, 4.0, KappaScale(StyleDoor, false))
	require.Equal(t, 1.0, KappaScale(StyleDoor, true))

	require.InDelta(t, 48.0/float64(common.MillisPerDay), Kappa(StyleMotion, false, 2), 1e-18)
	require.Zero(t, Kappa(StyleDoor, true, 0))
}
