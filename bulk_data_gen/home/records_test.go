package home

import (
	"testing"
	"time"

	"github.com/homesim/home-monitoring-data-gen/bulk_data_gen/common"
	"github.com/stretchr/testify/require"
)

var recordTime = time.Date(2024, 6, 15, 1, 2, 3, 0, time.UTC)

func TestEncodeTemperaturePackets(t *testing.T) {
	tbl := common.NewTable(TempColumns...)
	encodeTemperature(tbl, recordTime, "t2", 71.5, true)
	require.Equal(t, TempPackets, tbl.Len())

	var payloads []string
	for row, id := range []string{"T2P00", "T2P01", "T2P10", "T2P11"} {
		require.Equal(t, "2024-06-15", tbl.String(row, 0))
		require.Equal(t, "01:02:03.000000", tbl.String(row, 1))
		require.Equal(t, "T2", tbl.String(row, 2))
		require.Equal(t, id, tbl.String(row, 3))
		require.Len(t, tbl.String(row, 4), 4)
		payloads = append(payloads, tbl.String(row, 4))
	}
	v, err := DecodeTempPackets(payloads)
	require.NoError(t, err)
	require.Equal(t, float32(71.5), v)

	_, err = DecodeTempPackets(payloads[:3])
	require.Error(t, err)
}

func TestEncodeTemperatureSingle(t *testing.T) {
	tbl := common.NewTable(TempColumns...)
	encodeTemperature(tbl, recordTime, "t1", 71.25, false)
	encodeTemperature(tbl, recordTime, "t1", BadSensorValue, false)
	require.Equal(t, 2, tbl.Len())
	require.Equal(t, "T1P00", tbl.String(0, 3))
	require.Equal(t, "71.25", tbl.String(0, 4))
	require.Equal(t, "-999999", tbl.String(1, 4))
}

func TestPassiveStamp(t *testing.T) {
	require.Equal(t, "2024167-03723", PassiveStamp(recordTime))

	tbl := common.NewTable(PassiveColumns...)
	encodePassive(tbl, recordTime, "m1", 3300)
	require.Equal(t, "M1", tbl.String(0, 1))
	require.Equal(t, int64(3300), tbl.Int64(0, 2))
}

func TestEncodeAirRecords(t *testing.T) {
	b := common.NewTextBuffer()
	encodeHumidity(b, recordTime, 45.125)
	encodeCO2(b, 45)
	encodeCO2(b, 612)
	require.Equal(t, "2024Jun1501020345.125%045ppm612ppm", b.String())
	require.Equal(t, 3, b.Len())
}

func TestEncodeSmoke(t *testing.T) {
	b := common.NewBinaryBuffer()
	encodeSmoke(b, recordTime, SmokeStatus{})
	require.Zero(t, b.Len())
	encodeSmoke(b, recordTime, SmokeStatus{Smoke: true, BatteryDead: true})
	require.Equal(t, 2, b.Len())
	data := b.Bytes()
	require.Equal(t, common.EventBatteryDead, data[common.SmokeRecordSize-1])
	require.Equal(t, common.EventSmoke, data[2*common.SmokeRecordSize-1])
}
