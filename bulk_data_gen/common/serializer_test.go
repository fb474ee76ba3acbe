package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTableRoundTrip(t *testing.T) {
	tbl := NewTable(Column{Name: "datetime", Kind: StringColumn}, Column{Name: "voltage", Kind: Int64Column})
	tbl.AppendRow("2024167-00001", 3200)
	tbl.AppendRow("2024167-00002", int64(12))
	require.Equal(t, 2, tbl.Len())
	require.Equal(t, int64(2*13+2*8), tbl.Size())

	path := filepath.Join(t.TempDir(), "t.parquet")
	require.NoError(t, WriteBufferFile(path, tbl))

	got, err := ReadTableFile(path)
	require.NoError(t, err)
	require.Equal(t, tbl.Columns, got.Columns)
	require.Equal(t, 2, got.Len())
	require.Equal(t, "2024167-00002", got.String(1, 0))
	require.Equal(t, int64(3200), got.Int64(0, 1))

	tbl.Reset()
	require.Equal(t, 0, tbl.Len())
	require.Equal(t, int64(0), tbl.Size())
}

func TestTableAppendRowPanicsOnMismatch(t *testing.T) {
	tbl := NewTable(Column{Name: "voltage", Kind: Int64Column})
	require.Panics(t, func() { tbl.AppendRow(1, 2) })
	require.Panics(t, func() { tbl.AppendRow("x") })
}

func TestTextRoundTrip(t *testing.T) {
	buf := NewTextBuffer()
	buf.Append("2024Jun15000000045.125%")
	buf.Append("412ppm")
	require.Equal(t, 2, buf.Len())
	require.Equal(t, int64(29), buf.Size())

	path := filepath.Join(t.TempDir(), "t.pkl")
	require.NoError(t, WriteBufferFile(path, buf))
	got, err := ReadTextFile(path)
	require.NoError(t, err)
	require.Equal(t, "2024Jun15000000045.125%412ppm", got)
}

func TestSmokeRecordLayout(t *testing.T) {
	ts := time.Date(2024, 6, 15, 13, 45, 10, 0, time.UTC)
	buf := NewBinaryBuffer()
	buf.AppendSmoke(NewSmokeRecord(ts, EventBatteryDead))
	buf.AppendSmoke(NewSmokeRecord(ts, EventSmoke))

	require.Equal(t, int64(2*SmokeRecordSize), buf.Size())
	b := buf.Bytes()
	require.Equal(t, []byte{0xe8, 0x07, 0, 0, 0, 0, 0, 0, 6, 15, 13, 45, 'B'}, b[:SmokeRecordSize])

	path := filepath.Join(t.TempDir(), "s.byte")
	require.NoError(t, WriteBufferFile(path, buf))
	records, err := ReadSmokeRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, SmokeRecord{Year: 2024, Month: 6, Day: 15, Hour: 13, Minute: 45, Event: EventSmoke}, records[1])
}

func TestReadSmokeRecordsRejectsTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.byte")
	require.NoError(t, os.WriteFile(path, make([]byte, SmokeRecordSize+1), 0o644))
	_, err := ReadSmokeRecords(path)
	require.Error(t, err)
}
