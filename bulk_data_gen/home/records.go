package home

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/homesim/home-monitoring-data-gen/bulk_data_gen/common"
	"github.com/pkg/errors"
)

// Output stream tags, used in file names.
const (
	TempDataTag        = "temp_data"
	DoorMotionDataTag  = "door_motion_data"
	CO2HumidityDataTag = "co2_humidity_data"
	SmokeDataTag       = "smoke_detector_data"
)

// TempPackets is the number of rows of a packet encoded temperature reading.
const TempPackets = 4

const (
	TempDateLayout     = "2006-01-02"
	TempTimeLayout     = "15:04:05.000000"
	HumidityLayout     = "2006Jan02150405"
	passiveStampFormat = "%04d%03d-%05d"
)

var TempColumns = []common.Column{
	{Name: "date", Kind: common.StringColumn},
	{Name: "time", Kind: common.StringColumn},
	{Name: "sensor", Kind: common.StringColumn},
	{Name: "packet_id", Kind: common.StringColumn},
	{Name: "payload", Kind: common.StringColumn},
}

var PassiveColumns = []common.Column{
	{Name: "datetime", Kind: common.StringColumn},
	{Name: "sensor_id", Kind: common.StringColumn},
	{Name: "voltage", Kind: common.Int64Column},
}

// Estimated peak bytes of one record, used to pace flush checks.
const (
	tempDateTimeBytes    = len(TempDateLayout) + len(TempTimeLayout)
	tempDecimalBytes     = 24
	tempHexBytes         = 4
	passiveStampBytes    = 13
	humidityRecordBytes  = len(HumidityLayout) + len("999.999%")
	co2RecordBytes       = len("99999ppm")
	smokeRecordsPerCycle = 2
)

// encodeTemperature appends one reading. Packet encoded sensors send the
// little endian bytes of the float32 value as four rows.
func encodeTemperature(t *common.Table, ts time.Time, id string, temp float64, packets bool) {
	date, clock := ts.Format(TempDateLayout), ts.Format(TempTimeLayout)
	sensor := strings.ToUpper(id)
	if !packets {
		t.AppendRow(date, clock, sensor, sensor+"P00", strconv.FormatFloat(temp, 'f', -1, 64))
		return
	}
	var word [TempPackets]byte
	binary.LittleEndian.PutUint32(word[:], math.Float32bits(float32(temp)))
	for i, b := range word {
		t.AppendRow(date, clock, sensor, fmt.Sprintf("%sP%02b", sensor, i), fmt.Sprintf("0x%02x", b))
	}
}

// DecodeTempPackets rebuilds a reading from the payloads of its packets,
// in packet order.
func DecodeTempPackets(payloads []string) (float32, error) {
	if len(payloads) != TempPackets {
		return 0, errors.Errorf("want %d packets, got %d", TempPackets, len(payloads))
	}
	var word [TempPackets]byte
	for i, p := range payloads {
		v, err := strconv.ParseUint(strings.TrimPrefix(p, "0x"), 16, 8)
		if err != nil {
			return 0, errors.Wrapf(err, "packet %d", i)
		}
		word[i] = byte(v)
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(word[:])), nil
}

// PassiveStamp formats ts as YYYYDDD-SSSSS: year, day of year and second
// of the day.
func PassiveStamp(ts time.Time) string {
	secs := ts.Hour()*3600 + ts.Minute()*60 + ts.Second()
	return fmt.Sprintf(passiveStampFormat, ts.Year(), ts.YearDay(), secs)
}

func encodePassive(t *common.Table, ts time.Time, id string, mv int) {
	t.AppendRow(PassiveStamp(ts), strings.ToUpper(id), mv)
}

func encodeHumidity(b *common.TextBuffer, ts time.Time, v float64) {
	b.Append(ts.Format(HumidityLayout) + fmt.Sprintf("%.3f%%", v))
}

func encodeCO2(b *common.TextBuffer, v int) {
	b.Append(fmt.Sprintf("%03dppm", v))
}

func encodeSmoke(b *common.BinaryBuffer, ts time.Time, status SmokeStatus) {
	if status.BatteryDead {
		b.AppendSmoke(common.NewSmokeRecord(ts, common.EventBatteryDead))
	}
	if status.Smoke {
		b.AppendSmoke(common.NewSmokeRecord(ts, common.EventSmoke))
	}
}

// peakBytesPerCycle estimates the most bytes one cycle can add across all
// streams.
func peakBytesPerCycle(r *Registry, packetEncoded map[string]bool) int64 {
	var n int
	for _, e := range r.Entries() {
		switch e.Kind {
		case KindTemperature:
			row := tempDateTimeBytes + 2*len(e.Id) + len("P00")
			if packetEncoded[e.Id] {
				n += TempPackets * (row + tempHexBytes)
			} else {
				n += row + tempDecimalBytes
			}
		case KindDoor, KindMotion:
			n += passiveStampBytes + len(e.Id) + 8
		case KindHumidity:
			n += humidityRecordBytes
		case KindCO2:
			n += co2RecordBytes
		case KindSmoke:
			n += smokeRecordsPerCycle * common.SmokeRecordSize
		}
	}
	return int64(n)
}
