package common

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
)

const BinaryFileExt = "byte"

// Smoke detector event types.
const (
	EventBatteryDead byte = 'B'
	EventSmoke       byte = 'S'
)

// SmokeRecord is the fixed-width little endian record of a smoke detector
// event.
type SmokeRecord struct {
	Year   uint64
	Month  uint8
	Day    uint8
	Hour   uint8
	Minute uint8
	Event  byte
}

// SmokeRecordSize is the encoded size of a SmokeRecord.
const SmokeRecordSize = 8 + 5

func NewSmokeRecord(ts time.Time, event byte) SmokeRecord {
	return SmokeRecord{
		Year:   uint64(ts.Year()),
		Month:  uint8(ts.Month()),
		Day:    uint8(ts.Day()),
		Hour:   uint8(ts.Hour()),
		Minute: uint8(ts.Minute()),
		Event:  event,
	}
}

// BinaryBuffer holds fixed-width records that are appended raw to a file.
type BinaryBuffer struct {
	buf     bytes.Buffer
	records int
}

func NewBinaryBuffer() *BinaryBuffer {
	return &BinaryBuffer{}
}

func (b *BinaryBuffer) AppendSmoke(r SmokeRecord) {
	// writes to a bytes.Buffer cannot fail
	_ = binary.Write(&b.buf, binary.LittleEndian, r)
	b.records++
}

func (b *BinaryBuffer) Bytes() []byte {
	return b.buf.Bytes()
}

func (b *BinaryBuffer) Size() int64 {
	return int64(b.buf.Len())
}

func (b *BinaryBuffer) Len() int {
	return b.records
}

func (b *BinaryBuffer) Reset() {
	b.buf.Reset()
	b.records = 0
}

func (b *BinaryBuffer) Serialize(w io.Writer) error {
	_, err := w.Write(b.buf.Bytes())
	return err
}

// ReadSmokeRecords decodes every record of a smoke detector file.
func ReadSmokeRecords(path string) ([]SmokeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if len(data)%SmokeRecordSize != 0 {
		return nil, errors.Errorf("%s: %d bytes is not a multiple of the %d byte record", path, len(data), SmokeRecordSize)
	}
	records := make([]SmokeRecord, len(data)/SmokeRecordSize)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, records); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return records, nil
}
