package common

import (
	"io"
	"os"
	"strings"

	"github.com/kisielk/og-rek"
	"github.com/pkg/errors"
)

const TextFileExt = "pkl"

// TextBuffer concatenates text records and writes them out as a single
// pickled string.
type TextBuffer struct {
	b       strings.Builder
	records int
}

func NewTextBuffer() *TextBuffer {
	return &TextBuffer{}
}

func (t *TextBuffer) Append(record string) {
	t.b.WriteString(record)
	t.records++
}

func (t *TextBuffer) String() string {
	return t.b.String()
}

func (t *TextBuffer) Size() int64 {
	return int64(t.b.Len())
}

func (t *TextBuffer) Len() int {
	return t.records
}

func (t *TextBuffer) Reset() {
	t.b.Reset()
	t.records = 0
}

func (t *TextBuffer) Serialize(w io.Writer) error {
	enc := ogórek.NewEncoderWithConfig(w, &ogórek.EncoderConfig{
		Protocol: 2,
	})
	return errors.Wrap(enc.Encode(t.b.String()), "pickle encode")
}

// ReadTextFile decodes a file written by TextBuffer.Serialize.
func ReadTextFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	v, err := ogórek.NewDecoder(f).Decode()
	if err != nil {
		return "", errors.Wrapf(err, "pickle decode %s", path)
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.Errorf("%s: pickled value is %T, not a string", path, v)
	}
	return s, nil
}
