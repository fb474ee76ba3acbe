package common

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Buffer accumulates the records of one output stream in memory until it
// is serialized to a file.
type Buffer interface {
	// Size is an estimate of the buffered content, in bytes.
	Size() int64
	// Len is the number of buffered records.
	Len() int
	Serialize(w io.Writer) error
	Reset()
}

// ErrFileExists is returned when an output file is already on disk.
var ErrFileExists = errors.New("output file already exists")

// WriteBufferFile serializes b into a new file at path. Existing files are
// never overwritten.
func WriteBufferFile(path string, b Buffer) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return errors.Wrap(ErrFileExists, path)
		}
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	out := bufio.NewWriterSize(f, 1<<20)
	if err = b.Serialize(out); err != nil {
		return errors.Wrapf(err, "serialize %s", path)
	}
	if err = out.Flush(); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
