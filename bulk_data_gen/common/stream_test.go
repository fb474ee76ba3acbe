package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestFilePath(t *testing.T) {
	p := FilePath{Dir: "out", Name: "home", Tag: "temp_data", Version: 1, Ext: TableFileExt}
	require.Equal(t, filepath.Join("out", "home_temp_data(1).parquet"), p.String())
	require.Equal(t, filepath.Join("out", "home_temp_data(2).parquet"), p.Next().String())
	require.Equal(t, 1, p.Version)
}

func TestListStreamFiles(t *testing.T) {
	dir := t.TempDir()
	for _, v := range []int{10, 2, 1, 9} {
		p := FilePath{Dir: dir, Name: "h", Tag: "x", Version: v, Ext: "pkl"}
		require.NoError(t, os.WriteFile(p.String(), nil, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "h_y(1).pkl"), nil, 0o644))

	files, err := ListStreamFiles(dir, "h", "x", "pkl")
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	require.Equal(t, []string{"h_x(1).pkl", "h_x(2).pkl", "h_x(9).pkl", "h_x(10).pkl"}, names)
}

func TestFlusherSplitsFiles(t *testing.T) {
	dir := t.TempDir()
	buf := NewTextBuffer()
	s := NewStream("text", TextFileExt, buf, 10)
	f := NewFlusher(nil, s)
	f.Prepare(dir, "home")
	require.False(t, f.NoWrite())

	var want strings.Builder
	for i := 0; i < 7; i++ {
		rec := fmt.Sprintf("rec%02d", i)
		want.WriteString(rec)
		buf.Append(rec)
		require.NoError(t, f.Check())
	}
	require.NoError(t, f.FlushAll())

	// 35 bytes at 10 bytes per file
	require.Len(t, s.Files(), 4)
	require.Equal(t, int64(7), s.Records())
	require.Equal(t, int64(35), s.Bytes())
	require.Equal(t, 5, s.Path().Version)

	files, err := ListStreamFiles(dir, "home", "text", TextFileExt)
	require.NoError(t, err)
	require.Equal(t, s.Files(), files)
	var got strings.Builder
	for _, name := range files {
		text, err := ReadTextFile(name)
		require.NoError(t, err)
		got.WriteString(text)
	}
	require.Equal(t, want.String(), got.String())

	// nothing is left to write
	require.NoError(t, f.FlushAll())
	require.Len(t, s.Files(), 4)
}

func TestFlusherNoWrite(t *testing.T) {
	buf := NewBinaryBuffer()
	s := NewStream("bin", BinaryFileExt, buf, 1)
	f := NewFlusher(nil, s)
	f.Prepare("", "home")
	require.True(t, f.NoWrite())

	buf.AppendSmoke(SmokeRecord{Year: 2024, Event: EventSmoke})
	require.NoError(t, f.Check())
	require.Equal(t, 0, buf.Len())
	require.Empty(t, s.Files())
	require.Equal(t, int64(1), s.Records())
	require.Equal(t, int64(SmokeRecordSize), s.Bytes())
}

func TestWriteBufferFileRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.pkl")
	buf := NewTextBuffer()
	buf.Append("x")
	require.NoError(t, WriteBufferFile(path, buf))

	err := WriteBufferFile(path, buf)
	require.Error(t, err)
	require.Equal(t, ErrFileExists, errors.Cause(err))
}
