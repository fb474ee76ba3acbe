package common

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FilePath describes a versioned output file, rendered as
// {Dir}/{Name}_{Tag}({Version}).{Ext}.
type FilePath struct {
	Dir     string
	Name    string
	Tag     string
	Version int
	Ext     string
}

func (p FilePath) String() string {
	return filepath.Join(p.Dir, fmt.Sprintf("%s_%s(%d).%s", p.Name, p.Tag, p.Version, p.Ext))
}

// Next returns the path of the following version.
func (p FilePath) Next() FilePath {
	p.Version++
	return p
}

// ListStreamFiles returns the files of one stream in dir, ordered by version.
func ListStreamFiles(dir, name, tag, ext string) ([]string, error) {
	prefix := name + "_" + tag + "("
	suffix := ")." + ext
	matches, err := filepath.Glob(filepath.Join(dir, glob(prefix)+"*"+glob(suffix)))
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", dir)
	}
	versions := make(map[string]int, len(matches))
	files := matches[:0]
	for _, m := range matches {
		base := filepath.Base(m)
		v, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(base, prefix), suffix))
		if err != nil {
			continue
		}
		versions[m] = v
		files = append(files, m)
	}
	sort.Slice(files, func(i, j int) bool { return versions[files[i]] < versions[files[j]] })
	return files, nil
}

func glob(s string) string {
	r := strings.NewReplacer("[", "\\[", "]", "\\]", "*", "\\*", "?", "\\?")
	return r.Replace(s)
}

// Stream is one output data stream: a buffer, its flush threshold and the
// path of the next file to write.
type Stream struct {
	Tag    string
	Buffer Buffer
	Limit  int64

	path    FilePath
	files   []string
	records int64
	bytes   int64
}

func NewStream(tag, ext string, buf Buffer, limit int64) *Stream {
	return &Stream{
		Tag:    tag,
		Buffer: buf,
		Limit:  limit,
		path:   FilePath{Tag: tag, Version: 1, Ext: ext},
	}
}

// Path is the file the next flush writes to.
func (s *Stream) Path() FilePath {
	return s.path
}

// Files lists the files written so far, in order.
func (s *Stream) Files() []string {
	return s.files
}

// Records is the number of records flushed so far.
func (s *Stream) Records() int64 {
	return s.records
}

// Bytes is the estimated number of bytes flushed so far.
func (s *Stream) Bytes() int64 {
	return s.bytes
}

func (s *Stream) overLimit() bool {
	return s.Buffer.Size() >= s.Limit
}

func (s *Stream) reset(dir, name string) {
	s.Buffer.Reset()
	s.path.Dir = dir
	s.path.Name = name
	s.path.Version = 1
	s.files = nil
	s.records = 0
	s.bytes = 0
}

// Flusher owns a set of streams and writes them out once they cross their
// thresholds. Without an output directory it runs in no-write mode: flushes
// drop the buffered content and touch nothing on disk.
type Flusher struct {
	Streams []*Stream

	noWrite bool
	logger  *slog.Logger
}

func NewFlusher(logger *slog.Logger, streams ...*Stream) *Flusher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Flusher{Streams: streams, logger: logger}
}

// Prepare empties every stream and points it at version 1 of its file in
// dir. An empty dir selects no-write mode.
func (f *Flusher) Prepare(dir, name string) {
	f.noWrite = dir == ""
	for _, s := range f.Streams {
		s.reset(dir, name)
	}
}

func (f *Flusher) NoWrite() bool {
	return f.noWrite
}

// Check flushes the streams whose buffers reached their threshold.
func (f *Flusher) Check() error {
	for _, s := range f.Streams {
		if s.overLimit() {
			if err := f.flush(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// FlushAll drains every stream regardless of its threshold.
func (f *Flusher) FlushAll() error {
	for _, s := range f.Streams {
		if err := f.flush(s); err != nil {
			return err
		}
	}
	return nil
}

func (f *Flusher) flush(s *Stream) error {
	if s.Buffer.Len() == 0 {
		return nil
	}
	n, size := s.Buffer.Len(), s.Buffer.Size()
	if !f.noWrite {
		path := s.path.String()
		if err := WriteBufferFile(path, s.Buffer); err != nil {
			return errors.Wrapf(err, "flush %s", s.Tag)
		}
		f.logger.Debug("flushed stream", "stream", s.Tag, "path", path, "records", n, "bytes", size)
		s.files = append(s.files, path)
		s.path = s.path.Next()
	}
	s.records += int64(n)
	s.bytes += size
	s.Buffer.Reset()
	return nil
}
