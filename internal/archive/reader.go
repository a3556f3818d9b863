// Package archive reads and writes the zip container of a QTI package as
// named byte entries.
package archive

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"

	"github.com/mind-engage/quizpack/internal/quiz"
)

// MaxEntrySize bounds the decompressed size of a single entry.
const MaxEntrySize = 64 << 20

var ErrEntryTooLarge = errors.New("archive entry exceeds size limit")

// Reader exposes zip entries by path, in container order.
type Reader struct {
	names  []string
	files  map[string]*zip.File
	closer io.Closer
}

// OpenReader opens the zip file at path. Close releases it.
func OpenReader(path string) (*Reader, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, fmt.Errorf("%w: %s is not a valid zip archive", quiz.ErrInvalidSource, path)
		}
		return nil, fmt.Errorf("open archive: %w", err)
	}
	r := newReader(&rc.Reader)
	r.closer = rc
	return r, nil
}

// NewReader reads a zip held in memory or in an already-open file.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("%w: not a valid zip archive: %v", quiz.ErrInvalidSource, err)
	}
	return newReader(zr), nil
}

func newReader(zr *zip.Reader) *Reader {
	r := &Reader{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if _, dup := r.files[f.Name]; dup {
			continue
		}
		r.names = append(r.names, f.Name)
		r.files[f.Name] = f
	}
	return r
}

func (r *Reader) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Reader) ReadFile(name string) ([]byte, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("archive entry %q not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %q: %w", name, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(io.LimitReader(rc, MaxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("read entry %q: %w", name, err)
	}
	if len(b) > MaxEntrySize {
		return nil, fmt.Errorf("%q: %w", name, ErrEntryTooLarge)
	}
	return b, nil
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
