package archive

import (
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
)

// Writer appends entries to a zip stream. The archive is only complete
// after Close returns nil.
type Writer struct {
	zw  *zip.Writer
	now time.Time
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{zw: zip.NewWriter(w), now: time.Now()}
}

func (w *Writer) WriteEntry(name string, data []byte) error {
	fw, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: w.now,
	})
	if err != nil {
		return fmt.Errorf("create entry %q: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("write entry %q: %w", name, err)
	}
	return nil
}

func (w *Writer) Close() error { return w.zw.Close() }
