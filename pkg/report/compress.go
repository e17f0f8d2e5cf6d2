package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// CompressedExt marks lz4-compressed report files.
const CompressedExt = ".lz4"

// IsCompressed reports whether path names an lz4-compressed report.
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), CompressedExt)
}

// NewWriter wraps w with an lz4 frame writer when path ends in .lz4. The
// returned closer flushes the frame but never closes w.
func NewWriter(w io.Writer, path string) io.WriteCloser {
	if !IsCompressed(path) {
		return nopWriteCloser{w}
	}

	return &lz4Writer{zw: lz4.NewWriter(w)}
}

// NewReader wraps r with an lz4 frame reader when path ends in .lz4.
func NewReader(r io.Reader, path string) io.Reader {
	if !IsCompressed(path) {
		return r
	}

	return lz4.NewReader(r)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type lz4Writer struct {
	zw *lz4.Writer
}

func (l *lz4Writer) Write(p []byte) (int, error) {
	n, err := l.zw.Write(p)
	if err != nil {
		return n, fmt.Errorf("lz4 write: %w", err)
	}

	return n, nil
}

func (l *lz4Writer) Close() error {
	err := l.zw.Close()
	if err != nil {
		return fmt.Errorf("lz4 close: %w", err)
	}

	return nil
}
