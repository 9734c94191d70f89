// Package dataset reads benchmark JSONL datasets and writes JSONL
// output files. Dataset integrity is assumed: a malformed line is fatal
// and reported with its line number, not skipped.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/spboyer/locbench/internal/models"
)

// maxLineBytes bounds a single dataset line. Problem statements and
// patches run to megabytes on real benchmark dumps.
const maxLineBytes = 64 * 1024 * 1024

// LoadRecords reads all benchmark records from a JSONL file. Blank
// lines are skipped. Files ending in .gz/.gzip or .zst/.zstd are
// decompressed transparently.
func LoadRecords(path string) ([]models.BenchmarkRecord, error) {
	r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close() //nolint:errcheck

	var records []models.BenchmarkRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), maxLineBytes)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := models.DecodeRecord(line)
		if err != nil {
			return nil, fmt.Errorf("invalid JSON on line %d of %s: %w", lineNum, path, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return records, nil
}

// openReader opens path, layering a decompressor when the extension
// calls for one.
func openReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close() //nolint:errcheck
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return &layeredReadCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close() //nolint:errcheck
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		rc := zr.IOReadCloser()
		return &layeredReadCloser{Reader: rc, closers: []io.Closer{rc, f}}, nil
	default:
		return f, nil
	}
}

// layeredReadCloser closes a decompressor and its underlying file.
type layeredReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (l *layeredReadCloser) Close() error {
	var firstErr error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Writer emits one ASCII-escaped JSON object per line. Reruns with the
// same inputs truncate and rewrite the file deterministically.
type Writer struct {
	f *os.File
	w *bufio.Writer
}

// NewWriter creates the output file, making parent directories as
// needed.
func NewWriter(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &Writer{f: f, w: bufio.NewWriter(f)}, nil
}

// Write marshals v and appends it as one line.
func (w *Writer) Write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if _, err := w.w.Write(escapeNonASCII(data)); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes and closes the output file.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		w.f.Close() //nolint:errcheck
		return err
	}
	return w.f.Close()
}

// escapeNonASCII rewrites every rune above 0x7F as a \uXXXX escape
// (surrogate pairs beyond the BMP), matching the benchmark harness's
// ASCII-only JSONL convention. encoding/json leaves valid UTF-8 alone,
// so this is a post-pass over the marshaled bytes.
func escapeNonASCII(data []byte) []byte {
	ascii := true
	for _, b := range data {
		if b >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return data
	}

	var out bytes.Buffer
	out.Grow(len(data))
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		i += size
		switch {
		case r < utf8.RuneSelf:
			out.WriteByte(byte(r))
		case r <= 0xFFFF:
			fmt.Fprintf(&out, `\u%04x`, r)
		default:
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&out, `\u%04x\u%04x`, r1, r2)
		}
	}
	return out.Bytes()
}
