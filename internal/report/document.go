package report

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
)

// TimestampLayout is the layout of the optional capture-time suffix,
// e.g. "administrative_code_20250102_150405.json".
const TimestampLayout = "20060102_150405"

// Output describes a document written to disk.
type Output struct {
	// Path is the file that was written.
	Path string

	// Checksum is the hex SHA3-256 of the file content.
	Checksum string

	// Bytes is the file size.
	Bytes int64
}

// FileWriter writes assembled domain documents as pretty-printed JSON files.
//
// Design decision: The document is encoded into memory first so the
// checksum and the file content come from the same bytes. Writes are not
// atomic; an interrupted write leaves a partial file behind.
type FileWriter struct {
	// dir is created on first write if it does not exist.
	dir string

	// timestamp, when non-zero, is appended to every file name.
	timestamp time.Time

	// indent is the per-level indentation.
	indent string
}

// FileWriterOption configures a FileWriter.
type FileWriterOption func(*FileWriter)

// WithTimestamp appends the capture time to every file name.
// A zero time disables the suffix.
func WithTimestamp(t time.Time) FileWriterOption {
	return func(w *FileWriter) {
		w.timestamp = t
	}
}

// WithFileIndent overrides the default two-space indentation.
func WithFileIndent(indent string) FileWriterOption {
	return func(w *FileWriter) {
		w.indent = indent
	}
}

// NewFileWriter creates a FileWriter for dir.
func NewFileWriter(dir string, opts ...FileWriterOption) *FileWriter {
	w := &FileWriter{
		dir:    dir,
		indent: "  ",
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the output directory.
func (w *FileWriter) Dir() string {
	return w.dir
}

// Path returns the file path a document named base is written to.
func (w *FileWriter) Path(base string) string {
	name := base
	if !w.timestamp.IsZero() {
		name += "_" + w.timestamp.Format(TimestampLayout)
	}
	return filepath.Join(w.dir, name+".json")
}

// WriteDocument serializes v and writes it to Path(base).
func (w *FileWriter) WriteDocument(base string, v any) (*Output, error) {
	data, err := EncodeDocument(v, w.indent)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", base, err)
	}

	if err := os.MkdirAll(w.dir, 0750); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateOutputDir, err)
	}

	path := w.Path(base)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
	}

	return &Output{
		Path:     path,
		Checksum: Checksum(data),
		Bytes:    int64(len(data)),
	}, nil
}

// EncodeDocument renders v as indented JSON followed by a newline.
// HTML characters and non-ASCII text are written verbatim.
func EncodeDocument(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Checksum returns the hex SHA3-256 of data.
func Checksum(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
