// Package delim reads and writes delimited text (TSV/CSV) with a
// configurable delimiter byte and transparent compression.
//
// Compression is chosen by file extension: ".gz" (gzip), ".zst"/".zstd"
// (zstandard) and ".lz4" are decompressed on read and compressed on write;
// anything else passes through unchanged. Records are line-oriented: every
// input line is one record, so a quoted field cannot span lines. Field
// parsing within a line is delegated to encoding/csv.
package delim

import (
	"bufio"
	"encoding/csv"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

type compression int

const (
	compressionNone compression = iota
	compressionGzip
	compressionZstd
	compressionLZ4
)

func compressionFor(name string) compression {
	switch strings.ToLower(path.Ext(name)) {
	case ".gz":
		return compressionGzip
	case ".zst", ".zstd":
		return compressionZstd
	case ".lz4":
		return compressionLZ4
	default:
		return compressionNone
	}
}

// Reader reads delimited records, decompressing by file extension.
type Reader struct {
	br        *bufio.Reader
	delimiter byte
	closers   []func() error
	eof       bool
}

// NewReader creates a Reader. name is only used to select the decompressor
// by extension; pass the file or blob name the data came from.
func NewReader(r io.Reader, name string, delimiter byte) (*Reader, error) {
	dr := &Reader{delimiter: delimiter}

	switch compressionFor(name) {
	case compressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		dr.closers = append(dr.closers, gz.Close)
		r = gz
	case compressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		dr.closers = append(dr.closers, func() error { zr.Close(); return nil })
		r = zr
	case compressionLZ4:
		r = lz4.NewReader(r)
	}

	dr.br = bufio.NewReader(r)
	return dr, nil
}

// Read returns the next record, or io.EOF. A blank line is a record with a
// single empty field, never a skipped row: encoding/csv drops blank lines,
// which would silently lose rows whose only field is empty.
func (r *Reader) Read() ([]string, error) {
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	if line == "" {
		return []string{""}, nil
	}

	cr := csv.NewReader(strings.NewReader(line))
	cr.Comma = rune(r.delimiter)
	// Row length validation happens in the caller, which knows the header
	// and can report the offending line.
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.Read()
}

// readLine returns the next input line without its terminator. A final line
// without a trailing newline still counts as a line.
func (r *Reader) readLine() (string, error) {
	if r.eof {
		return "", io.EOF
	}
	line, err := r.br.ReadString('\n')
	if err == io.EOF {
		r.eof = true
		if line == "" {
			return "", io.EOF
		}
	} else if err != nil {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// ReadAll reads all remaining records.
func (r *Reader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// Close releases any decompressor state. It does not close the underlying
// reader, which the caller owns.
func (r *Reader) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Writer writes delimited records, compressing by file extension.
type Writer struct {
	cw      *csv.Writer
	closers []func() error
}

// NewWriter creates a Writer. name selects the compressor by extension.
func NewWriter(w io.Writer, name string, delimiter byte) (*Writer, error) {
	dw := &Writer{}

	switch compressionFor(name) {
	case compressionGzip:
		gz := gzip.NewWriter(w)
		dw.closers = append(dw.closers, gz.Close)
		w = gz
	case compressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, err
		}
		dw.closers = append(dw.closers, zw.Close)
		w = zw
	case compressionLZ4:
		lw := lz4.NewWriter(w)
		dw.closers = append(dw.closers, lw.Close)
		w = lw
	}

	cw := csv.NewWriter(w)
	cw.Comma = rune(delimiter)
	dw.cw = cw
	return dw, nil
}

// Write writes a single record.
func (w *Writer) Write(record []string) error {
	return w.cw.Write(record)
}

// Close flushes buffered records and finalizes any compressor. It must be
// called on all exit paths or compressed output will be truncated.
func (w *Writer) Close() error {
	w.cw.Flush()
	first := w.cw.Error()
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
