// Package csvlog accumulates sample records in memory and writes them out
// as a comma-separated file.
package csvlog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/Danondso/sigcap/internal/sample"
)

// FileName is the default output file name.
const FileName = "AcousticSignalData.csv"

// Header is the fixed first row of every file.
var Header = []string{"Timestamp", "Frequency", "Amplitude", "Duration", "SignalType"}

// IOError reports a failed flush. It unwraps to the underlying cause.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// FlushResult describes what a Flush did.
type FlushResult struct {
	Path string
	Rows int
}

// Empty reports whether the flush found nothing to write.
func (r FlushResult) Empty() bool { return r.Rows == 0 }

// Log is an append-only, ordered sequence of records.
type Log struct {
	mu      sync.Mutex
	records []sample.Record
}

// New creates an empty Log.
func New() *Log {
	return &Log{}
}

// Append adds r to the end of the log.
func (l *Log) Append(r sample.Record) {
	l.mu.Lock()
	l.records = append(l.records, r)
	l.mu.Unlock()
}

// Len returns the number of records.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Records returns a copy of the records in capture order.
func (l *Log) Records() []sample.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]sample.Record, len(l.records))
	copy(out, l.records)
	return out
}

// Clear drops every record.
func (l *Log) Clear() {
	l.mu.Lock()
	l.records = nil
	l.mu.Unlock()
}

// Flush writes the whole log to path, replacing any existing file. An
// empty log performs no I/O and returns a result with Empty() true. The
// log is left untouched whether the write succeeds or not.
func (l *Log) Flush(path string) (FlushResult, error) {
	recs := l.Records()
	if len(recs) == 0 {
		return FlushResult{Path: path}, nil
	}

	var buf bytes.Buffer
	if err := Encode(&buf, recs); err != nil {
		return FlushResult{Path: path}, &IOError{Op: "encode", Path: path, Err: err}
	}
	if err := writeFile(path, buf.Bytes()); err != nil {
		return FlushResult{Path: path}, err
	}
	return FlushResult{Path: path, Rows: len(recs)}, nil
}

// writeFile replaces path with data in one step: the bytes go to a
// temporary file in the same directory which is then renamed into place.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: dir, Err: err}
	}
	tmp, err := os.CreateTemp(dir, ".sigcap-*.csv.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &IOError{Op: "sync", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &IOError{Op: "close", Path: path, Err: err}
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// Encode writes the header followed by one row per record.
func Encode(w io.Writer, recs []sample.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range recs {
		if err := cw.Write(r.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Parse reads a file produced by Encode back into records.
func Parse(r io.Reader) ([]sample.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, name := range Header {
		if head[i] != name {
			return nil, fmt.Errorf("unexpected header column %d: %q (want %q)", i+1, head[i], name)
		}
	}

	var recs []sample.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func parseRow(row []string) (sample.Record, error) {
	ts, err := time.ParseInLocation(sample.TimestampLayout, row[0], time.Local)
	if err != nil {
		return sample.Record{}, fmt.Errorf("timestamp: %w", err)
	}
	nums := make([]float64, 3)
	for i := range nums {
		v, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return sample.Record{}, fmt.Errorf("%s: %w", Header[i+1], err)
		}
		nums[i] = v
	}
	typ, err := sample.ParseSignalType(row[4])
	if err != nil {
		return sample.Record{}, err
	}
	return sample.New(ts, nums[0], nums[1], nums[2], typ)
}
