package sample

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the on-disk timestamp format (yyyy-MM-dd HH:mm:ss).
const TimestampLayout = "2006-01-02 15:04:05"

// Values of the simulated sample produced on every tick.
const (
	SimulatedFrequency = 440.0
	SimulatedAmplitude = 0.5
	SimulatedDuration  = 2.0
)

// ErrInvalidRecord is returned when a record violates a field constraint.
var ErrInvalidRecord = errors.New("invalid record")

// SignalType labels the waveform of a logged sample.
type SignalType string

const (
	Sine     SignalType = "Sine"
	Square   SignalType = "Square"
	Triangle SignalType = "Triangle"
	Sawtooth SignalType = "Sawtooth"
)

var signalTypes = map[string]SignalType{
	"sine":     Sine,
	"square":   Square,
	"triangle": Triangle,
	"sawtooth": Sawtooth,
}

// ParseSignalType maps a label (case-insensitive) to its canonical SignalType.
func ParseSignalType(s string) (SignalType, error) {
	st, ok := signalTypes[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: unknown signal type %q", ErrInvalidRecord, s)
	}
	return st, nil
}

// Record is one logged observation. Records are values: once built they
// are copied around and never modified.
type Record struct {
	Timestamp  time.Time
	Frequency  float64 // Hz
	Amplitude  float64 // 0.0–1.0
	Duration   float64 // seconds
	SignalType SignalType
}

// New builds a Record after checking every field. The timestamp is
// truncated to whole seconds.
func New(ts time.Time, frequency, amplitude, duration float64, typ SignalType) (Record, error) {
	if ts.IsZero() {
		return Record{}, fmt.Errorf("%w: zero timestamp", ErrInvalidRecord)
	}
	if !(frequency > 0) {
		return Record{}, fmt.Errorf("%w: frequency must be positive, got %v", ErrInvalidRecord, frequency)
	}
	if !(amplitude >= 0 && amplitude <= 1) {
		return Record{}, fmt.Errorf("%w: amplitude must be in [0,1], got %v", ErrInvalidRecord, amplitude)
	}
	if !(duration > 0) {
		return Record{}, fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidRecord, duration)
	}
	if _, err := ParseSignalType(string(typ)); err != nil {
		return Record{}, err
	}
	return Record{
		Timestamp:  ts.Truncate(time.Second),
		Frequency:  frequency,
		Amplitude:  amplitude,
		Duration:   duration,
		SignalType: typ,
	}, nil
}

// Simulated returns the fixed synthetic sample stamped at now.
func Simulated(now time.Time) Record {
	return Record{
		Timestamp:  now.Truncate(time.Second),
		Frequency:  SimulatedFrequency,
		Amplitude:  SimulatedAmplitude,
		Duration:   SimulatedDuration,
		SignalType: Sine,
	}
}

// Fields returns the record's columns in header order.
func (r Record) Fields() []string {
	return []string{
		r.Timestamp.Format(TimestampLayout),
		FormatFloat(r.Frequency),
		FormatFloat(r.Amplitude),
		FormatFloat(r.Duration),
		string(r.SignalType),
	}
}

// FormatFloat renders f in its shortest decimal form, keeping at least one
// fractional digit ("440.0", "0.5").
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
