package metrics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/influxdata/line-protocol/v2/lineprotocol"
)

// Flusher is implemented by buffered writers such as *bufio.Writer
type Flusher interface {
	Flush() error
}

// Emitter writes one line per record and flushes after each line so the
// collector never waits on a partially buffered batch.
type Emitter struct {
	w io.Writer
}

// NewEmitter creates an emitter writing to w
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// ErrInvalidRecord is returned for a record that cannot be rendered as a
// single valid line
var ErrInvalidRecord = errors.New("invalid record")

// Emit encodes and writes a single record
func (e *Emitter) Emit(r Record) error {
	line, err := Encode(r)
	if err != nil {
		return err
	}
	return e.writeLine(line)
}

// EmitAll encodes every record first and writes them only if all encode,
// so a check reports either its full set or nothing
func (e *Emitter) EmitAll(records []Record) error {
	lines, err := EncodeAll(records)
	if err != nil {
		return err
	}
	return e.WriteLines(lines)
}

// WriteLines writes encoded lines in order, flushing after each
func (e *Emitter) WriteLines(lines [][]byte) error {
	for _, line := range lines {
		if err := e.writeLine(line); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) writeLine(line []byte) error {
	if _, err := e.w.Write(line); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	if f, ok := e.w.(Flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("failed to flush record: %w", err)
		}
	}

	return nil
}

// EncodeAll encodes records in order and stops at the first invalid one
func EncodeAll(records []Record) ([][]byte, error) {
	lines := make([][]byte, 0, len(records))
	for _, r := range records {
		line, err := Encode(r)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Encode renders a record as a newline-terminated line-protocol line.
// Tags are written in the order given rather than sorted. Lax mode skips
// the encoder's own tag checks, so tags are validated here.
func Encode(r Record) ([]byte, error) {
	if r.Measurement == "" {
		return nil, fmt.Errorf("%w: no measurement", ErrInvalidRecord)
	}
	if len(r.Fields) == 0 {
		return nil, fmt.Errorf("%w: %s has no fields", ErrInvalidRecord, r.Measurement)
	}
	for _, t := range r.Tags {
		if err := validateTag(t); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, r.Measurement, err)
		}
	}

	var enc lineprotocol.Encoder
	enc.SetPrecision(lineprotocol.Nanosecond)
	enc.SetLax(true)

	enc.StartLine(r.Measurement)
	for _, t := range r.Tags {
		enc.AddTag(t.Key, t.Value)
	}

	for _, f := range r.Fields {
		v, err := fieldValue(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, r.Measurement, err)
		}
		enc.AddField(f.Key, v)
	}

	enc.EndLine(r.Time)
	if err := enc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, r.Measurement, err)
	}

	return enc.Bytes(), nil
}

// validateTag rejects what escaping cannot carry: empty keys or values,
// invalid UTF-8 and control characters such as newlines
func validateTag(t Tag) error {
	if t.Key == "" {
		return fmt.Errorf("empty tag key")
	}
	if t.Value == "" {
		return fmt.Errorf("tag %q has an empty value", t.Key)
	}
	for _, s := range []string{t.Key, t.Value} {
		if !utf8.ValidString(s) {
			return fmt.Errorf("tag %q is not valid UTF-8", t.Key)
		}
		if strings.IndexFunc(s, unicode.IsControl) >= 0 {
			return fmt.Errorf("tag %q contains a control character", t.Key)
		}
	}
	return nil
}

func fieldValue(f Field) (lineprotocol.Value, error) {
	switch v := f.Value.(type) {
	case int64:
		return lineprotocol.IntValue(v), nil
	case int:
		return lineprotocol.IntValue(int64(v)), nil
	case uint64:
		return lineprotocol.UintValue(v), nil
	case bool:
		return lineprotocol.BoolValue(v), nil
	case float64:
		if fv, ok := lineprotocol.FloatValue(v); ok {
			return fv, nil
		}
		return lineprotocol.Value{}, fmt.Errorf("field %q: float %v is not representable", f.Key, v)
	case string:
		if sv, ok := lineprotocol.StringValue(v); ok {
			return sv, nil
		}
		return lineprotocol.Value{}, fmt.Errorf("field %q: string is not valid UTF-8", f.Key)
	default:
		return lineprotocol.Value{}, fmt.Errorf("field %q: unsupported type %T", f.Key, f.Value)
	}
}
