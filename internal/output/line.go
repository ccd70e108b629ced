package output

import (
	"fmt"
	"io"

	"github.com/aryankumar/tabmon/internal/executor"
	"github.com/aryankumar/tabmon/internal/metrics"
)

// LineFormatter writes the records exactly as the execd loop does,
// including the fallback record of each failed check
type LineFormatter struct {
	options *Options
}

// NewLineFormatter creates a new line protocol formatter
func NewLineFormatter(opts *Options) *LineFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &LineFormatter{
		options: opts,
	}
}

// Format writes a metrics.Record or []metrics.Record
func (f *LineFormatter) Format(w io.Writer, data interface{}) error {
	emitter := metrics.NewEmitter(w)

	switch v := data.(type) {
	case metrics.Record:
		return emitter.Emit(v)
	case []metrics.Record:
		return emitter.EmitAll(v)
	default:
		return fmt.Errorf("line format cannot encode %T", data)
	}
}

// FormatChecks writes every record, substituting the fallback record for a
// failed check, or one whose records do not encode, when one is configured
func (f *LineFormatter) FormatChecks(w io.Writer, results []executor.Result) error {
	emitter := metrics.NewEmitter(w)

	for _, result := range results {
		if result.Error == nil {
			lines, err := metrics.EncodeAll(result.Records)
			if err == nil {
				if err := emitter.WriteLines(lines); err != nil {
					return err
				}
				continue
			}
		}

		if f.options.Fallback == nil {
			continue
		}
		if r, ok := f.options.Fallback(result.CheckName); ok {
			if err := emitter.Emit(r); err != nil {
				return err
			}
		}
	}

	return nil
}
