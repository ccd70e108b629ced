package output

import (
	"fmt"
	"io"
	"time"

	"github.com/aryankumar/tabmon/internal/executor"
	"github.com/aryankumar/tabmon/internal/metrics"
	"github.com/aryankumar/tabmon/internal/severity"
)

// Format represents the output format type
type Format string

const (
	// FormatTable outputs one row per record with colored severity
	FormatTable Format = "table"
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
	// FormatLine outputs InfluxDB line protocol, as the collector receives it
	FormatLine Format = "line"
)

// Formats lists the accepted values of --output
var Formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatLine}

// ParseFormat validates an --output value. Empty selects the table.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatTable, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (valid: table, json, yaml, line)", s)
}

// Formatter defines the interface for output formatting
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatChecks outputs the results of one collection cycle
	FormatChecks(w io.Writer, results []executor.Result) error
}

// FallbackFunc returns the record reported in place of a failed check
type FallbackFunc func(checkName string) (metrics.Record, bool)

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool

	// Wide adds every field and the full error text
	Wide bool

	// Fallback supplies the records written for failed checks in line format
	Fallback FallbackFunc
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// WithFallback sets the fallback records for the line format
func WithFallback(fn FallbackFunc) Option {
	return func(o *Options) {
		o.Fallback = fn
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatLine:
		return NewLineFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}

// CheckView is the structured form of one check result
type CheckView struct {
	Check    string       `json:"check" yaml:"check"`
	Status   string       `json:"status" yaml:"status"`
	Duration string       `json:"duration" yaml:"duration"`
	Error    string       `json:"error,omitempty" yaml:"error,omitempty"`
	Records  []RecordView `json:"records,omitempty" yaml:"records,omitempty"`
}

// RecordView is the structured form of one record
type RecordView struct {
	Measurement string                 `json:"measurement" yaml:"measurement"`
	Tags        map[string]string      `json:"tags" yaml:"tags"`
	Fields      map[string]interface{} `json:"fields" yaml:"fields"`
	Severity    string                 `json:"severity" yaml:"severity"`
	Time        time.Time              `json:"time" yaml:"time"`
}

// NewCheckViews converts results for structured encoders
func NewCheckViews(results []executor.Result) []CheckView {
	views := make([]CheckView, len(results))

	for i, result := range results {
		view := CheckView{
			Check:    result.CheckName,
			Status:   "ok",
			Duration: result.Duration.Round(time.Microsecond).String(),
		}

		if result.Error != nil {
			view.Status = "failed"
			view.Error = result.Error.Error()
		}

		for _, r := range result.Records {
			rv := RecordView{
				Measurement: r.Measurement,
				Tags:        make(map[string]string, len(r.Tags)),
				Fields:      make(map[string]interface{}, len(r.Fields)),
				Severity:    recordSeverity(r).String(),
				Time:        r.Time,
			}
			for _, t := range r.Tags {
				rv.Tags[t.Key] = t.Value
			}
			for _, f := range r.Fields {
				rv.Fields[f.Key] = f.Value
			}
			view.Records = append(view.Records, rv)
		}

		views[i] = view
	}

	return views
}

// recordSeverity reads the status_code field of a record
func recordSeverity(r metrics.Record) severity.Code {
	v, ok := r.Field("status_code")
	if !ok {
		return severity.Unknown
	}
	code, ok := v.(int64)
	if !ok {
		return severity.Unknown
	}
	return severity.Code(code)
}
