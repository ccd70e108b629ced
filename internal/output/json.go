package output

import (
	"encoding/json"
	"io"

	"github.com/aryankumar/tabmon/internal/executor"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// Format outputs a single data item as JSON
func (f *JSONFormatter) Format(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FormatChecks outputs check results as a JSON array
func (f *JSONFormatter) FormatChecks(w io.Writer, results []executor.Result) error {
	return f.Format(w, NewCheckViews(results))
}
