package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/aryankumar/tabmon/internal/executor"
	"github.com/aryankumar/tabmon/internal/metrics"
)

// fields shown in the STATUS column or implied by other columns
var summaryFields = map[string]bool{
	"status_code": true,
	"status":      true,
}

// TableFormatter formats output as a table
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(f.createTable(w), v)
	case map[string]string:
		m := make(map[string]interface{}, len(v))
		for k, s := range v {
			m[k] = s
		}
		return f.formatMap(f.createTable(w), m)
	default:
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatChecks outputs one row per record, and one row per failed check
func (f *TableFormatter) FormatChecks(w io.Writer, results []executor.Result) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No checks configured")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	headers := []string{"CHECK", "TAGS", "STATUS", "SEVERITY"}
	if f.options.Wide {
		headers = append(headers, "FIELDS")
	}

	if !f.options.NoHeaders {
		if colors.Disabled {
			table.SetHeader(headers)
		} else {
			coloredHeaders := make([]string, len(headers))
			for i, h := range headers {
				coloredHeaders[i] = colors.Header(h)
			}
			table.SetHeader(coloredHeaders)
		}
	}

	for _, result := range results {
		if result.Error != nil {
			table.Append(f.formatFailedRow(result, colors))
			continue
		}
		for _, r := range result.Records {
			table.Append(f.formatRecordRow(result.CheckName, r, colors))
		}
	}

	table.Render()

	f.printSummary(w, results, colors)

	return nil
}

func (f *TableFormatter) formatRecordRow(check string, r metrics.Record, colors *ColorScheme) []string {
	tags := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, t.Key+"="+t.Value)
	}

	status := ""
	if v, ok := r.Field("status"); ok {
		status = fmt.Sprintf("%v", v)
	}

	code := recordSeverity(r)
	sev := colors.SeverityColor(code)("%s", code.String())

	row := []string{colors.CheckName("%s", check), strings.Join(tags, ","), status, sev}

	if f.options.Wide {
		fields := make([]string, 0, len(r.Fields))
		for _, field := range r.Fields {
			if summaryFields[field.Key] {
				continue
			}
			fields = append(fields, fmt.Sprintf("%s=%v", field.Key, field.Value))
		}
		row = append(row, strings.Join(fields, ","))
	}

	return row
}

func (f *TableFormatter) formatFailedRow(result executor.Result, colors *ColorScheme) []string {
	row := []string{
		colors.CheckName("%s", result.CheckName),
		"-",
		colors.Error("%s", "Failed"),
		colors.Error("%s", "unavailable"),
	}

	if f.options.Wide {
		row = append(row, result.Error.Error())
	}

	return row
}

// formatMap formats a map as a two-column table (key-value pairs)
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		table.Append([]string{k, fmt.Sprintf("%v", data[k])})
	}

	table.Render()
	return nil
}

// createTable creates a new borderless, tab-padded table
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints a summary of the results
func (f *TableFormatter) printSummary(w io.Writer, results []executor.Result, colors *ColorScheme) {
	summary := executor.Summarize(results)

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Summary: ")

	successText := colors.Success("%d successful", summary.Successful)

	failedText := fmt.Sprintf("%d failed", summary.Failed)
	if summary.Failed > 0 {
		failedText = colors.Error("%s", failedText)
	}

	durationText := colors.Duration("max=%s", summary.MaxDuration.Round(1000))

	fmt.Fprintf(w, "%s, %s, %d records, %s\n", successText, failedText, summary.Records, durationText)
}
