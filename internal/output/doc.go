// Package output renders check results for the status command.
//
// Four formats are supported: a table with one row per record and the
// severity colored by level, JSON, YAML, and line protocol identical to what
// the execd loop writes.
//
// # Basic Usage
//
//	formatter := output.NewFormatter(output.FormatTable, output.WithWide(true))
//	formatter.FormatChecks(os.Stdout, results)
//
// Colors are only used when the writer is a terminal and WithNoColor is not
// set.
package output
