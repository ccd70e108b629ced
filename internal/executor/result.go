package executor

import (
	"fmt"
	"strings"
	"time"
)

// CountSuccessful returns the number of successful results (no error)
func CountSuccessful(results []Result) int {
	count := 0
	for _, r := range results {
		if r.Error == nil {
			count++
		}
	}
	return count
}

// CountFailed returns the number of failed results (has error)
func CountFailed(results []Result) int {
	count := 0
	for _, r := range results {
		if r.Error != nil {
			count++
		}
	}
	return count
}

// CountRecords returns the number of records across all results
func CountRecords(results []Result) int {
	count := 0
	for _, r := range results {
		count += len(r.Records)
	}
	return count
}

// FilterFailed returns only the failed results
func FilterFailed(results []Result) []Result {
	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// AverageDuration calculates the average duration of all results
func AverageDuration(results []Result) time.Duration {
	if len(results) == 0 {
		return 0
	}

	var total time.Duration
	for _, r := range results {
		total += r.Duration
	}

	return total / time.Duration(len(results))
}

// MaxDuration returns the maximum duration among all results
func MaxDuration(results []Result) time.Duration {
	if len(results) == 0 {
		return 0
	}

	max := results[0].Duration
	for _, r := range results {
		if r.Duration > max {
			max = r.Duration
		}
	}
	return max
}

// Summary provides a summary of one cycle
type Summary struct {
	Total       int
	Successful  int
	Failed      int
	Records     int
	AvgDuration time.Duration
	MaxDuration time.Duration
}

// Summarize creates a summary of the results
func Summarize(results []Result) Summary {
	return Summary{
		Total:       len(results),
		Successful:  CountSuccessful(results),
		Failed:      CountFailed(results),
		Records:     CountRecords(results),
		AvgDuration: AverageDuration(results),
		MaxDuration: MaxDuration(results),
	}
}

// String returns a human-readable string representation of the summary
func (s Summary) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Checks: %d, ", s.Total))
	sb.WriteString(fmt.Sprintf("Successful: %d, ", s.Successful))
	sb.WriteString(fmt.Sprintf("Failed: %d, ", s.Failed))
	sb.WriteString(fmt.Sprintf("Records: %d", s.Records))

	if s.Total > 0 {
		sb.WriteString(fmt.Sprintf(", Avg: %s", s.AvgDuration.Round(time.Millisecond)))
		sb.WriteString(fmt.Sprintf(", Max: %s", s.MaxDuration.Round(time.Millisecond)))
	}

	return sb.String()
}

// HasErrors returns true if any results contain errors
func HasErrors(results []Result) bool {
	for _, r := range results {
		if r.Error != nil {
			return true
		}
	}
	return false
}
