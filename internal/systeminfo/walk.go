package systeminfo

import (
	"time"

	"github.com/aryankumar/tabmon/internal/metrics"
	"github.com/aryankumar/tabmon/internal/severity"
)

// Measurement is the name of every record produced by the systeminfo check
const Measurement = "tableau_systeminfo"

const (
	tagService    = "service"
	unknownStatus = "Unknown"
)

// structural wrappers are descended into but never reported
var structural = map[string]bool{
	"":           true,
	"systeminfo": true,
	"machines":   true,
	"machine":    true,
}

// Records flattens the diagnostics tree in document order. The service
// element becomes the aggregate record (worker=all, with elapsed) and every
// other non-structural element a per-process record.
func Records(root *Node, elapsed time.Duration, ts time.Time) []metrics.Record {
	var records []metrics.Record

	root.Walk(func(n *Node) {
		if structural[n.Name] {
			return
		}

		status := n.AttrOr("status", unknownStatus)
		code := severity.Evaluate(status, "").Int64()

		if n.Name == tagService {
			records = append(records, metrics.Record{
				Measurement: Measurement,
				Tags:        metrics.Tags("worker", "all"),
				Fields: []metrics.Field{
					metrics.Int("status_code", code),
					metrics.String("status", status),
					metrics.Int("elapsed", elapsed.Microseconds()),
				},
				Time: ts,
			})
			return
		}

		records = append(records, metrics.Record{
			Measurement: Measurement,
			Tags:        metrics.Tags("process", n.Name, "worker", n.AttrOr("worker", unknownStatus)),
			Fields: []metrics.Field{
				metrics.Int("status_code", code),
				metrics.String("status", status),
			},
			Time: ts,
		})
	})

	return records
}

// Fallback is the single record emitted when the systeminfo check fails
func Fallback(ts time.Time) metrics.Record {
	return metrics.Record{
		Measurement: Measurement,
		Tags:        metrics.Tags("worker", "all"),
		Fields: []metrics.Field{
			metrics.Int("status_code", severity.Unavailable.Int64()),
			metrics.String("status", "Unavailable"),
		},
		Time: ts,
	}
}
