package output

import (
	"errors"
	"time"

	"github.com/aryankumar/tabmon/internal/executor"
	"github.com/aryankumar/tabmon/internal/metrics"
)

var testTime = time.Unix(1700000000, 0).UTC()

func sampleResults() []executor.Result {
	return []executor.Result{
		{
			CheckName: "tsm",
			Duration:  120 * time.Millisecond,
			Records: []metrics.Record{
				{
					Measurement: "tableau_tsm_status",
					Tags:        metrics.Tags("node", "all", "service", "all", "instance", "all"),
					Fields: []metrics.Field{
						metrics.Int("status_code", 0),
						metrics.String("status", "Running"),
						metrics.String("requested_deployment_state", "Enabled"),
						metrics.Int("elapsed", 1500),
					},
					Time: testTime,
				},
				{
					Measurement: "tableau_tsm_status",
					Tags:        metrics.Tags("node", "node1", "service", "backgrounder", "instance", "0"),
					Fields: []metrics.Field{
						metrics.Int("status_code", 1),
						metrics.String("status", "Busy"),
					},
					Time: testTime,
				},
			},
		},
		{
			CheckName: "systeminfo",
			Duration:  5 * time.Second,
			Error:     errors.New("fetch https://localhost/admin/systeminfo.xml: i/o timeout"),
		},
	}
}

func sampleFallback(check string) (metrics.Record, bool) {
	if check != "systeminfo" {
		return metrics.Record{}, false
	}
	return metrics.Record{
		Measurement: "tableau_systeminfo",
		Tags:        metrics.Tags("worker", "all"),
		Fields:      []metrics.Field{metrics.Int("status_code", 3), metrics.String("status", "Unavailable")},
		Time:        testTime,
	}, true
}
