package tsm

import (
	"time"

	"github.com/aryankumar/tabmon/internal/metrics"
	"github.com/aryankumar/tabmon/internal/severity"
)

// Measurement is the name of every record produced by the tsm check
const Measurement = "tableau_tsm_status"

const tagAll = "all"

// Records flattens a cluster status into one record for the cluster, then for
// each node its own record followed by one record per instance of each of its
// services. Document order is preserved and every record carries ts.
func Records(status *ClusterStatus, elapsed time.Duration, ts time.Time) []metrics.Record {
	records := make([]metrics.Record, 0, 1+len(status.Nodes)+status.InstanceCount())

	records = append(records, metrics.Record{
		Measurement: Measurement,
		Tags:        metrics.Tags("node", tagAll, "service", tagAll, "instance", tagAll),
		Fields: []metrics.Field{
			metrics.Int("status_code", severity.Evaluate(status.RollupStatus, status.RollupRequestedDeploymentState).Int64()),
			metrics.String("status", status.RollupStatus),
			metrics.String("requested_deployment_state", status.RollupRequestedDeploymentState),
			metrics.Int("elapsed", elapsed.Microseconds()),
		},
		Time: ts,
	})

	for _, node := range status.Nodes {
		records = append(records, metrics.Record{
			Measurement: Measurement,
			Tags:        metrics.Tags("node", node.NodeID, "service", tagAll, "instance", tagAll),
			Fields: []metrics.Field{
				metrics.Int("status_code", severity.Evaluate(node.RollupStatus, node.RollupRequestedDeploymentState).Int64()),
				metrics.String("status", node.RollupStatus),
				metrics.String("requested_deployment_state", node.RollupRequestedDeploymentState),
			},
			Time: ts,
		})

		for _, service := range node.Services {
			for _, instance := range service.Instances {
				records = append(records, instanceRecord(node.NodeID, service.ServiceName, instance, ts))
			}
		}
	}

	return records
}

func instanceRecord(nodeID, serviceName string, instance InstanceStatus, ts time.Time) metrics.Record {
	return metrics.Record{
		Measurement: Measurement,
		Tags:        metrics.Tags("node", nodeID, "service", serviceName, "instance", instance.InstanceID),
		Fields: []metrics.Field{
			metrics.Int("status_code", severity.Evaluate(instance.ProcessStatus, instance.CurrentDeploymentState).Int64()),
			metrics.String("status", instance.ProcessStatus),
			metrics.String("deployment_state", instance.CurrentDeploymentState),
			metrics.String("message", valueOrEmpty(instance.Message)),
			metrics.String("code", valueOrEmpty(instance.Code)),
			metrics.Int("timestamp_utc", int64(instance.TimestampUTC)),
		},
		Time: ts,
	}
}

// Fallback is the single record emitted when the tsm check fails
func Fallback(ts time.Time) metrics.Record {
	return metrics.Record{
		Measurement: Measurement,
		Tags:        metrics.Tags("node", tagAll, "service", tagAll, "instance", tagAll),
		Fields: []metrics.Field{
			metrics.Int("status_code", severity.Unavailable.Int64()),
			metrics.String("status", "Unavailable"),
			metrics.String("requested_deployment_state", "Unknown"),
		},
		Time: ts,
	}
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
