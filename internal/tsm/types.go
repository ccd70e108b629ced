// Package tsm polls the Tableau Services Manager status API and flattens the
// cluster, node, service and instance hierarchy into status records.
package tsm

// StatusDocument is the body of GET /api/0.5/status
type StatusDocument struct {
	ClusterStatus *ClusterStatus `json:"clusterStatus"`
}

// ClusterStatus is the cluster-wide rollup and its nodes
type ClusterStatus struct {
	RollupStatus                   string       `json:"rollupStatus"`
	RollupRequestedDeploymentState string       `json:"rollupRequestedDeploymentState"`
	Nodes                          []NodeStatus `json:"nodes"`
}

// NodeStatus is the rollup of a single node
type NodeStatus struct {
	NodeID                         string          `json:"nodeId"`
	RollupStatus                   string          `json:"rollupStatus"`
	RollupRequestedDeploymentState string          `json:"rollupRequestedDeploymentState"`
	Services                       []ServiceStatus `json:"services"`
}

// ServiceStatus groups the instances of one service on a node
type ServiceStatus struct {
	ServiceName string           `json:"serviceName"`
	Instances   []InstanceStatus `json:"instances"`
}

// InstanceStatus is the state of one service process.
// TimestampUTC is passed through as reported by TSM.
type InstanceStatus struct {
	InstanceID             string  `json:"instanceId"`
	ProcessStatus          string  `json:"processStatus"`
	CurrentDeploymentState string  `json:"currentDeploymentState"`
	Code                   *string `json:"code,omitempty"`
	Message                *string `json:"message,omitempty"`
	TimestampUTC           uint64  `json:"timestampUtc"`
}

// InstanceCount returns the number of instances across all nodes and services
func (c *ClusterStatus) InstanceCount() int {
	count := 0
	for _, node := range c.Nodes {
		for _, service := range node.Services {
			count += len(service.Instances)
		}
	}
	return count
}
