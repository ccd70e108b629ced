// Package severity maps the open TSM and systeminfo status vocabulary onto
// the ordinal codes consumed by alerting thresholds.
package severity

// Code is the ordinal severity reported as the status_code field.
type Code int8

const (
	// Disabled marks a component that is administratively disabled.
	Disabled Code = -1
	// Healthy marks an active, enabled or running component.
	Healthy Code = 0
	// Degraded marks a busy or passive component.
	Degraded Code = 1
	// Unknown covers every status outside the known vocabulary.
	Unknown Code = 2
	// Unavailable is only reported by fallback records when a check fails.
	Unavailable Code = 3
)

// DeploymentDisabled is the deployment state that overrides an unknown status.
const DeploymentDisabled = "Disabled"

// Evaluate returns the severity of a status label. deploymentState may be
// empty when the source has no deployment axis. Healthy and degraded labels
// win over a disabled deployment state.
func Evaluate(status, deploymentState string) Code {
	switch status {
	case "Active", "Enabled", "Running":
		return Healthy
	case "Busy", "Passive":
		return Degraded
	}
	if deploymentState == DeploymentDisabled {
		return Disabled
	}
	return Unknown
}

// String returns the lower-case name of the code.
func (c Code) String() string {
	switch c {
	case Disabled:
		return "disabled"
	case Healthy:
		return "healthy"
	case Degraded:
		return "degraded"
	case Unknown:
		return "unknown"
	case Unavailable:
		return "unavailable"
	default:
		return "invalid"
	}
}

// Int64 returns the code as the integer field value.
func (c Code) Int64() int64 {
	return int64(c)
}
