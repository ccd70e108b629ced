package config

import "time"

// Check selections accepted by --checks
const (
	ChecksAll        = "all"
	ChecksTSM        = "tsm"
	ChecksSystemInfo = "systeminfo"
)

// Log formats accepted by --log-format
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config is the resolved connector configuration. Keys match the command
// line flags; environment variables use the TME_ prefix.
type Config struct {
	// TSMUser and TSMPassword authenticate the credential login
	TSMUser     string `mapstructure:"tsm-user" yaml:"tsm-user,omitempty" json:"tsmUser,omitempty"`
	TSMPassword string `mapstructure:"tsm-password" yaml:"tsm-password,omitempty" json:"-"`

	// TSMHostname is the TSM base URL, e.g. https://localhost:8850/
	TSMHostname string `mapstructure:"tsm-hostname" yaml:"tsm-hostname" json:"tsmHostname"`

	// SIHostname is the Tableau Server base URL serving admin/systeminfo.xml
	SIHostname string `mapstructure:"si-hostname" yaml:"si-hostname" json:"siHostname"`

	// Checks selects which checks run: all, tsm or systeminfo
	Checks string `mapstructure:"checks" yaml:"checks" json:"checks"`

	// Passwordless switches the tsm check to the controller socket login
	Passwordless bool `mapstructure:"passwordless" yaml:"passwordless" json:"passwordless"`

	// TSMSocket is the controller login socket used in passwordless mode
	TSMSocket string `mapstructure:"tsm-socket" yaml:"tsm-socket" json:"tsmSocket"`

	// Timeout bounds every login, fetch and socket call
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`

	InsecureSkipVerify bool   `mapstructure:"insecure-skip-verify" yaml:"insecure-skip-verify" json:"insecureSkipVerify"`
	CAFile             string `mapstructure:"ca-file" yaml:"ca-file,omitempty" json:"caFile,omitempty"`

	Verbose   bool   `mapstructure:"verbose" yaml:"verbose,omitempty" json:"verbose,omitempty"`
	LogFormat string `mapstructure:"log-format" yaml:"log-format" json:"logFormat"`

	// LogFile sends logs to a size-rotated file instead of stderr
	LogFile string `mapstructure:"log-file" yaml:"log-file,omitempty" json:"logFile,omitempty"`
}

// RunTSM reports whether the tsm check is selected
func (c *Config) RunTSM() bool {
	return c.Checks == ChecksAll || c.Checks == ChecksTSM
}

// RunSystemInfo reports whether the systeminfo check is selected
func (c *Config) RunSystemInfo() bool {
	return c.Checks == ChecksAll || c.Checks == ChecksSystemInfo
}
