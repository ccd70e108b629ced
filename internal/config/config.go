package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aryankumar/tabmon/internal/auth"
	"github.com/aryankumar/tabmon/internal/transport"
	"github.com/aryankumar/tabmon/internal/util"
)

const (
	envPrefix         = "TME"
	defaultConfigName = ".tabmon"
	systemConfigDir   = "/etc/tabmon"
)

// Defaults for every key
var defaults = map[string]interface{}{
	"tsm-user":             "",
	"tsm-password":         "",
	"tsm-hostname":         "https://localhost:8850/",
	"si-hostname":          "https://localhost/",
	"checks":               ChecksAll,
	"passwordless":         false,
	"tsm-socket":           auth.DefaultSocketPath,
	"timeout":              transport.DefaultTimeout,
	"insecure-skip-verify": true,
	"ca-file":              "",
	"verbose":              false,
	"log-format":           LogFormatText,
	"log-file":             "",
}

// env names that do not follow the TME_<KEY> pattern
var envOverrides = map[string]string{
	"passwordless": "TME_TSM_PASSWORDLESS",
}

// Manager resolves configuration from flags, environment, an optional YAML
// file and defaults, in that order of precedence.
type Manager struct {
	configPath string
	viper      *viper.Viper
}

// NewManager creates a new configuration manager. configPath may be empty,
// in which case $HOME/.tabmon.yaml and /etc/tabmon/config.yaml are tried.
func NewManager(configPath string) *Manager {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return &Manager{
		configPath: configPath,
		viper:      v,
	}
}

// BindFlags binds every flag of the set whose name is a configuration key
func (m *Manager) BindFlags(flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if _, ok := defaults[f.Name]; !ok || bindErr != nil {
			return
		}
		if err := m.viper.BindPFlag(f.Name, f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}

// Load resolves and validates the configuration
func (m *Manager) Load() (*Config, error) {
	m.viper.SetEnvPrefix(envPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	m.viper.AutomaticEnv()
	for key, env := range envOverrides {
		if err := m.viper.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// without --config, a missing default file is fine: flags and
	// environment suffice
	path := m.configPath
	if path == "" {
		path = firstExisting(DefaultConfigPaths())
	}
	if path != "" {
		m.viper.SetConfigFile(path)
		if err := m.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := m.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFileUsed returns the config file that was read, if any
func (m *Manager) ConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

// Validate reports every invalid setting at once. Missing credentials are an
// error only when the tsm check runs with the credential login.
func (c *Config) Validate() error {
	errs := &util.MultiError{}

	switch c.Checks {
	case ChecksAll, ChecksTSM, ChecksSystemInfo:
	default:
		errs.Add(util.NewValidationError("checks", c.Checks, "must be one of all, tsm, systeminfo"))
	}

	if c.RunTSM() {
		errs.Add(validateURL("tsm-hostname", c.TSMHostname))
		if c.Passwordless {
			if c.TSMSocket == "" {
				errs.Add(util.NewValidationError("tsm-socket", nil, "is required with --passwordless"))
			}
		} else {
			if c.TSMUser == "" {
				errs.Add(util.NewValidationError("tsm-user", nil, "is required unless --passwordless is set"))
			}
			if c.TSMPassword == "" {
				errs.Add(util.NewValidationError("tsm-password", nil, "is required unless --passwordless is set"))
			}
		}
	}

	if c.RunSystemInfo() {
		errs.Add(validateURL("si-hostname", c.SIHostname))
	}

	if c.Timeout <= 0 {
		errs.Add(util.NewValidationError("timeout", c.Timeout, "must be positive"))
	} else if c.Timeout > 5*time.Minute {
		errs.Add(util.NewValidationError("timeout", c.Timeout, "must not exceed 5m"))
	}

	if c.CAFile != "" {
		if _, err := os.Stat(c.CAFile); err != nil {
			errs.Add(util.NewValidationError("ca-file", c.CAFile, "cannot be read"))
		}
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		errs.Add(util.NewValidationError("log-format", c.LogFormat, "must be text or json"))
	}

	if c.LogFile != "" {
		if info, err := os.Stat(filepath.Dir(c.LogFile)); err != nil || !info.IsDir() {
			errs.Add(util.NewValidationError("log-file", c.LogFile, "directory does not exist"))
		}
	}

	return errs.ErrorOrNil()
}

func validateURL(field, raw string) error {
	if raw == "" {
		return util.NewValidationError(field, nil, "is required")
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return util.NewValidationError(field, raw, "must be an absolute http(s) URL")
	}
	return nil
}

// DefaultConfigPaths returns the files tried, in order, when no config
// file is given
func DefaultConfigPaths() []string {
	paths := make([]string, 0, 2)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, defaultConfigName+".yaml"))
	}
	return append(paths, filepath.Join(systemConfigDir, "config.yaml"))
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
