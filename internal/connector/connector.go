// Package connector assembles the configured checks: one shared HTTP client,
// the selected authentication strategy and the tsm and systeminfo checks in
// their fixed run order.
package connector

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aryankumar/tabmon/internal/auth"
	"github.com/aryankumar/tabmon/internal/config"
	"github.com/aryankumar/tabmon/internal/metrics"
	"github.com/aryankumar/tabmon/internal/poll"
	"github.com/aryankumar/tabmon/internal/systeminfo"
	"github.com/aryankumar/tabmon/internal/transport"
	"github.com/aryankumar/tabmon/internal/tsm"
)

// Connector holds everything built from one configuration
type Connector struct {
	httpClient    *http.Client
	authenticator auth.Authenticator
	checks        []poll.Check
	logger        *slog.Logger
}

// New builds the connector for cfg. The authentication strategy is chosen
// here, once; it is only built when the tsm check is selected.
func New(cfg *config.Config, logger *slog.Logger) (*Connector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	httpClient, err := transport.NewHTTPClient(transport.Options{
		Timeout:            cfg.Timeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		CAFile:             cfg.CAFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build http client: %w", err)
	}

	c := &Connector{
		httpClient: httpClient,
		logger:     logger,
	}

	if cfg.RunTSM() {
		if err := c.addTSM(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.RunSystemInfo() {
		if err := c.addSystemInfo(cfg); err != nil {
			return nil, err
		}
	}

	if len(c.checks) == 0 {
		return nil, fmt.Errorf("no checks selected by %q", cfg.Checks)
	}

	logger.Debug("connector ready", "checks", c.CheckNames(), "auth", c.AuthMethod())

	return c, nil
}

func (c *Connector) addTSM(cfg *config.Config) error {
	logger := c.logger.With("check", tsm.CheckName)

	if cfg.Passwordless {
		c.authenticator = auth.NewPasswordlessAuthenticator(cfg.TSMSocket, cfg.Timeout, logger)
	} else {
		a, err := auth.NewCredentialAuthenticator(c.httpClient, cfg.TSMHostname, cfg.TSMUser, cfg.TSMPassword, logger)
		if err != nil {
			return fmt.Errorf("failed to build tsm authenticator: %w", err)
		}
		c.authenticator = a
	}

	client, err := tsm.NewClient(c.httpClient, cfg.TSMHostname, logger)
	if err != nil {
		return fmt.Errorf("failed to build tsm client: %w", err)
	}

	c.checks = append(c.checks, tsm.NewCheck(c.authenticator, client, logger))
	return nil
}

func (c *Connector) addSystemInfo(cfg *config.Config) error {
	logger := c.logger.With("check", systeminfo.CheckName)

	client, err := systeminfo.NewClient(c.httpClient, cfg.SIHostname, logger)
	if err != nil {
		return fmt.Errorf("failed to build systeminfo client: %w", err)
	}

	c.checks = append(c.checks, systeminfo.NewCheck(client, logger))
	return nil
}

// Checks returns the checks in run order
func (c *Connector) Checks() []poll.Check {
	return c.checks
}

// CheckNames returns the check names in run order
func (c *Connector) CheckNames() []string {
	names := make([]string, 0, len(c.checks))
	for _, check := range c.checks {
		names = append(names, check.Name())
	}
	return names
}

// AuthMethod names the authentication strategy, or "none" without the tsm check
func (c *Connector) AuthMethod() string {
	if c.authenticator == nil {
		return "none"
	}
	return c.authenticator.Method()
}

// Fallback returns the fallback record of the named check
func (c *Connector) Fallback(checkName string) (metrics.Record, bool) {
	for _, check := range c.checks {
		if check.Name() == checkName {
			return check.Fallback(), true
		}
	}
	return metrics.Record{}, false
}

// Close releases idle connections of the shared client
func (c *Connector) Close() {
	c.httpClient.CloseIdleConnections()
}

var (
	_ poll.Check = (*tsm.Check)(nil)
	_ poll.Check = (*systeminfo.Check)(nil)
)
