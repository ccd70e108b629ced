package tsm

import (
	"context"
	"log/slog"
	"time"

	"github.com/aryankumar/tabmon/internal/auth"
	"github.com/aryankumar/tabmon/internal/metrics"
)

// CheckName identifies the tsm check in configuration and logs
const CheckName = "tsm"

// Check authorizes, fetches the cluster status and flattens it
type Check struct {
	auth   auth.Authenticator
	client *Client
	logger *slog.Logger
	now    func() time.Time
}

// NewCheck creates the tsm check
func NewCheck(authenticator auth.Authenticator, client *Client, logger *slog.Logger) *Check {
	if logger == nil {
		logger = slog.Default()
	}

	return &Check{
		auth:   authenticator,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Name returns the check name
func (c *Check) Name() string {
	return CheckName
}

// Collect performs one login and one status fetch. It returns either the
// full record set or an error, never a partial set.
func (c *Check) Collect(ctx context.Context) ([]metrics.Record, error) {
	cred, err := c.auth.Authorize(ctx)
	if err != nil {
		return nil, err
	}

	status, elapsed, err := c.client.FetchClusterStatus(ctx, cred)
	if err != nil {
		return nil, err
	}

	ts := c.now()
	return Records(status, elapsed, ts), nil
}

// Fallback returns the degraded record reported when Collect fails
func (c *Check) Fallback() metrics.Record {
	return Fallback(c.now())
}
