package systeminfo

import (
	"context"
	"log/slog"
	"time"

	"github.com/aryankumar/tabmon/internal/metrics"
)

// CheckName identifies the systeminfo check in configuration and logs
const CheckName = "systeminfo"

// Check fetches the diagnostics document and flattens it
type Check struct {
	client *Client
	logger *slog.Logger
	now    func() time.Time
}

// NewCheck creates the systeminfo check
func NewCheck(client *Client, logger *slog.Logger) *Check {
	if logger == nil {
		logger = slog.Default()
	}

	return &Check{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Name returns the check name
func (c *Check) Name() string {
	return CheckName
}

// Collect performs one unauthenticated fetch
func (c *Check) Collect(ctx context.Context) ([]metrics.Record, error) {
	root, elapsed, err := c.client.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	return Records(root, elapsed, c.now()), nil
}

// Fallback returns the degraded record reported when Collect fails
func (c *Check) Fallback() metrics.Record {
	return Fallback(c.now())
}
