package tsm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aryankumar/tabmon/internal/auth"
	"github.com/aryankumar/tabmon/internal/util"
)

// StatusPath is the TSM status endpoint relative to the TSM base URL
const StatusPath = "api/0.5/status"

// maxBodySize bounds the status document read into memory
const maxBodySize = 10 * 1024 * 1024

// Client retrieves the cluster status document
type Client struct {
	http      *http.Client
	statusURL string
	logger    *slog.Logger
}

// NewClient creates a status client for the TSM base URL
func NewClient(httpClient *http.Client, baseURL string, logger *slog.Logger) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client cannot be nil")
	}

	statusURL, err := url.JoinPath(baseURL, StatusPath)
	if err != nil {
		return nil, fmt.Errorf("invalid TSM base URL %q: %w", baseURL, err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		http:      httpClient,
		statusURL: statusURL,
		logger:    logger,
	}, nil
}

// FetchClusterStatus retrieves and decodes the status document. The returned
// duration covers the network exchange only, not decoding.
func (c *Client) FetchClusterStatus(ctx context.Context, cred auth.Credential) (*ClusterStatus, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.statusURL, nil)
	if err != nil {
		return nil, 0, &util.FetchError{URL: c.statusURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	cred.Apply(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &util.FetchError{URL: c.statusURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	elapsed := time.Since(start)
	if err != nil {
		return nil, elapsed, &util.FetchError{URL: c.statusURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, elapsed, &util.FetchError{URL: c.statusURL, StatusCode: resp.StatusCode}
	}

	status, err := Decode(body)
	if err != nil {
		return nil, elapsed, err
	}

	c.logger.Debug("fetched tsm status",
		"url", c.statusURL,
		"elapsed", elapsed,
		"nodes", len(status.Nodes),
		"instances", status.InstanceCount())

	return status, elapsed, nil
}

// Decode parses a status document body
func Decode(body []byte) (*ClusterStatus, error) {
	if len(body) > maxBodySize {
		return nil, &util.DecodeError{Source: "tsm status", Err: fmt.Errorf("document exceeds %d bytes", maxBodySize)}
	}

	var doc StatusDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &util.DecodeError{Source: "tsm status", Err: err}
	}
	if doc.ClusterStatus == nil {
		return nil, &util.DecodeError{Source: "tsm status", Err: fmt.Errorf("missing clusterStatus")}
	}

	return doc.ClusterStatus, nil
}
