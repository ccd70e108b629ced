package systeminfo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aryankumar/tabmon/internal/util"
)

// DocumentPath is the diagnostics document relative to the server base URL
const DocumentPath = "admin/systeminfo.xml"

const maxBodySize = 10 * 1024 * 1024

// Client retrieves the diagnostics document. No authentication is sent.
type Client struct {
	http   *http.Client
	docURL string
	logger *slog.Logger
}

// NewClient creates a diagnostics client for the Tableau Server base URL
func NewClient(httpClient *http.Client, baseURL string, logger *slog.Logger) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client cannot be nil")
	}

	docURL, err := url.JoinPath(baseURL, DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("invalid systeminfo base URL %q: %w", baseURL, err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		http:   httpClient,
		docURL: docURL,
		logger: logger,
	}, nil
}

// Fetch retrieves and parses the diagnostics document. The returned
// duration covers the network exchange only.
func (c *Client) Fetch(ctx context.Context) (*Node, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.docURL, nil)
	if err != nil {
		return nil, 0, &util.FetchError{URL: c.docURL, Err: err}
	}
	req.Header.Set("Accept", "application/xml")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &util.FetchError{URL: c.docURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	elapsed := time.Since(start)
	if err != nil {
		return nil, elapsed, &util.FetchError{URL: c.docURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, elapsed, &util.FetchError{URL: c.docURL, StatusCode: resp.StatusCode}
	}

	if len(body) > maxBodySize {
		return nil, elapsed, &util.DecodeError{Source: "systeminfo.xml", Err: fmt.Errorf("document exceeds %d bytes", maxBodySize)}
	}

	root, err := Parse(bytes.NewReader(body))
	if err != nil {
		return nil, elapsed, &util.DecodeError{Source: "systeminfo.xml", Err: err}
	}

	c.logger.Debug("fetched systeminfo",
		"url", c.docURL,
		"elapsed", elapsed,
		"root", root.Name)

	return root, elapsed, nil
}
