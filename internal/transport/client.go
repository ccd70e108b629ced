// Package transport builds the HTTP client shared by every check.
package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"
)

// DefaultTimeout bounds every request made by the connector
const DefaultTimeout = 5 * time.Second

// Options configures the shared HTTP client
type Options struct {
	// Timeout applies to connect, write and read of a single request
	Timeout time.Duration

	// InsecureSkipVerify disables certificate verification. Tableau Server
	// commonly runs TSM with a self-signed certificate.
	InsecureSkipVerify bool

	// CAFile is an optional PEM bundle trusted in addition to the system pool
	CAFile string
}

// NewHTTPClient creates the client passed explicitly into each check.
// It keeps no cookie jar: sessions travel in auth.Credential.
func NewHTTPClient(opts Options) (*http.Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	tlsConfig := &tls.Config{InsecureSkipVerify: opts.InsecureSkipVerify} //nolint:gosec
	if opts.CAFile != "" {
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		caData, err := os.ReadFile(opts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read ca file: %w", err)
		}
		if !pool.AppendCertsFromPEM(caData) {
			return nil, fmt.Errorf("ca file %s contains no PEM certificates", opts.CAFile)
		}
		tlsConfig.RootCAs = pool
	}

	dialer := &net.Dialer{Timeout: timeout}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSClientConfig:       tlsConfig,
			TLSHandshakeTimeout:   timeout,
			ResponseHeaderTimeout: timeout,
			MaxIdleConns:          4,
			IdleConnTimeout:       90 * time.Second,
		},
	}, nil
}
