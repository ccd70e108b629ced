package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/aryankumar/tabmon/internal/util"
)

// LoginPath is the TSM login endpoint relative to the TSM base URL
const LoginPath = "api/0.5/login"

const methodCredential = "credential"

type loginRequest struct {
	Authentication loginAuthentication `json:"authentication"`
}

type loginAuthentication struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// CredentialAuthenticator logs in with a TSM username and password. The
// session cookies set by the login response become the credential, so the
// status request does not depend on state kept inside the HTTP client.
type CredentialAuthenticator struct {
	client   *http.Client
	loginURL string
	username string
	password string
	logger   *slog.Logger
}

// NewCredentialAuthenticator creates an authenticator posting to
// {baseURL}/api/0.5/login
func NewCredentialAuthenticator(client *http.Client, baseURL, username, password string, logger *slog.Logger) (*CredentialAuthenticator, error) {
	if client == nil {
		return nil, fmt.Errorf("http client cannot be nil")
	}

	loginURL, err := url.JoinPath(baseURL, LoginPath)
	if err != nil {
		return nil, fmt.Errorf("invalid TSM base URL %q: %w", baseURL, err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &CredentialAuthenticator{
		client:   client,
		loginURL: loginURL,
		username: username,
		password: password,
		logger:   logger,
	}, nil
}

// Method implements Authenticator
func (a *CredentialAuthenticator) Method() string {
	return methodCredential
}

// Authorize implements Authenticator
func (a *CredentialAuthenticator) Authorize(ctx context.Context) (Credential, error) {
	body, err := json.Marshal(loginRequest{
		Authentication: loginAuthentication{Name: a.username, Password: a.password},
	})
	if err != nil {
		return Credential{}, util.NewAuthError(methodCredential, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.loginURL, bytes.NewReader(body))
	if err != nil {
		return Credential{}, util.NewAuthError(methodCredential, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return Credential{}, util.NewAuthError(methodCredential, &util.FetchError{URL: a.loginURL, Err: err})
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Credential{}, util.NewAuthError(methodCredential, &util.FetchError{URL: a.loginURL, StatusCode: resp.StatusCode})
	}

	cred := Credential{Cookies: resp.Cookies()}
	a.logger.Debug("tsm login succeeded",
		"method", methodCredential,
		"user", a.username,
		"cookies", cred.Names())

	return cred, nil
}
