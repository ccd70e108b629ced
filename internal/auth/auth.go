// Package auth obtains the session that authorizes requests to the TSM
// status API. Two strategies exist: an HTTP login with username and password,
// and a passwordless login over the local TSM controller socket.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// Authenticator produces a credential for one poll cycle
type Authenticator interface {
	// Authorize performs the login. Failures are *util.AuthError.
	Authorize(ctx context.Context) (Credential, error)

	// Method names the strategy for logging
	Method() string
}

// Credential carries the session cookies for a single cycle. It is never
// cached across cycles.
type Credential struct {
	Cookies []*http.Cookie
}

// Empty reports whether the credential carries no cookies
func (c Credential) Empty() bool {
	return len(c.Cookies) == 0
}

// Apply attaches the credential to a request as a Cookie header
func (c Credential) Apply(req *http.Request) {
	for _, cookie := range c.Cookies {
		req.AddCookie(cookie)
	}
}

// Header returns the Cookie header value that Apply sends
func (c Credential) Header() string {
	req := &http.Request{Header: make(http.Header)}
	c.Apply(req)
	return req.Header.Get("Cookie")
}

// Names returns the cookie names, safe to log
func (c Credential) Names() string {
	names := make([]string, 0, len(c.Cookies))
	for _, cookie := range c.Cookies {
		names = append(names, cookie.Name)
	}
	return strings.Join(names, ",")
}

// CookieCredential builds the credential handed out by the passwordless
// login. Both name and value must be present, otherwise the credential is
// empty.
func CookieCredential(name, value *string) Credential {
	if name == nil || value == nil {
		return Credential{}
	}

	return Credential{Cookies: []*http.Cookie{{
		Name:     *name,
		Value:    *value,
		Path:     "/",
		Domain:   "localhost",
		Secure:   true,
		HttpOnly: true,
	}}}
}
