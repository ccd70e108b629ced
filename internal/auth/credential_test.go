package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aryankumar/tabmon/internal/util"
)

func TestCredentialAuthenticator_Authorize(t *testing.T) {
	var got loginRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/0.5/login" {
			t.Errorf("expected login path, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode login body: %v", err)
		}
		http.SetCookie(w, &http.Cookie{Name: "AUTH_COOKIE", Value: "session-1", Path: "/", HttpOnly: true})
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	a, err := NewCredentialAuthenticator(server.Client(), server.URL+"/", "admin", "s3cret", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cred, err := a.Authorize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Authentication.Name != "admin" || got.Authentication.Password != "s3cret" {
		t.Errorf("unexpected login body: %+v", got)
	}

	if cred.Header() != "AUTH_COOKIE=session-1" {
		t.Errorf("expected session cookie in credential, got %q", cred.Header())
	}

	if a.Method() != "credential" {
		t.Errorf("expected method credential, got %q", a.Method())
	}
}

func TestCredentialAuthenticator_BaseURLWithoutSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/0.5/login" {
			t.Errorf("expected login path, got %s", r.URL.Path)
		}
	}))
	defer server.Close()

	a, err := NewCredentialAuthenticator(server.Client(), server.URL, "u", "p", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := a.Authorize(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCredentialAuthenticator_Failures(t *testing.T) {
	t.Run("rejected login", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
		}))
		defer server.Close()

		a, _ := NewCredentialAuthenticator(server.Client(), server.URL, "u", "wrong", nil)
		_, err := a.Authorize(context.Background())
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !util.IsAuth(err) {
			t.Errorf("expected auth error, got %v", err)
		}
	})

	t.Run("unreachable server", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		a, _ := NewCredentialAuthenticator(http.DefaultClient, url, "u", "p", nil)
		_, err := a.Authorize(context.Background())
		if !util.IsAuth(err) {
			t.Errorf("expected auth error, got %v", err)
		}
	})

	t.Run("nil client", func(t *testing.T) {
		if _, err := NewCredentialAuthenticator(nil, "https://localhost:8850/", "u", "p", nil); err == nil {
			t.Error("expected error for nil client")
		}
	})
}

func TestCookieCredential(t *testing.T) {
	name, value := "workgroup_session_id", "abc123"

	tests := []struct {
		name       string
		cookieName *string
		value      *string
		wantEmpty  bool
	}{
		{name: "both present", cookieName: &name, value: &value},
		{name: "missing name", value: &value, wantEmpty: true},
		{name: "missing value", cookieName: &name, wantEmpty: true},
		{name: "both missing", wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred := CookieCredential(tt.cookieName, tt.value)
			if cred.Empty() != tt.wantEmpty {
				t.Fatalf("Empty() = %v, want %v", cred.Empty(), tt.wantEmpty)
			}
			if tt.wantEmpty {
				return
			}

			cookie := cred.Cookies[0]
			if cookie.Path != "/" || !cookie.Secure || !cookie.HttpOnly {
				t.Errorf("unexpected cookie attributes: %+v", cookie)
			}
			want := "workgroup_session_id=abc123; Path=/; Domain=localhost; HttpOnly; Secure"
			if cookie.String() != want {
				t.Errorf("cookie.String() = %q, want %q", cookie.String(), want)
			}
			if cred.Header() != "workgroup_session_id=abc123" {
				t.Errorf("Header() = %q", cred.Header())
			}
		})
	}
}
