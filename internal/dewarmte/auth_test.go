package dewarmte

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// newLoginServer returns a test server that accepts any credentials on
// /auth/token/ and counts login attempts.
func newLoginServer(t *testing.T, token string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var logins atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/token/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		logins.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access":"` + token + `"}`))
	}))
	return server, &logins
}

func TestNeedsRefresh_NoToken(t *testing.T) {
	auth := NewAuth("user@example.com", "secret", "http://unused", nil)

	if !auth.NeedsRefresh(DefaultRefreshBuffer) {
		t.Error("NeedsRefresh() = false for unauthenticated state, want true")
	}
}

func TestNeedsRefresh_TokenAging(t *testing.T) {
	server, _ := newLoginServer(t, "tok-1")
	defer server.Close()

	auth := NewAuth("user@example.com", "secret", server.URL, nil)
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return clock }

	if !auth.EnsureToken(true) {
		t.Fatal("EnsureToken(true) = false, want true")
	}

	// Fresh token: well inside the lifetime.
	if auth.NeedsRefresh(DefaultRefreshBuffer) {
		t.Error("NeedsRefresh() = true immediately after login, want false")
	}

	// Just inside the refresh buffer.
	clock = clock.Add(DefaultTokenLifetime - DefaultRefreshBuffer - time.Second)
	if auth.NeedsRefresh(DefaultRefreshBuffer) {
		t.Error("NeedsRefresh() = true one second before the buffer, want false")
	}

	// At the buffer boundary the token is due.
	clock = clock.Add(time.Second)
	if !auth.NeedsRefresh(DefaultRefreshBuffer) {
		t.Error("NeedsRefresh() = false at lifetime-buffer, want true")
	}
}

func TestMarkExpired(t *testing.T) {
	server, _ := newLoginServer(t, "tok-1")
	defer server.Close()

	auth := NewAuth("user@example.com", "secret", server.URL, nil)
	if !auth.EnsureToken(true) {
		t.Fatal("EnsureToken(true) = false, want true")
	}
	if auth.Token() != "tok-1" {
		t.Fatalf("Token() = %q, want tok-1", auth.Token())
	}

	auth.MarkExpired()

	if auth.Token() != "" {
		t.Errorf("Token() = %q after MarkExpired, want empty", auth.Token())
	}
	if !auth.NeedsRefresh(DefaultRefreshBuffer) {
		t.Error("NeedsRefresh() = false after MarkExpired, want true")
	}
}

func TestEnsureToken_HotPathNoNetwork(t *testing.T) {
	server, logins := newLoginServer(t, "tok-1")
	defer server.Close()

	auth := NewAuth("user@example.com", "secret", server.URL, nil)

	if !auth.EnsureToken(false) {
		t.Fatal("first EnsureToken(false) = false, want true")
	}
	if logins.Load() != 1 {
		t.Fatalf("login count = %d after first EnsureToken, want 1", logins.Load())
	}

	// Subsequent calls with a fresh token must not touch the network.
	for i := 0; i < 5; i++ {
		if !auth.EnsureToken(false) {
			t.Fatalf("EnsureToken(false) call %d = false, want true", i+2)
		}
	}
	if logins.Load() != 1 {
		t.Errorf("login count = %d after repeated EnsureToken, want 1", logins.Load())
	}
}

func TestEnsureToken_ForceAlwaysLogsIn(t *testing.T) {
	server, logins := newLoginServer(t, "tok-1")
	defer server.Close()

	auth := NewAuth("user@example.com", "secret", server.URL, nil)
	auth.EnsureToken(true)
	auth.EnsureToken(true)

	if logins.Load() != 2 {
		t.Errorf("login count = %d after two forced calls, want 2", logins.Load())
	}
}

func TestEnsureToken_LoginFailureClearsState(t *testing.T) {
	good, _ := newLoginServer(t, "tok-1")
	defer good.Close()

	auth := NewAuth("user@example.com", "secret", good.URL, nil)
	if !auth.EnsureToken(true) {
		t.Fatal("EnsureToken(true) = false, want true")
	}

	// Point at a server that rejects the credentials.
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
	}))
	defer bad.Close()
	auth.baseURL = bad.URL

	if auth.EnsureToken(true) {
		t.Error("EnsureToken(true) = true against rejecting server, want false")
	}
	if auth.Token() != "" {
		t.Errorf("Token() = %q after failed login, want empty", auth.Token())
	}
}

func TestEnsureToken_EmptyAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access":""}`))
	}))
	defer server.Close()

	auth := NewAuth("user@example.com", "secret", server.URL, nil)
	if auth.EnsureToken(true) {
		t.Error("EnsureToken(true) = true for empty access token, want false")
	}
}

func TestEnsureToken_SendsBrowserHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"access":"tok-1"}`))
	}))
	defer server.Close()

	auth := NewAuth("user@example.com", "secret", server.URL, nil)
	if !auth.EnsureToken(true) {
		t.Fatal("EnsureToken(true) = false, want true")
	}

	// The vendor rejects logins without browser-style headers.
	checks := map[string]string{
		"Origin":        "https://mydewarmte.com",
		"Referer":       "https://mydewarmte.com/",
		"Content-Type":  "application/json",
		"Authorization": "Bearer null",
	}
	for header, want := range checks {
		if got.Get(header) != want {
			t.Errorf("login %s header = %q, want %q", header, got.Get(header), want)
		}
	}
	if got.Get("User-Agent") == "" || got.Get("User-Agent") == "Go-http-client/1.1" {
		t.Errorf("login User-Agent = %q, want a browser user agent", got.Get("User-Agent"))
	}
}

func TestAuthHeader(t *testing.T) {
	if got := authHeader("abc123"); got != "Bearer abc123" {
		t.Errorf("authHeader() = %q, want 'Bearer abc123'", got)
	}
}
