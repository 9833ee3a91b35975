package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/avantolog/avanto/pkg/domain"
)

// memTokens is an in-memory TokenSource for tests.
type memTokens struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (m *memTokens) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *memTokens) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.cleared++
	return nil
}

func TestMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "not authenticated"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.User{ //nolint:errcheck
			Email: "maija@example.fi",
			Name:  "Maija",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "test-token"})
	me, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me() error: %v", err)
	}
	if me.Email != "maija@example.fi" {
		t.Errorf("Email = %q, want %q", me.Email, "maija@example.fi")
	}
	if me.Name != "Maija" {
		t.Errorf("Name = %q, want %q", me.Name, "Maija")
	}
}

func TestMe_NoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("Authorization header = %q, want empty", r.Header.Get("Authorization"))
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "not authenticated"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{})
	if _, err := c.Me(context.Background()); err == nil {
		t.Fatal("expected error without a token")
	}
}

func TestUnauthorized_ClearsTokensAndFiresHandlerOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "token expired"}) //nolint:errcheck
	}))
	defer srv.Close()

	tokens := &memTokens{token: "stale-token"}
	c := New(srv.URL, tokens)

	var calls int
	c.SetAuthErrorHandler(func() {
		calls++
		// Handler runs after the store is already cleared.
		if tokens.Token() != "" {
			t.Error("handler ran before token store was cleared")
		}
	})

	_, err := c.Me(context.Background())
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("errors.Is(err, ErrSessionExpired) = false, err = %v", err)
	}
	if calls != 1 {
		t.Errorf("auth error handler fired %d times, want 1", calls)
	}
	if tokens.cleared != 1 {
		t.Errorf("Clear() called %d times, want 1", tokens.cleared)
	}
}

func TestErrorEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error key", `{"error":"boom"}`, "boom"},
		{"message key", `{"message":"kaboom"}`, "kaboom"},
		{"plain text", `it broke`, "it broke"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(tt.body)) //nolint:errcheck
			}))
			defer srv.Close()

			c := New(srv.URL, &memTokens{token: "tok"})
			_, err := c.Me(context.Background())
			if err == nil {
				t.Fatal("expected error for 500 response")
			}
			if got := Message(err); got != tt.want {
				t.Errorf("Message(err) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "duplicate"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "tok"})
	_, err := c.Me(context.Background())
	if !IsStatus(err, http.StatusConflict) {
		t.Errorf("IsStatus(err, 409) = false, err = %v", err)
	}
	if IsStatus(err, http.StatusNotFound) {
		t.Errorf("IsStatus(err, 404) = true for a 409 error")
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing is listening anymore

	c := New(srv.URL, &memTokens{})
	_, err := c.Me(context.Background())
	if err == nil {
		t.Fatal("expected error when server is unreachable")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("errors.Is(err, ErrNetwork) = false, err = %v", err)
	}
}

func TestDoRequest_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Second)              // slow server
		json.NewEncoder(w).Encode(domain.User{}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "tok"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.Me(ctx)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestDebugWriter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(domain.User{}) //nolint:errcheck
	}))
	defer srv.Close()

	var buf strings.Builder
	c := New(srv.URL, &memTokens{token: "tok"})
	c.SetDebugWriter(&buf)

	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("Me() error: %v", err)
	}
	log := buf.String()
	if !strings.Contains(log, "-> GET /me") || !strings.Contains(log, "<- 200 GET /me") {
		t.Errorf("debug log = %q, want request and response lines", log)
	}
}
