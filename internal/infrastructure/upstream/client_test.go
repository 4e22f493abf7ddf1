package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/affirmly/affirmation-api/internal/core/domain"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestClient_Fetch_Success(t *testing.T) {
	ts := serve(t, http.StatusOK, `{"affirmation": "You are amazing!"}`)
	c := NewClient(Config{URL: ts.URL})

	text, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "You are amazing!" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestClient_Fetch_NoDataCases(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"empty object", http.StatusOK, `{}`},
		{"empty field", http.StatusOK, `{"affirmation": ""}`},
		{"wrong type", http.StatusOK, `{"affirmation": 42}`},
		{"not json", http.StatusOK, `<html>oops</html>`},
		{"empty body", http.StatusOK, ``},
		{"server error", http.StatusInternalServerError, `{"affirmation": "ignored"}`},
		{"not found", http.StatusNotFound, ``},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := serve(t, tc.status, tc.body)
			c := NewClient(Config{URL: ts.URL})

			text, err := c.Fetch(context.Background())
			if !errors.Is(err, domain.ErrNoAffirmation) {
				t.Fatalf("expected ErrNoAffirmation, got %v", err)
			}
			if text != "" {
				t.Errorf("expected no text, got %q", text)
			}
		})
	}
}

func TestClient_Fetch_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := NewClient(Config{URL: url})
	_, err := c.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	if errors.Is(err, domain.ErrNoAffirmation) {
		t.Fatalf("connection failure must not be classified as no-data: %v", err)
	}
}

func TestClient_Fetch_TruncatedBodyIsTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Error("response writer does not support hijacking")
			return
		}
		conn, buf, err := hj.Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		defer conn.Close()

		// Promise more bytes than are sent, then drop the connection.
		_, _ = buf.WriteString("HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nContent-Length: 200\r\n\r\n")
		_, _ = buf.WriteString(`{"affirmation":"You are`)
		_ = buf.Flush()
	}))
	defer ts.Close()

	c := NewClient(Config{URL: ts.URL})
	text, err := c.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	if errors.Is(err, domain.ErrNoAffirmation) {
		t.Fatalf("connection dropped mid-body must not be classified as no-data: %v", err)
	}
	if text != "" {
		t.Errorf("expected no text, got %q", text)
	}
}

func TestClient_Fetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	c := NewClient(Config{URL: ts.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if errors.Is(err, domain.ErrNoAffirmation) {
		t.Fatalf("timeout must not be classified as no-data: %v", err)
	}
}

func TestClient_Fetch_SendsUserAgent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "affirmation-api/test" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		fmt.Fprint(w, `{"affirmation": "ok"}`)
	}))
	defer ts.Close()

	c := NewClient(Config{URL: ts.URL, UserAgent: "affirmation-api/test"})
	text, err := c.Fetch(context.Background())
	if err != nil || text != "ok" {
		t.Fatalf("expected ok, got %q err=%v", text, err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{URL: "   "})
	if c.url != DefaultURL {
		t.Errorf("expected default url, got %q", c.url)
	}
	if c.client.Timeout != defaultTimeout {
		t.Errorf("expected default timeout, got %v", c.client.Timeout)
	}
	if !strings.HasPrefix(c.url, "https://") {
		t.Errorf("default url should be https, got %q", c.url)
	}
}
