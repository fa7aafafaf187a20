package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"livechat/auth"
	"livechat/logging"
)

type failingStore struct{}

func (failingStore) Token(context.Context) (string, error) {
	return "", errors.New("disk on fire")
}

func (failingStore) SaveToken(context.Context, string) error { return nil }
func (failingStore) ClearToken(context.Context) error        { return nil }

func TestBearerTransportAddsToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	creds := auth.NewMemoryStore()
	client := &http.Client{Transport: &BearerTransport{Credentials: creds}}

	if _, err := client.Get(srv.URL); err != nil {
		t.Fatalf("request: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization without a token, got %q", gotAuth)
	}

	_ = creds.SaveToken(context.Background(), "tok")
	if _, err := client.Get(srv.URL); err != nil {
		t.Fatalf("request: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestBearerTransportPropagatesStoreFailure(t *testing.T) {
	client := &http.Client{Transport: &BearerTransport{Credentials: failingStore{}}}
	if _, err := client.Get("http://127.0.0.1:1"); err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Fatalf("expected credential store error, got %v", err)
	}
}

func TestLoggingTransportSetsRequestID(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(RequestIDHeader)
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	client := &http.Client{Transport: &LoggingTransport{Log: log}}

	resp, err := client.Get(srv.URL + "/chats")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	if gotID == "" {
		t.Fatalf("expected a request id header")
	}
	if !strings.Contains(buf.String(), gotID) || !strings.Contains(buf.String(), "api - request rejected") {
		t.Fatalf("expected rejected log line with request id, got %q", buf.String())
	}
}

func TestRateLimitTransportWaits(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewRateLimitTransport(1, 1, nil)}
	if _, err := client.Get(srv.URL); err != nil {
		t.Fatalf("first request: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	if _, err := client.Do(req); err == nil {
		t.Fatalf("expected the second request to be held back past its deadline")
	}
	if hits != 1 {
		t.Fatalf("expected only one request to reach the server, got %d", hits)
	}
}

func TestLoggingTransportUsesContextLogger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	client := &http.Client{Transport: &LoggingTransport{}}

	req, _ := http.NewRequestWithContext(logging.WithContext(context.Background(), log), http.MethodGet, srv.URL+"/users", nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	if !strings.Contains(buf.String(), "api - request completed") {
		t.Fatalf("expected the context logger to receive the request line, got %q", buf.String())
	}
}

func TestBearerTransportLogsStoreFailureWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	client := &http.Client{Transport: &LoggingTransport{
		Log:  log,
		Base: &BearerTransport{Credentials: failingStore{}},
	}}

	req, _ := http.NewRequest(http.MethodGet, "http://127.0.0.1:1/chats", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	if _, err := client.Do(req); err == nil {
		t.Fatalf("expected credential store error")
	}
	out := buf.String()
	if !strings.Contains(out, "api - credentials - token read failed") || !strings.Contains(out, "req-7") {
		t.Fatalf("expected failure logged with the request id, got %q", out)
	}
}
