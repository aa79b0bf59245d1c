package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/licensehub/console-gateway/internal/core/ports"
)

func TestClient_Do_ForwardsMethodPathBodyAndHeaders(t *testing.T) {
	var (
		gotMethod, gotPath, gotAuth, gotCT string
		gotBody                            []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"partner_id":"p9"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/", nil)
	resp, err := c.Do(context.Background(), ports.UpstreamRequest{
		Method: http.MethodPost,
		Path:   "/partner",
		Token:  "abc",
		Body:   []byte(`{"business_name":"Acme"}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPost || gotPath != "/api/partner" {
		t.Fatalf("unexpected request line: %s %s", gotMethod, gotPath)
	}
	if gotAuth != "Bearer abc" {
		t.Fatalf("unexpected authorization %q", gotAuth)
	}
	if gotCT != "application/json" {
		t.Fatalf("unexpected content type %q", gotCT)
	}
	if string(gotBody) != `{"business_name":"Acme"}` {
		t.Fatalf("body not forwarded verbatim: %s", gotBody)
	}
	if resp.StatusCode != http.StatusCreated || resp.ContentType != "application/json" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if string(resp.Body) != `{"partner_id":"p9"}` {
		t.Fatalf("unexpected body %s", resp.Body)
	}
}

func TestClient_Do_OmitsAuthorizationWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Errorf("authorization header should be absent")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, nil).Do(context.Background(), ports.UpstreamRequest{
		Method: http.MethodPost, Path: "auth/login",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_NonSuccessIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, nil).Do(context.Background(), ports.UpstreamRequest{Method: http.MethodGet, Path: "/license"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadGateway || resp.ContentType != "text/html" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClient_Do_HonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, nil).Do(ctx, ports.UpstreamRequest{Method: http.MethodGet, Path: "/partner"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	c := NewClient(srv.URL, nil)

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("404 should count as reachable, got %v", err)
	}

	srv.Close()
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("expected error once the backend is gone")
	}
}
