package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", srv.Client(), zerolog.Nop())
}

func TestClient_Do_SendsHeadersAndBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/partner" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tkn" {
			t.Errorf("unexpected authorization %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected content type %q", got)
		}
		if got := r.Header.Get("X-Trace"); got != "1" {
			t.Errorf("custom header missing")
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"name":"Acme"}` {
			t.Errorf("unexpected body %s", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"p1"}`)
	})

	var out struct {
		ID string `json:"id"`
	}
	err := c.Do(context.Background(), http.MethodPost, "/partner", RequestOptions{
		Body:    map[string]string{"name": "Acme"},
		Token:   "tkn",
		Headers: map[string]string{"X-Trace": "1"},
	}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID != "p1" {
		t.Fatalf("unexpected decode %+v", out)
	}
}

func TestClient_Do_NoTokenNoAuthorization(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Errorf("authorization should be absent")
		}
		_, _ = io.WriteString(w, `{}`)
	})
	if err := c.Get(context.Background(), "/partner", "", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message wins", 404, `{"message":"Partner not found","error":"NOT_FOUND"}`, "Partner not found"},
		{"error as fallback", 400, `{"error":"Email already exists"}`, "Email already exists"},
		{"generic fallback", 500, `{}`, "something went wrong"},
		{"non json body", 502, `<html>`, "something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := c.Get(context.Background(), "/partner", "tkn", nil)
			ae, ok := AsAPIError(err)
			if !ok {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if ae.Kind != KindResponse || ae.StatusCode != tt.status || ae.Message != tt.wantMsg {
				t.Fatalf("unexpected error %+v", ae)
			}
		})
	}
}

func TestClient_Do_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := New(srv.URL, srv.Client(), zerolog.Nop())
	srv.Close()

	err := c.Get(context.Background(), "/partner", "", nil)
	ae, ok := AsAPIError(err)
	if !ok || ae.Kind != KindUnreachable || ae.StatusCode != 0 {
		t.Fatalf("unexpected error %v", err)
	}
	if ae.Message != "cannot reach server, make sure the backend is running" {
		t.Fatalf("unexpected message %q", ae.Message)
	}
	if errors.Unwrap(ae) == nil {
		t.Fatalf("transport cause should be wrapped")
	}
}

func TestClient_Do_MalformedSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"broken"`)
	})

	var out []map[string]any
	err := c.Get(context.Background(), "/partner", "tkn", &out)
	ae, ok := AsAPIError(err)
	if !ok || ae.Kind != KindMalformedResponse || ae.StatusCode != http.StatusOK {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestClient_Do_MalformedSuccessWithoutTarget(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>oops</html>`)
	})

	err := c.Do(context.Background(), http.MethodPost, "/partner", RequestOptions{Token: "tkn"}, nil)
	ae, ok := AsAPIError(err)
	if !ok || ae.Kind != KindMalformedResponse {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestClient_Do_EndpointWithoutLeadingSlash(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/partner" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = io.WriteString(w, `[]`)
	})

	if err := c.Do(context.Background(), http.MethodGet, "partner", RequestOptions{}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_EmptySuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	var out map[string]any
	if err := c.Delete(context.Background(), "/partner/p1", "tkn", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
