package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestClient_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Error("expected a User-Agent header on every request")
		}
		w.Write([]byte(`{"value":42}`))
	}))
	defer srv.Close()

	c := NewClient(nil)
	var out struct {
		Value int `json:"value"`
	}
	if err := c.GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if out.Value != 42 {
		t.Errorf("decoded value = %d, want 42", out.Value)
	}
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"404 maps to not found", http.StatusNotFound, ErrNotFound},
		{"400 maps to bad request", http.StatusBadRequest, ErrBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(nil)
			_, err := c.GetText(context.Background(), srv.URL)
			if !errors.Is(err, tt.want) {
				t.Errorf("status %d: got %v, want %v", tt.status, err, tt.want)
			}
		})
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("CCO"))
	}))
	defer srv.Close()

	c := NewClient(nil)
	text, err := c.GetText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetText failed after retries: %v", err)
	}
	if text != "CCO" {
		t.Errorf("body = %q, want CCO", text)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestClient_DoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(nil)
	_, err := c.GetText(context.Background(), srv.URL)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("not-found must not be retried, got %d attempts", calls.Load())
	}
}

func TestClient_MergesCustomHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "chemical/x-mdl-sdfile" {
			t.Errorf("Accept header = %q", got)
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(map[string]string{"Accept": "chemical/x-mdl-sdfile"})
	if _, err := c.GetText(context.Background(), srv.URL); err != nil {
		t.Fatalf("GetText failed: %v", err)
	}
}
