package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/molpic/molpic/pkg/chem"
	"github.com/molpic/molpic/pkg/errors"
	"github.com/molpic/molpic/pkg/pipeline"
	"github.com/molpic/molpic/pkg/resolve"
)

type stubResolver struct {
	fail map[string]error
}

func (s *stubResolver) Resolve(_ context.Context, req resolve.Request) (*resolve.Structure, error) {
	if err, ok := s.fail[req.Query]; ok {
		return nil, err
	}
	return &resolve.Structure{
		Query:  req.Query,
		Label:  req.DisplayLabel(),
		SMILES: "O",
		Source: resolve.SourcePubChem,
		Molecule: &chem.Molecule{
			Atoms: []chem.Atom{
				{X: 0, Y: 0, Element: "O"},
				{X: 1, Y: 0, Element: "H"},
			},
			Bonds: []chem.Bond{{From: 0, To: 1, Order: 1}},
		},
	}, nil
}

func testServer(stub *stubResolver) *Server {
	logger := log.New(io.Discard)
	return New(pipeline.NewRunner(stub, logger), logger)
}

func postRender(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHandleRender(t *testing.T) {
	handler := testServer(&stubResolver{}).Handler()

	w := postRender(t, handler, `{"query": "water", "format": "svg"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id header")
	}
	if !strings.Contains(w.Body.String(), "<svg") {
		t.Error("body should be an SVG document")
	}
}

func TestHandleRender_PNG(t *testing.T) {
	handler := testServer(&stubResolver{}).Handler()

	w := postRender(t, handler, `{"query": "water", "format": "png", "width": 200, "height": 200}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
}

func TestHandleRender_Errors(t *testing.T) {
	stub := &stubResolver{fail: map[string]error{
		"nonexistium": errors.New(errors.ErrCodeCompoundNotFound, "no match for \"nonexistium\""),
		"downstream":  errors.New(errors.ErrCodeNetwork, "lookup service unreachable"),
	}}
	handler := testServer(stub).Handler()

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  errors.Code
	}{
		{"not found", `{"query": "nonexistium"}`, http.StatusNotFound, errors.ErrCodeCompoundNotFound},
		{"network", `{"query": "downstream"}`, http.StatusBadGateway, errors.ErrCodeNetwork},
		{"missing query", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad json", `{]`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad format", `{"query": "water", "format": "jpeg"}`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postRender(t, handler, tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
			var resp errorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("error body is not JSON: %v", err)
			}
			if resp.Error.Code != tt.wantErr {
				t.Errorf("code = %s, want %s", resp.Error.Code, tt.wantErr)
			}
		})
	}
}

func TestHandleHealthz(t *testing.T) {
	handler := testServer(&stubResolver{}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestHandleIndex(t *testing.T) {
	handler := testServer(&stubResolver{}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<form") {
		t.Error("index page should contain the render form")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := testServer(&stubResolver{}).Handler()

	// Generate one request so the counter has a sample.
	postRender(t, handler, `{"query": "water"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "molpic_http_requests_total") {
		t.Error("metrics output missing request counter")
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	handler := testServer(&stubResolver{}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Errorf("X-Request-Id = %q, want passthrough", got)
	}
}
