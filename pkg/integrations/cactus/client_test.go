package cactus

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/molpic/molpic/pkg/errors"
	"github.com/molpic/molpic/pkg/integrations"
)

func TestClient_ResolveName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/caffeine/smiles" {
			fmt.Fprint(w, "CN1C=NC2=C1C(=O)N(C(=O)N2C)C\n")
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	smiles, err := c.ResolveName(context.Background(), "caffeine")
	if err != nil {
		t.Fatalf("ResolveName failed: %v", err)
	}
	if smiles != "CN1C=NC2=C1C(=O)N(C(=O)N2C)C" {
		t.Errorf("unexpected SMILES %q", smiles)
	}
}

func TestClient_ResolveName_Ambiguous(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "CCO\nOCC=C\n")
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.ResolveName(context.Background(), "vinyl alcohol")
	if !errors.Is(err, errors.ErrCodeAmbiguousName) {
		t.Fatalf("expected AMBIGUOUS_NAME, got %v", err)
	}
}

func TestClient_ResolveName_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.ResolveName(context.Background(), "xyzzy")
	if !stderrors.Is(err, integrations.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSplitCandidates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"single", "CCO\n", 1},
		{"duplicates collapsed", "CCO\nCCO\n", 1},
		{"distinct", "CCO\nOCC=C", 2},
		{"blank lines ignored", "\n\nCCO\n\n", 1},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitCandidates(tt.text); len(got) != tt.want {
				t.Errorf("splitCandidates(%q) = %v, want %d entries", tt.text, got, tt.want)
			}
		})
	}
}
