// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gatekeeper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/paper-hunter/pkg/types"
)

const absPageHTML = `<!DOCTYPE html>
<html><body>
<div class="authors">
  <a href="#">Ada Lovelace</a>,
  <a href="#">Grace Hopper</a>
</div>
<div class="metatable">
  Comments:   accepted at
  RecSys 2026
</div>
<blockquote class="abstract">This text is not part of the contact block.</blockquote>
</body></html>`

func TestContactText(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, absPageHTML)
	}))
	defer ts.Close()

	s := &ContactScraper{Client: ts.Client(), UserAgent: "test/0.1"}
	text, err := s.ContactText(context.Background(), types.Paper{ID: ts.URL})
	if err != nil {
		t.Fatalf("ContactText() error = %v", err)
	}

	want := "Ada Lovelace, Grace Hopper Comments: accepted at RecSys 2026"
	if text != want {
		t.Errorf("ContactText() = %q, want %q", text, want)
	}
	if gotUA != "test/0.1" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestContactTextNoBlocks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><p>nothing recognizable</p></body></html>`)
	}))
	defer ts.Close()

	s := &ContactScraper{Client: ts.Client()}
	text, err := s.ContactText(context.Background(), types.Paper{ID: ts.URL})
	if err != nil {
		t.Fatalf("ContactText() error = %v", err)
	}
	if text != "" {
		t.Errorf("ContactText() = %q, want empty", text)
	}
}

func TestContactTextHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	s := &ContactScraper{Client: ts.Client()}
	if _, err := s.ContactText(context.Background(), types.Paper{ID: ts.URL}); err == nil {
		t.Fatal("expected error on HTTP 403")
	}
}

func TestContactTextEmptyID(t *testing.T) {
	s := &ContactScraper{Client: http.DefaultClient}
	text, err := s.ContactText(context.Background(), types.Paper{})
	if err != nil {
		t.Fatalf("ContactText() error = %v", err)
	}
	if text != "" {
		t.Errorf("ContactText() = %q, want empty", text)
	}
}
