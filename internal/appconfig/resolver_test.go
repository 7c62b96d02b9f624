package appconfig_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alt1hub/pluginhub/internal/appconfig"
)

func newResolver() *appconfig.Resolver {
	return appconfig.NewResolver(2 * time.Second)
}

// TestFetch verifies a reachable JSON document parses into a Config.
func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"appName":"Clue Solver","defaultWidth":400,"defaultHeight":300,"permissions":"pixel"}`))
	}))
	defer server.Close()

	cfg, err := newResolver().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if cfg.AppName != "Clue Solver" || cfg.DefaultWidth != 400 || cfg.Permissions != "pixel" {
		t.Errorf("Unexpected config: %+v", cfg)
	}
}

// TestFetchNon200 verifies non-2xx responses are errors.
func TestFetchNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := newResolver().Fetch(context.Background(), server.URL); err == nil {
		t.Error("Expected an error for a 404 response")
	}
}

// TestResolveAllIsolation verifies one failing URL never rejects the batch and
// results stay aligned with the input.
func TestResolveAllIsolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"appName":"Good"}`))
	}))
	defer server.Close()

	urls := []string{
		server.URL,
		"http://127.0.0.1:1/unreachable.json",
		"",
		server.URL,
	}

	configs := newResolver().ResolveAll(context.Background(), urls)
	if len(configs) != len(urls) {
		t.Fatalf("Expected %d results, got %d", len(urls), len(configs))
	}
	if configs[0] == nil || configs[0].AppName != "Good" {
		t.Error("Expected index 0 to resolve")
	}
	if configs[1] != nil {
		t.Error("Expected index 1 to fail to nil")
	}
	if configs[2] != nil {
		t.Error("Expected index 2 (empty URL) to be nil")
	}
	if configs[3] == nil {
		t.Error("Expected index 3 to resolve")
	}
}

// TestValidateJSONURL verifies JSON documents pass and plain text fails.
func TestValidateJSONURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/good", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	mux.HandleFunc("/bad", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain text"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	r := newResolver()
	if err := r.ValidateJSONURL(context.Background(), server.URL+"/good"); err != nil {
		t.Errorf("Expected JSON document to validate: %v", err)
	}
	if err := r.ValidateJSONURL(context.Background(), server.URL+"/bad"); err == nil {
		t.Error("Expected plain text to fail JSON validation")
	}
}

// TestValidateMarkdownURL verifies the acceptance rules: markdown suffix or
// content type passes, a JSON body without markdown hints fails.
func TestValidateMarkdownURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/readme.md", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# Title"))
	})
	mux.HandleFunc("/readme", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte("# Title"))
	})
	mux.HandleFunc("/config", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"appName":"x"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	r := newResolver()
	if err := r.ValidateMarkdownURL(context.Background(), server.URL+"/readme.md"); err != nil {
		t.Errorf("Expected .md URL to validate: %v", err)
	}
	if err := r.ValidateMarkdownURL(context.Background(), server.URL+"/readme"); err != nil {
		t.Errorf("Expected markdown content type to validate: %v", err)
	}
	if err := r.ValidateMarkdownURL(context.Background(), server.URL+"/config"); err == nil {
		t.Error("Expected a JSON document to fail Markdown validation")
	}
}
