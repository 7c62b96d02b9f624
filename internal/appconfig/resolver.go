// resolver.go
//
// PluginHub - a catalog and voting service for Alt1 overlay plugins
//
// This file is part of pluginhub.
// pluginhub is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// pluginhub is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with pluginhub.
// If not, see <https://www.gnu.org/licenses/>.

package appconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// maxDocumentSize bounds how much of an external document is read.
const maxDocumentSize = 1 << 20 // 1 MiB

// Config is the externally hosted JSON document describing a plugin's
// display metadata and runtime permissions.
type Config struct {
	AppName         string        `json:"appName"`
	Description     string        `json:"description"`
	AppURL          string        `json:"appUrl"`
	ConfigURL       string        `json:"configUrl"`
	IconURL         string        `json:"iconUrl"`
	DefaultWidth    int           `json:"defaultWidth"`
	DefaultHeight   int           `json:"defaultHeight"`
	MinWidth        int           `json:"minWidth"`
	MinHeight       int           `json:"minHeight"`
	MaxWidth        int           `json:"maxWidth"`
	MaxHeight       int           `json:"maxHeight"`
	RequestHandlers []interface{} `json:"requestHandlers"`
	Activators      []interface{} `json:"activators"`
	Permissions     string        `json:"permissions"`
}

// Resolver fetches and parses plugin-supplied external documents.
type Resolver struct {
	client *http.Client
}

// NewResolver creates a Resolver with the given per-request timeout.
func NewResolver(timeout time.Duration) *Resolver {
	return &Resolver{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves and parses the app-config document at url.
func (r *Resolver) Fetch(ctx context.Context, url string) (*Config, error) {
	body, _, err := r.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(body, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from %s: %w", url, err)
	}
	return &cfg, nil
}

// ResolveAll fetches one config per URL concurrently. The result slice is
// aligned with urls; a row whose URL is empty or whose fetch/parse fails gets
// nil so a dead external host can never reject the rest of the batch.
// There is intentionally no retry or backoff.
func (r *Resolver) ResolveAll(ctx context.Context, urls []string) []*Config {
	configs := make([]*Config, len(urls))

	var wg sync.WaitGroup
	for i, u := range urls {
		if u == "" {
			continue
		}
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			cfg, err := r.Fetch(ctx, u)
			if err != nil {
				return
			}
			configs[i] = cfg
		}(i, u)
	}
	wg.Wait()

	return configs
}

// ValidateJSONURL checks that url resolves to a parseable JSON document.
func (r *Resolver) ValidateJSONURL(ctx context.Context, url string) error {
	body, _, err := r.get(ctx, url)
	if err != nil {
		return err
	}
	if !json.Valid(body) {
		return fmt.Errorf("document at %s is not valid JSON", url)
	}
	return nil
}

// ValidateMarkdownURL checks that url resolves to a Markdown-ish text
// document. Accepted when the URL or content type says markdown/plain text,
// or when the body is non-JSON UTF-8 text.
func (r *Resolver) ValidateMarkdownURL(ctx context.Context, url string) error {
	body, contentType, err := r.get(ctx, url)
	if err != nil {
		return err
	}

	lower := strings.ToLower(url)
	if strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown") {
		return nil
	}
	if strings.Contains(contentType, "markdown") || strings.Contains(contentType, "text/plain") {
		return nil
	}
	if json.Valid(body) {
		return fmt.Errorf("document at %s is JSON, expected Markdown", url)
	}
	if !utf8.Valid(body) {
		return fmt.Errorf("document at %s is not text", url)
	}
	return nil
}

// get performs a single GET with a bounded read, returning body and content type.
func (r *Resolver) get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("invalid document URL %s: %w", url, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", url, err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}
