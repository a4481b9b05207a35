package tools

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"magpie/internal/agent"

	bravesearch "github.com/cnosuke/go-brave-search"
)

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

type Web struct {
	brave  *bravesearch.Client
	client *http.Client
}

func NewWeb(braveAPIKey string) *Web {
	w := &Web{client: &http.Client{Timeout: 30 * time.Second}}
	if braveAPIKey != "" {
		client, err := bravesearch.NewClient(braveAPIKey)
		if err != nil {
			slog.Warn("web: brave client unavailable, search disabled", "error", err)
		} else {
			w.brave = client
		}
	}
	return w
}

func (w *Web) Name() string { return "web" }
func (w *Web) Description() string {
	return "Search the web or fetch the text content of a URL"
}

func (w *Web) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type":        "string",
				"enum":        []string{"search", "fetch"},
				"description": "Operation: search the web or fetch a URL",
			},
			"query": map[string]any{
				"type":        "string",
				"description": "Search query (required for search; empty otherwise)",
			},
			"url": map[string]any{
				"type":        "string",
				"description": "URL to fetch (required for fetch; empty otherwise)",
			},
			"count": map[string]any{
				"type":        "number",
				"description": "Number of search results (default 5, max 20)",
			},
		},
		"required":             []string{"action", "query", "url", "count"},
		"additionalProperties": false,
	}
}

func (w *Web) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		Action string `json:"action"`
		Query  string `json:"query"`
		URL    string `json:"url"`
		Count  int    `json:"count"`
	}
	if err := parseArgs(w.Name(), input, &args); err != nil {
		return "", err
	}

	switch args.Action {
	case "search":
		return w.search(ctx, args.Query, args.Count)
	case "fetch":
		return w.fetch(ctx, args.URL)
	default:
		return "", &agent.ArgumentError{Tool: w.Name(), Err: fmt.Errorf("unknown action: %s", args.Action)}
	}
}

func (w *Web) search(ctx context.Context, query string, count int) (string, error) {
	if w.brave == nil {
		return "", fmt.Errorf("web search is not configured: missing brave API key")
	}
	if query == "" {
		return "", &agent.ArgumentError{Tool: w.Name(), Err: fmt.Errorf("query is required for search")}
	}
	if count <= 0 {
		count = 5
	}
	if count > 20 {
		count = 20
	}

	resp, err := w.brave.WebSearch(ctx, query, &bravesearch.WebSearchParams{
		Count: count,
	})
	if err != nil {
		return "", fmt.Errorf("brave search: %w", err)
	}

	results := resp.GetWebResults()
	if len(results) == 0 {
		return "No results found.", nil
	}

	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		fmt.Fprintf(&b, "%s\n%s\n%s", r.Title, r.URL, r.Description)
	}

	slog.Debug("web: search done", "query", query, "results", len(results))
	return truncate([]byte(b.String())), nil
}

func (w *Web) fetch(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", &agent.ArgumentError{Tool: w.Name(), Err: fmt.Errorf("url is required for fetch")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "magpie/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("HTTP %d %s", resp.StatusCode, resp.Status)
	}

	const maxBody = 100 * 1024
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	text := htmlTagRe.ReplaceAllString(string(body), "")
	text = strings.Join(strings.Fields(text), " ")

	slog.Debug("web: fetch done", "url", url, "bytes", len(text))
	return truncate([]byte(text)), nil
}
