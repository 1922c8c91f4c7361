// Package search queries the Brave web search API.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vinzlac/mcp-server-brave-test/internal/httpclient"
	"github.com/vinzlac/mcp-server-brave-test/internal/models"
)

const (
	// DefaultEndpoint is the Brave web search endpoint.
	DefaultEndpoint = "https://api.search.brave.com/res/v1/web/search"
	// DefaultCount is the number of results requested per query.
	DefaultCount = 5
)

// BraveClient performs web searches.
type BraveClient struct {
	apiKey   string
	endpoint string
	count    int
	http     *http.Client
}

// NewBraveClient creates a client. Zero values select the defaults.
func NewBraveClient(apiKey, endpoint string, count int, timeout time.Duration) *BraveClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if count <= 0 {
		count = DefaultCount
	}
	return &BraveClient{
		apiKey:   apiKey,
		endpoint: endpoint,
		count:    count,
		http:     &http.Client{Timeout: timeout},
	}
}

type braveResponse struct {
	Web struct {
		Results []models.SearchResult `json:"results"`
	} `json:"web"`
}

// Search returns up to count results for query. A count <= 0 uses the
// client's configured count.
func (c *BraveClient) Search(ctx context.Context, query string, count int) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if count <= 0 {
		count = c.count
	}
	params := url.Values{
		"q":     {query},
		"count": {strconv.Itoa(count)},
	}
	header := http.Header{"X-Subscription-Token": {c.apiKey}}

	var raw braveResponse
	if err := httpclient.GetJSON(ctx, c.http, c.endpoint, params, header, &raw); err != nil {
		return nil, fmt.Errorf("brave search %q: %w", query, err)
	}
	results := raw.Web.Results
	if results == nil {
		results = []models.SearchResult{}
	}
	return results, nil
}

type resultsEnvelope struct {
	Results []models.SearchResult `json:"results"`
}

// FormatResults renders results as the indented JSON document returned by
// the search tool.
func FormatResults(results []models.SearchResult) (string, error) {
	if results == nil {
		results = []models.SearchResult{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resultsEnvelope{Results: results}); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// ParseResults decodes the output of FormatResults.
func ParseResults(text string) ([]models.SearchResult, error) {
	var env resultsEnvelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		return nil, fmt.Errorf("malformed search results: %w", err)
	}
	return env.Results, nil
}
