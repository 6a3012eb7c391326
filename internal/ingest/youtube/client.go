// Package youtube provides a client for the YouTube Data API v3 search and
// videos endpoints, authenticated with an API key.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/time/rate"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
	"github.com/lueurxax/ytmusic-trends/internal/platform/observability"
)

const (
	defaultBaseURL     = "https://www.googleapis.com"
	defaultTimeout     = 30 * time.Second
	defaultRPM         = 120
	maxIDsPerRequest   = 50
	maxSearchResults   = 50
	endpointSearch     = "search"
	endpointVideos     = "videos"
	maxErrorBodyLength = 512
)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithRequestsPerMinute limits the request rate across both endpoints.
func WithRequestsPerMinute(rpm int) ClientOption {
	return func(c *Client) {
		if rpm <= 0 {
			rpm = defaultRPM
		}

		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
	}
}

// Client is a YouTube Data API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPClient
	limiter    *rate.Limiter
}

// NewClient creates a new YouTube API client.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("youtube client: %w", coreerrors.ErrMissingAPIKey)
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/defaultRPM), 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SearchParams describes one search request.
type SearchParams struct {
	Query             string
	RegionCode        string
	RelevanceLanguage string
	MaxResults        int
	PublishedAfter    time.Time
}

// Search returns the ids of recent videos matching the query, newest first.
func (c *Client) Search(ctx context.Context, p SearchParams) ([]string, error) {
	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("part", "snippet")
	values.Set("type", "video")
	values.Set("order", "date")
	values.Set("q", p.Query)
	values.Set("maxResults", strconv.Itoa(clampResults(p.MaxResults)))

	if p.RegionCode != "" {
		values.Set("regionCode", p.RegionCode)
	}

	if p.RelevanceLanguage != "" {
		values.Set("relevanceLanguage", p.RelevanceLanguage)
	}

	if !p.PublishedAfter.IsZero() {
		values.Set("publishedAfter", p.PublishedAfter.UTC().Format(time.RFC3339))
	}

	body, err := c.doRequest(ctx, endpointSearch, values)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	ids := make([]string, 0, len(resp.Items))

	for _, item := range resp.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}

	return ids, nil
}

// VideoDetails fetches snippet and statistics for the ids, in batches of 50.
// Items are returned in API order; unknown ids are silently absent.
func (c *Client) VideoDetails(ctx context.Context, ids []string) ([]Video, error) {
	out := make([]Video, 0, len(ids))

	for start := 0; start < len(ids); start += maxIDsPerRequest {
		chunk := ids[start:min(start+maxIDsPerRequest, len(ids))]

		values := url.Values{}
		values.Set("key", c.apiKey)
		values.Set("part", "snippet,statistics,contentDetails")
		values.Set("id", strings.Join(chunk, ","))
		values.Set("maxResults", strconv.Itoa(len(chunk)))

		body, err := c.doRequest(ctx, endpointVideos, values)
		if err != nil {
			return nil, err
		}

		var resp videosResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse videos response: %w", err)
		}

		for _, item := range resp.Items {
			out = append(out, Video{
				ID:           item.ID,
				Title:        item.Snippet.Title,
				Description:  item.Snippet.Description,
				ChannelTitle: item.Snippet.ChannelTitle,
				PublishedAt:  parseTimestamp(item.Snippet.PublishedAt),
				ViewCount:    parseCount(item.Statistics.ViewCount),
				LikeCount:    parseCount(item.Statistics.LikeCount),
				CommentCount: parseCount(item.Statistics.CommentCount),
			})
		}
	}

	return out, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, values url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("youtube rate limit: %w", err)
	}

	reqURL := fmt.Sprintf("%s/youtube/v3/%s?%s", c.baseURL, endpoint, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)

	observability.SourceRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		observability.SourceRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("youtube %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	observability.SourceRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, handleAPIError(endpoint, resp.StatusCode, body)
	}

	return body, nil
}

func handleAPIError(endpoint string, statusCode int, body []byte) error {
	reason := ""

	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		reason = apiErr.Error.Message
	} else if len(body) > 0 {
		reason = truncate(string(body), maxErrorBodyLength)
	}

	switch statusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("youtube %s rejected the request (%s): %w", endpoint, reason, coreerrors.ErrHTTPStatus)
	case http.StatusForbidden:
		return fmt.Errorf("youtube %s access denied, check the api key and quota (%s): %w", endpoint, reason, coreerrors.ErrHTTPStatus)
	case http.StatusTooManyRequests:
		return fmt.Errorf("youtube %s rate limit exceeded: %w", endpoint, coreerrors.ErrHTTPStatus)
	default:
		return fmt.Errorf("youtube %s status %d (%s): %w", endpoint, statusCode, reason, coreerrors.ErrHTTPStatus)
	}
}

func clampResults(n int) int {
	if n <= 0 {
		return 1
	}

	return min(n, maxSearchResults)
}

// parseCount returns nil for missing or non-numeric counts.
func parseCount(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}

	return &v
}

// parseTimestamp returns nil for missing or unparseable timestamps.
func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil
	}

	t = t.UTC()

	return &t
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}

// Record converts a video to an engagement record attributed to a query.
func (v Video) Record(queryName string, fetchedAt time.Time) domain.EngagementRecord {
	fetched := fetchedAt.UTC()

	return domain.EngagementRecord{
		VideoID:      v.ID,
		Query:        queryName,
		Title:        v.Title,
		Description:  v.Description,
		ChannelTitle: v.ChannelTitle,
		ViewCount:    v.ViewCount,
		LikeCount:    v.LikeCount,
		CommentCount: v.CommentCount,
		PublishedAt:  v.PublishedAt,
		FetchedAt:    &fetched,
	}
}
