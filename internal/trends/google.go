package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"autoblog/internal/core"
	"autoblog/internal/logger"
)

const (
	dailyTrendsURL = "https://trends.google.com/trends/api/dailytrends"

	// antiXSSIPrefix is the junk prefix Google prepends to the trends JSON.
	antiXSSIPrefix = ")]}',"

	maxContext = 3
)

// GoogleTrendsProvider sources topics from the Google Trends daily trending
// searches feed.
type GoogleTrendsProvider struct {
	region  string
	client  *http.Client
	baseURL string
}

// NewGoogleTrendsProvider creates a provider for the given region ("" = US
// feed, which is the closest thing to a global default the endpoint offers).
func NewGoogleTrendsProvider(region string) *GoogleTrendsProvider {
	if region == "" {
		region = "US"
	}
	return &GoogleTrendsProvider{
		region:  region,
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: dailyTrendsURL,
	}
}

// GetName returns the name of this provider.
func (g *GoogleTrendsProvider) GetName() string {
	return "Google Trends"
}

// dailyTrendsResponse mirrors the subset of the daily trends payload we use.
type dailyTrendsResponse struct {
	Default struct {
		TrendingSearchesDays []struct {
			TrendingSearches []struct {
				Title struct {
					Query string `json:"query"`
				} `json:"title"`
				RelatedQueries []struct {
					Query string `json:"query"`
				} `json:"relatedQueries"`
			} `json:"trendingSearches"`
		} `json:"trendingSearchesDays"`
	} `json:"default"`
}

// Trending fetches today's trending searches and selects the first query
// matching the hint, or the top query when no hint is given. Related queries
// become the context sub-points.
func (g *GoogleTrendsProvider) Trending(ctx context.Context, hint string) (core.Topic, error) {
	params := url.Values{}
	params.Set("hl", "en-US")
	params.Set("geo", g.region)
	params.Set("ns", "15")

	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return core.Topic{}, fmt.Errorf("failed to create trends request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return core.Topic{}, fmt.Errorf("failed to fetch daily trends: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return core.Topic{}, fmt.Errorf("daily trends request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Topic{}, fmt.Errorf("failed to read trends response: %w", err)
	}

	payload := strings.TrimPrefix(strings.TrimSpace(string(body)), antiXSSIPrefix)
	var parsed dailyTrendsResponse
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return core.Topic{}, fmt.Errorf("failed to parse trends response: %w", err)
	}

	type candidate struct {
		query   string
		related []string
	}
	var candidates []candidate
	for _, day := range parsed.Default.TrendingSearchesDays {
		for _, search := range day.TrendingSearches {
			if search.Title.Query == "" {
				continue
			}
			related := make([]string, 0, maxContext)
			for _, rq := range search.RelatedQueries {
				if len(related) >= maxContext {
					break
				}
				if rq.Query != "" {
					related = append(related, rq.Query)
				}
			}
			candidates = append(candidates, candidate{query: search.Title.Query, related: related})
		}
	}

	if len(candidates) == 0 {
		return core.Topic{}, ErrNoTopics
	}

	selected := candidates[0]
	if hint != "" {
		lowHint := strings.ToLower(hint)
		for _, c := range candidates {
			if strings.Contains(strings.ToLower(c.query), lowHint) {
				selected = c
				break
			}
		}
	}

	logger.Info("Selected trending topic", "topic", selected.query, "context", selected.related)
	return core.Topic{
		Keyword: selected.query,
		Context: selected.related,
		Source:  "google-trends",
	}, nil
}
