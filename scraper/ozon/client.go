package ozon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ozon-radar/models"
	"ozon-radar/utils"
)

const defaultAPIHost = "ozon-scraper-api.p.rapidapi.com"

// Client searches the marketplace through the RapidAPI listings endpoint.
type Client struct {
	client  *http.Client
	baseURL string
	host    string
	apiKey  string
	limiter *rate.Limiter
	logger  *utils.Logger
}

// NewClient creates a listings API client. timeout bounds each search; a
// timed-out search is not retried.
func NewClient(apiKey, host string, timeout time.Duration, logger *utils.Logger) *Client {
	if host == "" {
		host = defaultAPIHost
	}
	return newClient(&http.Client{Timeout: timeout}, "https://"+host, host, apiKey, logger)
}

func newClient(hc *http.Client, baseURL, host, apiKey string, logger *utils.Logger) *Client {
	return &Client{
		client:  hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		host:    host,
		apiKey:  strings.TrimSpace(apiKey),
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:  logger,
	}
}

type searchResponse struct {
	Items []json.RawMessage `json:"items"`
}

// Search returns the raw items for keyword. Every failure mode (missing or
// placeholder key, transport error, non-200 status, undecodable body, empty
// result) returns nil and a SourceUnavailable error.
func (c *Client) Search(ctx context.Context, keyword string) ([]json.RawMessage, error) {
	if c.apiKey == "" || strings.Contains(c.apiKey, "YOUR") {
		return nil, models.NewError(models.KindSourceUnavailable, "no API key configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, models.Wrap(models.KindSourceUnavailable, err, "rate limit wait")
	}

	params := url.Values{}
	params.Set("text", keyword)
	params.Set("page", "1")
	endpoint := fmt.Sprintf("%s/v1/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, models.Wrap(models.KindSourceUnavailable, err, "build request")
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, models.Wrap(models.KindSourceUnavailable, err, "request")
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("[ozon] failed to close response body: %v", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewError(models.KindSourceUnavailable, "status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, models.Wrap(models.KindSourceUnavailable, err, "decode response")
	}
	if len(body.Items) == 0 {
		return nil, models.NewError(models.KindSourceUnavailable, "empty result for %q", keyword)
	}

	c.logger.Info("[ozon] API returned %d items for %q", len(body.Items), keyword)
	return body.Items, nil
}
