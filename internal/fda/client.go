// Package fda fetches food-enforcement records from the openFDA API.
package fda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"recallbot/internal/recall"
	logx "recallbot/pkg/logx"
)

const (
	// DefaultBaseURL is the public food-enforcement endpoint.
	DefaultBaseURL = "https://api.fda.gov/food/enforcement.json"

	// The API rejects requests with Go's default agent string.
	userAgent = "Mozilla/5.0 (compatible; recallbot/1.0)"
)

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RatePerSec int
}

type Client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
	log     logx.Logger
}

func New(cfg Config, log logx.Logger) *Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 1
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Client{
		base:    base,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		log:     log,
	}
}

// Fetch returns up to limit records sorted newest-first. daysBack > 0
// restricts the query to a report_date window ending today; 0 fetches the
// latest records regardless of date.
//
// An empty result is not an error: the API answers 404 when a search
// window matches nothing.
func (c *Client) Fetch(ctx context.Context, limit, daysBack int) ([]recall.Record, error) {
	if limit <= 0 {
		limit = 25
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	q.Set("sort", "report_date:desc")
	if daysBack > 0 {
		now := time.Now().UTC()
		from := now.AddDate(0, 0, -daysBack)
		q.Set("search", fmt.Sprintf("report_date:[%s TO %s]",
			from.Format("20060102"), now.Format("20060102")))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// openFDA's "no matches" answer for a narrow search window.
		c.log.Debug("fda query matched nothing", logx.Int("days_back", daysBack))
		return nil, nil
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("fda: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		Results []recall.Record `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("fda: decode response: %w", err)
	}

	c.log.Debug("fda fetch ok", logx.Int("count", len(out.Results)), logx.Int("limit", limit))
	return out.Results, nil
}
