package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"crypto-calc/internal/token"
)

// Client fetches USD quotes from the CoinPaprika tickers API.
type Client struct {
	http         *http.Client
	baseURL      string
	retryInitial time.Duration
	maxTries     uint
}

// NewClient creates a price client. baseURL is the API root, e.g.
// "https://api.coinpaprika.com/v1".
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http:         &http.Client{Timeout: timeout},
		baseURL:      baseURL,
		retryInitial: 250 * time.Millisecond,
		maxTries:     3,
	}
}

// Ticker fetches the current quote for one catalog token, retrying transient
// failures with exponential backoff.
func (c *Client) Ticker(ctx context.Context, id string) (token.Quote, error) {
	operation := func() (token.Quote, error) {
		return c.fetchTicker(ctx, id)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInitial

	q, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(c.maxTries),
	)
	if err != nil {
		return token.Quote{}, fmt.Errorf("ticker %s: %w", id, err)
	}
	return q, nil
}

func (c *Client) fetchTicker(ctx context.Context, id string) (token.Quote, error) {
	url := fmt.Sprintf("%s/tickers/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return token.Quote{}, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return token.Quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return token.Quote{}, backoff.Permanent(fmt.Errorf("unknown ticker %q", id))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return token.Quote{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var data struct {
		Quotes struct {
			USD struct {
				Price           float64 `json:"price"`
				PercentChange24 float64 `json:"percent_change_24h"`
				MarketCap       float64 `json:"market_cap"`
			} `json:"USD"`
		} `json:"quotes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return token.Quote{}, fmt.Errorf("decode: %w", err)
	}

	if data.Quotes.USD.Price <= 0 {
		return token.Quote{}, fmt.Errorf("invalid price: %f", data.Quotes.USD.Price)
	}

	return token.Quote{
		Price:     data.Quotes.USD.Price,
		Change24h: data.Quotes.USD.PercentChange24,
		MarketCap: data.Quotes.USD.MarketCap,
	}, nil
}
