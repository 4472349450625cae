package prices

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"crypto-calc/internal/logger"
	"crypto-calc/internal/token"
)

const quotesCacheKey = "quotes"

// Status describes the outcome of the most recent fetch.
type Status struct {
	Live      int       `json:"live"`
	Total     int       `json:"total"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Service provides current quotes for the token catalog. Fetches fan out
// concurrently per token with no cross-request dependency; each failure is
// replaced by that token's static fallback quote, so callers always get a
// complete quote set.
type Service struct {
	client *Client
	cache  *gocache.Cache

	mu     sync.Mutex
	status Status
}

// NewService creates a quote service with the given cache TTL.
func NewService(client *Client, ttl time.Duration) *Service {
	return &Service{
		client: client,
		cache:  gocache.New(ttl, 2*ttl),
	}
}

// Quotes returns the cached quote set, fetching if the cache is stale.
func (s *Service) Quotes(ctx context.Context) map[string]token.Quote {
	if cached, ok := s.cache.Get(quotesCacheKey); ok {
		return cached.(map[string]token.Quote)
	}
	return s.Refresh(ctx)
}

// Refresh fetches all quotes now and replaces the cache. It never fails:
// unreachable tickers degrade to fallback quotes.
func (s *Service) Refresh(ctx context.Context) map[string]token.Quote {
	toks := token.Catalog()
	quotes := make(map[string]token.Quote, len(toks))
	live := 0

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, tok := range toks {
		g.Go(func() error {
			q, err := s.client.Ticker(ctx, tok.ID)
			fromFeed := err == nil
			if err != nil {
				logger.Warn("Prices", fmt.Sprintf("%s: %v, using fallback quote", tok.Symbol, err))
				q, _ = token.FallbackQuote(tok.ID)
			}
			mu.Lock()
			quotes[tok.ID] = q
			if fromFeed {
				live++
			}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	switch {
	case live == len(toks):
		logger.Success("Prices", fmt.Sprintf("all %d quotes loaded from feed", live))
	case live > 0:
		logger.Warn("Prices", fmt.Sprintf("partial feed: %d/%d live, rest on fallback data", live, len(toks)))
	default:
		logger.Warn("Prices", "price feed unreachable, using fallback data")
	}

	s.cache.Set(quotesCacheKey, quotes, gocache.DefaultExpiration)
	s.mu.Lock()
	s.status = Status{Live: live, Total: len(toks), FetchedAt: time.Now()}
	s.mu.Unlock()

	return quotes
}

// Status reports the outcome of the last fetch.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}
