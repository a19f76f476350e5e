// Package quote serves short-lived market snapshots for one symbol at a
// time. Provider failure is representable and never aborts a run: the
// caller renders an explicit unavailable placeholder instead.
package quote

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"

	"warroom/internal/config"
	"warroom/internal/models"
)

// FetchFunc retrieves a fresh snapshot for a normalized symbol. Swappable
// in tests.
type FetchFunc func(symbol string) (*models.QuoteSnapshot, error)

type cachedQuote struct {
	snapshot *models.QuoteSnapshot
	storedAt time.Time
}

// Provider caches snapshots per symbol for a few minutes. Staleness within
// the TTL is tolerated rather than invalidated; the cache is the only state
// shared across invocations.
type Provider struct {
	mu      sync.RWMutex
	cache   map[string]cachedQuote
	ttl     time.Duration
	fetch   FetchFunc
	profile *ProfileClient
}

func NewProvider(cfg *config.Config) *Provider {
	p := &Provider{
		cache: make(map[string]cachedQuote),
		ttl:   cfg.QuoteCacheTTL,
		fetch: yahooFetch,
	}
	if cfg.FinnhubAPIKey != "" {
		p.profile = NewProfileClient(cfg.FinnhubAPIKey)
	}
	return p
}

// NewProviderWithFetch builds a provider around a custom fetcher.
func NewProviderWithFetch(ttl time.Duration, fetch FetchFunc) *Provider {
	return &Provider{
		cache: make(map[string]cachedQuote),
		ttl:   ttl,
		fetch: fetch,
	}
}

// Snapshot returns the cached snapshot for symbol if fresh enough,
// otherwise fetches one. Single attempt, no retry.
func (p *Provider) Snapshot(ctx context.Context, symbol string) (*models.QuoteSnapshot, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}

	p.mu.RLock()
	if cached, ok := p.cache[symbol]; ok && time.Since(cached.storedAt) <= p.ttl {
		p.mu.RUnlock()
		return cached.snapshot, nil
	}
	p.mu.RUnlock()

	snapshot, err := p.fetch(symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}

	if p.profile != nil {
		if err := p.profile.Enrich(ctx, snapshot); err != nil {
			// Profile data is decoration; a failed lookup degrades to
			// blank sector/summary.
			log.Printf("profile enrichment failed for %s: %v", symbol, err)
		}
	}

	p.mu.Lock()
	p.cache[symbol] = cachedQuote{snapshot: snapshot, storedAt: time.Now()}
	p.mu.Unlock()

	return snapshot, nil
}

func yahooFetch(symbol string) (*models.QuoteSnapshot, error) {
	q, err := equity.Get(symbol)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("no quote returned for %s", symbol)
	}

	snapshot := &models.QuoteSnapshot{
		Symbol:    symbol,
		Change:    decimal.NewFromFloat(q.RegularMarketChange),
		PctChange: decimal.NewFromFloat(q.RegularMarketChangePercent),
		Name:      q.ShortName,
		MarketCap: q.MarketCap,
		FetchedAt: time.Now(),
	}
	if q.RegularMarketPrice > 0 {
		price := decimal.NewFromFloat(q.RegularMarketPrice)
		snapshot.Price = &price
	}
	return snapshot, nil
}
