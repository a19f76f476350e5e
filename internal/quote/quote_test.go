package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"warroom/internal/models"
)

func stubFetch(calls *int, err error) FetchFunc {
	return func(symbol string) (*models.QuoteSnapshot, error) {
		*calls++
		if err != nil {
			return nil, err
		}
		price := decimal.NewFromFloat(100)
		return &models.QuoteSnapshot{Symbol: symbol, Price: &price}, nil
	}
}

func TestSnapshotCachesPerSymbol(t *testing.T) {
	calls := 0
	p := NewProviderWithFetch(5*time.Minute, stubFetch(&calls, nil))
	ctx := context.Background()

	first, err := p.Snapshot(ctx, "nvda")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if first.Symbol != "NVDA" {
		t.Errorf("symbol should be normalized, got %q", first.Symbol)
	}

	if _, err := p.Snapshot(ctx, "NVDA"); err != nil {
		t.Fatalf("cached Snapshot: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 fetch for repeated symbol, got %d", calls)
	}

	if _, err := p.Snapshot(ctx, "TSM"); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if calls != 2 {
		t.Errorf("different symbol must fetch, got %d calls", calls)
	}
}

func TestSnapshotExpiredEntryRefetches(t *testing.T) {
	calls := 0
	p := NewProviderWithFetch(time.Nanosecond, stubFetch(&calls, nil))
	ctx := context.Background()

	if _, err := p.Snapshot(ctx, "NVDA"); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, err := p.Snapshot(ctx, "NVDA"); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if calls != 2 {
		t.Errorf("expired entry should refetch, got %d calls", calls)
	}
}

func TestSnapshotFetchFailure(t *testing.T) {
	calls := 0
	p := NewProviderWithFetch(5*time.Minute, stubFetch(&calls, errors.New("provider down")))

	if _, err := p.Snapshot(context.Background(), "NVDA"); err == nil {
		t.Fatal("expected error from failing fetcher")
	}
	if calls != 1 {
		t.Errorf("failure must not be retried, got %d calls", calls)
	}
}

func TestSnapshotEmptySymbol(t *testing.T) {
	p := NewProviderWithFetch(5*time.Minute, stubFetch(new(int), nil))
	if _, err := p.Snapshot(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank symbol")
	}
}
