package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteSnapshot is a short-lived read of the market data provider for one
// symbol. Price is nil when the provider could not produce a live price;
// the rest of the fields degrade to their zero values.
type QuoteSnapshot struct {
	Symbol    string           `json:"symbol"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Change    decimal.Decimal  `json:"change"`
	PctChange decimal.Decimal  `json:"pct_change"`
	Name      string           `json:"name"`
	Sector    string           `json:"sector"`
	MarketCap int64            `json:"market_cap"`
	Summary   string           `json:"summary"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// LogRecord is one durable row of the decision log. The store is
// append-only: rows are never updated or deleted, and duplicate LogIDs are
// allowed. Column order is fixed; new columns must be appended at the end.
type LogRecord struct {
	LogID         string `json:"log_id"`
	LoggedAt      string `json:"logged_at"`
	Ticker        string `json:"ticker"`
	Decision      string `json:"decision"`
	Rationale     string `json:"rationale"`
	RiskScore     string `json:"risk_score"`
	EntryPrice    string `json:"entry_price"`
	CyclePosition string `json:"cycle_position"`
	Keywords      string `json:"keywords"`
	PacerType     string `json:"pacer_type"`
	FullAnalysis  string `json:"full_analysis"`
}

// AnalysisRequest is the assembled input for one reasoning round. It is
// created fresh per run and consumed exactly once by the context assembler.
type AnalysisRequest struct {
	Protocol      string
	Ticker        string
	Fields        map[string]string
	SearchKeyword string
	Instruction   string
	Snapshot      *QuoteSnapshot
	MemoryExcerpt string
}
