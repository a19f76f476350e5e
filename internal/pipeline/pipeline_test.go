package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"warroom/internal/memory"
	"warroom/internal/models"
	"warroom/internal/prompt"
	"warroom/internal/protocol"
)

type fakeEngine struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeEngine) Generate(_ context.Context, fullPrompt string) (string, error) {
	f.lastPrompt = fullPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeQuotes struct {
	err   error
	calls int
}

func (f *fakeQuotes) Snapshot(_ context.Context, symbol string) (*models.QuoteSnapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	price := decimal.NewFromFloat(150)
	return &models.QuoteSnapshot{Symbol: symbol, Price: &price, Name: "Test Corp"}, nil
}

type memStore struct {
	records []models.LogRecord
	err     error
}

func (m *memStore) Append(_ context.Context, r models.LogRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, r)
	return nil
}

func (m *memStore) Search(_ context.Context, query string) ([]models.LogRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var hits []models.LogRecord
	q := strings.ToLower(query)
	for _, r := range m.records {
		if strings.Contains(strings.ToLower(r.Ticker), q) {
			hits = append(hits, r)
		}
	}
	return hits, nil
}

func (m *memStore) Close() error { return nil }

func newTestPipeline(t *testing.T, eng Reasoner, quotes QuoteSource, store memory.Store) *Pipeline {
	t.Helper()
	p, err := New(eng, quotes, store, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestScoutRoundTrip(t *testing.T) {
	eng := &fakeEngine{response: `Here you go. {"decision":"Buy","rationale":"cheap","risk_score":40} Done.`}
	store := &memStore{records: []models.LogRecord{{LogID: "old", Ticker: "NVDA", Decision: "Watch"}}}
	p := newTestPipeline(t, eng, &fakeQuotes{}, store)

	out, err := p.Run(context.Background(), protocol.Scout, map[string]string{protocol.FieldTicker: "NVDA"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.Verdict.Decision("N/A") != "Buy" {
		t.Errorf("decision = %q", out.Verdict.Decision("N/A"))
	}
	if out.WriteResult.Status != memory.Success {
		t.Fatalf("expected log write success, got %v", out.WriteResult)
	}

	// Prompt carried quote, memory and instruction blocks.
	for _, want := range []string{"Test Corp", `"ticker":"NVDA"`, "Analyze the stock NVDA"} {
		if !strings.Contains(eng.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// Exactly one new row appended, defaults filled.
	if len(store.records) != 2 {
		t.Fatalf("expected one appended row, got %d total", len(store.records))
	}
	appended := store.records[1]
	if appended.Ticker != "NVDA" || appended.Decision != "Buy" || appended.RiskScore != "40" {
		t.Errorf("unexpected appended row: %+v", appended)
	}
	if appended.PacerType != "R" {
		t.Errorf("missing pacer_type should default to R, got %q", appended.PacerType)
	}
}

func TestQuoteFailureDoesNotBlockRun(t *testing.T) {
	eng := &fakeEngine{response: `{"decision":"Watch"}`}
	p := newTestPipeline(t, eng, &fakeQuotes{err: errors.New("feed down")}, &memStore{})

	out, err := p.Run(context.Background(), protocol.Scout, map[string]string{protocol.FieldTicker: "NVDA"})
	if err != nil {
		t.Fatalf("Run must survive a quote failure: %v", err)
	}
	if out.Request.Snapshot != nil {
		t.Error("snapshot should be absent after provider failure")
	}
	if !strings.Contains(eng.lastPrompt, prompt.NoMarketData) {
		t.Error("prompt missing the market-unavailable placeholder")
	}
}

func TestMacroSkipsQuoteFetch(t *testing.T) {
	eng := &fakeEngine{response: `{"decision":"Watch","cycle_coords":{"L3_Liquidity":"tight"}}`}
	quotes := &fakeQuotes{}
	p := newTestPipeline(t, eng, quotes, &memStore{})

	fields := map[string]string{
		protocol.FieldSofrIorb:   "-0.05",
		protocol.FieldHygTrend:   "falling",
		protocol.FieldBtcTrend:   "crash",
		protocol.FieldCopperGold: "falling",
	}
	out, err := p.Run(context.Background(), protocol.Macro, fields)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if quotes.calls != 0 {
		t.Errorf("macro run must not fetch quotes, got %d calls", quotes.calls)
	}
	if out.Request.SearchKeyword != protocol.MacroTag {
		t.Errorf("search keyword = %q, want %q", out.Request.SearchKeyword, protocol.MacroTag)
	}
	for _, reading := range []string{"-0.05", "falling", "crash"} {
		if !strings.Contains(out.Request.Instruction, reading) {
			t.Errorf("instruction missing reading %q", reading)
		}
	}
	if out.WriteResult.Record.Ticker != protocol.MacroTag {
		t.Errorf("log row ticker = %q", out.WriteResult.Record.Ticker)
	}
	if out.WriteResult.Record.CyclePosition != "L3=tight" {
		t.Errorf("cycle position = %q", out.WriteResult.Record.CyclePosition)
	}
}

func TestEngineFailureIsTerminal(t *testing.T) {
	eng := &fakeEngine{err: errors.New("quota exceeded")}
	store := &memStore{}
	p := newTestPipeline(t, eng, &fakeQuotes{}, store)

	if _, err := p.Run(context.Background(), protocol.Scout, map[string]string{protocol.FieldTicker: "NVDA"}); err == nil {
		t.Fatal("expected terminal error from engine failure")
	}
	if len(store.records) != 0 {
		t.Error("nothing should be logged when reasoning fails")
	}
}

func TestSearchFailureDegradesToNoHistory(t *testing.T) {
	eng := &fakeEngine{response: `{"decision":"Watch"}`}
	// Store that fails search but has no bearing on the run itself.
	p := newTestPipeline(t, eng, nil, &memStore{err: errors.New("store offline")})

	out, err := p.Run(context.Background(), protocol.Hunt, map[string]string{protocol.FieldKeyword: "liquid cooling"})
	if err != nil {
		t.Fatalf("Run must survive a search failure: %v", err)
	}
	if !strings.Contains(eng.lastPrompt, prompt.NoMemory) {
		t.Error("prompt missing the no-history placeholder")
	}
	// The same offline store makes the append fail, reported not raised.
	if out.WriteResult.Status != memory.WriteError {
		t.Errorf("expected reported write error, got %v", out.WriteResult)
	}
}

func TestDegradedVerdictStillLogged(t *testing.T) {
	eng := &fakeEngine{response: "I refuse to answer in JSON today."}
	store := &memStore{}
	p := newTestPipeline(t, eng, nil, store)

	out, err := p.Run(context.Background(), protocol.Hunt, map[string]string{protocol.FieldKeyword: "robotics"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !out.Verdict.IsDegraded() {
		t.Fatal("expected degraded verdict")
	}
	if out.WriteResult.Record.Decision != "Error" {
		t.Errorf("degraded decision should log as Error, got %q", out.WriteResult.Record.Decision)
	}
	if out.WriteResult.Record.FullAnalysis != eng.response {
		t.Error("raw response should be preserved in the log row")
	}
}

type fakeArticles struct {
	text string
	err  error
}

func (f *fakeArticles) Fetch(context.Context, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func TestIntelLinkResolvedIntoInstruction(t *testing.T) {
	eng := &fakeEngine{response: `{"decision":"Watch"}`}
	p, err := New(eng, nil, &memStore{}, &fakeArticles{text: "TSMC raises capex guidance."})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	fields := map[string]string{
		protocol.FieldTicker:  "TSM",
		protocol.FieldContent: "https://example.com/news/tsmc",
	}
	out, err := p.Run(context.Background(), protocol.Intel, fields)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.Request.Instruction, "TSMC raises capex guidance.") {
		t.Errorf("fetched article text not embedded: %s", out.Request.Instruction)
	}
	// Caller's field map must not be mutated.
	if fields[protocol.FieldContent] != "https://example.com/news/tsmc" {
		t.Error("input fields mutated by link resolution")
	}
}

func TestIntelLinkFetchFailurePassesURLThrough(t *testing.T) {
	eng := &fakeEngine{response: `{"decision":"Watch"}`}
	p, err := New(eng, nil, &memStore{}, &fakeArticles{err: errors.New("blocked")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := p.Run(context.Background(), protocol.Intel, map[string]string{
		protocol.FieldContent: "https://example.com/news/tsmc",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.Request.Instruction, "https://example.com/news/tsmc") {
		t.Error("failed fetch should pass the link through verbatim")
	}
}
