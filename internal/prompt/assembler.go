package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"warroom/internal/models"
)

// Placeholders emitted when an optional section has no data. The section is
// always present so the engine can tell "no data" apart from "section
// skipped".
const (
	NoMarketData = "Market data unavailable."
	NoMemory     = "No prior decisions on record."
)

// Assemble concatenates the full prompt in fixed order: persona, market
// data, memory, commander instruction. It never fails; absent inputs are
// rendered as explicit placeholder statements.
func Assemble(persona string, snapshot *models.QuoteSnapshot, memoryExcerpt, instruction string) string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(persona))
	b.WriteString("\n\n[Market data]\n")
	b.WriteString(marketBlock(snapshot))
	b.WriteString("\n\n[Decision memory]\n")
	if strings.TrimSpace(memoryExcerpt) == "" {
		b.WriteString(NoMemory)
	} else {
		b.WriteString(strings.TrimSpace(memoryExcerpt))
	}
	b.WriteString("\n\n[Commander instruction]\n")
	b.WriteString(strings.TrimSpace(instruction))
	b.WriteString("\n")

	return b.String()
}

func marketBlock(s *models.QuoteSnapshot) string {
	if s == nil {
		return NoMarketData
	}

	price := "n/a"
	if s.Price != nil {
		price = s.Price.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", s.Symbol, s.Name)
	fmt.Fprintf(&b, "Price: %s  Change: %s (%s%%)\n", price, s.Change.String(), s.PctChange.StringFixed(2))
	if s.Sector != "" {
		fmt.Fprintf(&b, "Sector: %s\n", s.Sector)
	}
	if s.MarketCap > 0 {
		fmt.Fprintf(&b, "Market cap: %d\n", s.MarketCap)
	}
	if s.Summary != "" {
		b.WriteString(s.Summary)
	}
	return strings.TrimSpace(b.String())
}

// FormatMemory renders search hits as a compact JSON excerpt for the memory
// block. An empty hit list renders as an empty string so Assemble falls back
// to the explicit no-history placeholder.
func FormatMemory(records []models.LogRecord) string {
	if len(records) == 0 {
		return ""
	}
	data, err := json.Marshal(records)
	if err != nil {
		return ""
	}
	return string(data)
}
