// Package protocol maps the four analysis modes onto their memory search
// keyword and commander instruction text.
package protocol

import (
	"fmt"
	"strings"

	"warroom/internal/prompt"
)

// Protocol selects one of the four canned analysis modes. Chosen once per
// run, immutable for the rest of the pipeline.
type Protocol string

const (
	Scout Protocol = "scout"
	Intel Protocol = "intel"
	Hunt  Protocol = "hunt"
	Macro Protocol = "macro"
)

// Sentinel tags used as search keyword and log identity for the protocols
// that are not tied to one symbol.
const (
	HuntTag  = "TREND"
	MacroTag = "MACRO_ARI"
)

// Form field keys. Blank optional fields pass through verbatim; nothing is
// validated beyond presence of the fields a protocol requires.
const (
	FieldTicker     = "ticker"
	FieldContent    = "content"
	FieldKeyword    = "keyword"
	FieldSofrIorb   = "sofr_iorb"
	FieldHygTrend   = "hyg_trend"
	FieldBtcTrend   = "btc_trend"
	FieldCopperGold = "copper_gold"
	FieldNotes      = "notes"
)

func Parse(s string) (Protocol, error) {
	switch Protocol(strings.ToLower(strings.TrimSpace(s))) {
	case Scout:
		return Scout, nil
	case Intel:
		return Intel, nil
	case Hunt:
		return Hunt, nil
	case Macro:
		return Macro, nil
	}
	return "", fmt.Errorf("unknown protocol %q (want scout, intel, hunt or macro)", s)
}

func All() []Protocol {
	return []Protocol{Scout, Intel, Hunt, Macro}
}

// Title is the label shown in the protocol chooser.
func (p Protocol) Title() string {
	switch p {
	case Scout:
		return "Protocol F: Stock Scout"
	case Intel:
		return "Protocol A: Intel Decode"
	case Hunt:
		return "Protocol G: Trend Hunt"
	case Macro:
		return "Protocol C: Macro Diagnosis"
	}
	return string(p)
}

// UsesQuote reports whether the run should fetch a market snapshot. Hunt and
// Macro operate on sentinel tags, not symbols.
func (p Protocol) UsesQuote() bool {
	return p == Scout || p == Intel
}

// Ticker resolves the log identity for a run: the entered symbol for
// symbol-bound protocols, the fixed sentinel otherwise.
func (p Protocol) Ticker(fields map[string]string) string {
	switch p {
	case Hunt:
		return HuntTag
	case Macro:
		return MacroTag
	}
	return strings.ToUpper(strings.TrimSpace(fields[FieldTicker]))
}

// Plan produces the memory search keyword and the instruction text for a
// run. Pure function of its inputs.
func (p Protocol) Plan(fields map[string]string) (keyword, instruction string, err error) {
	switch p {
	case Scout:
		ticker := p.Ticker(fields)
		if ticker == "" {
			return "", "", fmt.Errorf("scout protocol requires a ticker")
		}
		instruction, err = prompt.LoadWithContext("scout", map[string]string{
			"Ticker": ticker,
		})
		return ticker, instruction, err

	case Intel:
		// Keyword may be empty: intel runs are allowed without a symbol.
		ticker := p.Ticker(fields)
		instruction, err = prompt.LoadWithContext("intel", map[string]string{
			"Ticker":  ticker,
			"Content": fields[FieldContent],
		})
		return ticker, instruction, err

	case Hunt:
		trend := strings.TrimSpace(fields[FieldKeyword])
		if trend == "" {
			return "", "", fmt.Errorf("hunt protocol requires a trend keyword")
		}
		instruction, err = prompt.LoadWithContext("hunt", map[string]string{
			"Keyword": trend,
		})
		return HuntTag, instruction, err

	case Macro:
		instruction, err = prompt.LoadWithContext("macro", map[string]string{
			"SofrIorb":   fields[FieldSofrIorb],
			"HygTrend":   fields[FieldHygTrend],
			"BtcTrend":   fields[FieldBtcTrend],
			"CopperGold": fields[FieldCopperGold],
			"Notes":      fields[FieldNotes],
		})
		return MacroTag, instruction, err
	}

	return "", "", fmt.Errorf("unknown protocol %q", string(p))
}
