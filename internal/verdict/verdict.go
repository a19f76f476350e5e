// Package verdict recovers the structured result of a reasoning round from
// raw model text. Malformed output is the expected common case here, so
// extraction never fails: it degrades.
package verdict

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Decision sentinel used when no structured object could be recovered.
const DecisionError = "Error"

// Verdict is the best-effort structured output of one reasoning round.
// Every field is optional; reads go through accessors that resolve a
// documented default exactly once, at this boundary.
type Verdict struct {
	fields   map[string]any
	raw      string
	degraded bool
}

// Extract slices the substring between the first '{' and the last '}' of
// the response and parses it. Any failure, including braces that belong to
// surrounding prose, yields a degraded verdict carrying the raw text.
//
// The first-brace/last-brace strategy is kept deliberately: a stray brace
// inside the payload's own prose can defeat it, and smarter scanning would
// change behavior for responses the current strategy accepts.
func Extract(raw string) *Verdict {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return degraded(raw, "response contained no JSON object")
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &fields); err != nil {
		return degraded(raw, fmt.Sprintf("structured parsing failed: %v", err))
	}

	return &Verdict{fields: fields, raw: raw}
}

func degraded(raw, reason string) *Verdict {
	return &Verdict{
		fields: map[string]any{
			"decision":      DecisionError,
			"rationale":     reason,
			"full_analysis": raw,
		},
		raw:      raw,
		degraded: true,
	}
}

// Raw returns the unmodified model response.
func (v *Verdict) Raw() string { return v.raw }

// IsDegraded reports whether structured extraction failed.
func (v *Verdict) IsDegraded() bool { return v.degraded }

// Field reads a top-level field as a string, resolving def when the key is
// absent or blank. Numeric JSON values are rendered back as their literal.
func (v *Verdict) Field(key, def string) string {
	s := stringify(v.fields[key])
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func stringify(val any) string {
	switch t := val.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func (v *Verdict) Decision(def string) string     { return v.Field("decision", def) }
func (v *Verdict) PacerType(def string) string    { return v.Field("pacer_type", def) }
func (v *Verdict) TargetPrice(def string) string  { return v.Field("target_price", def) }
func (v *Verdict) RiskScore(def string) string    { return v.Field("risk_score", def) }
func (v *Verdict) Rationale(def string) string    { return v.Field("rationale", def) }
func (v *Verdict) Keywords(def string) string     { return v.Field("keywords", def) }
func (v *Verdict) FullAnalysis(def string) string { return v.Field("full_analysis", def) }

// CycleCoords returns the macro cycle coordinates (L1_Inventory, L2_CapEx,
// L3_Liquidity, L4_Tech). Missing or malformed coords yield an empty map.
func (v *Verdict) CycleCoords() map[string]string {
	return stringMap(v.fields["cycle_coords"])
}

// AriSignals returns the macro risk signal. Both values default to "N/A".
func (v *Verdict) AriSignals() (status, mainThreat string) {
	signals := stringMap(v.fields["ari_signals"])
	status, mainThreat = signals["status"], signals["main_threat"]
	if status == "" {
		status = "N/A"
	}
	if mainThreat == "" {
		mainThreat = "N/A"
	}
	return status, mainThreat
}

// CyclePosition condenses the cycle coordinates into one log column, or
// def when the verdict carries none.
func (v *Verdict) CyclePosition(def string) string {
	coords := v.CycleCoords()
	if len(coords) == 0 {
		return def
	}
	parts := make([]string, 0, 4)
	for _, key := range []string{"L1_Inventory", "L2_CapEx", "L3_Liquidity", "L4_Tech"} {
		if val := coords[key]; val != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", strings.SplitN(key, "_", 2)[0], val))
		}
	}
	if len(parts) == 0 {
		return def
	}
	return strings.Join(parts, " ")
}

func stringMap(val any) map[string]string {
	out := map[string]string{}
	nested, ok := val.(map[string]any)
	if !ok {
		return out
	}
	for key, value := range nested {
		if s := stringify(value); s != "" {
			out[key] = s
		}
	}
	return out
}
