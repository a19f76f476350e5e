// Package display renders one analysis outcome for the operator: tactical
// summary, macro cycle board, full report, and a raw-response debug view.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"warroom/internal/memory"
	"warroom/internal/models"
	"warroom/internal/pipeline"
	"warroom/internal/protocol"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	metricStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 2)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// Results prints the full results view. debug additionally dumps the raw
// model response.
func Results(out *pipeline.Outcome, debug bool) {
	proto := protocol.Protocol(out.Request.Protocol)

	fmt.Println()
	fmt.Println(titleStyle.Render(fmt.Sprintf("TACTICAL DIRECTIVES: %s", proto.Title())))
	fmt.Println()

	if proto == protocol.Macro {
		renderCycleBoard(out)
	}

	renderMetrics(out)

	fmt.Println()
	fmt.Println(sectionStyle.Render("Core rationale"))
	fmt.Println(out.Verdict.Rationale("N/A"))

	fmt.Println()
	fmt.Println(sectionStyle.Render("Full report"))
	fmt.Println(out.Verdict.FullAnalysis("No detailed analysis"))

	renderWriteResult(out.WriteResult)

	if debug {
		fmt.Println()
		fmt.Println(sectionStyle.Render("Raw response (debug)"))
		fmt.Println(dimStyle.Render(out.RawResponse))
	}
}

func renderMetrics(out *pipeline.Outcome) {
	v := out.Verdict
	metrics := []string{
		metricStyle.Render("Decision: " + v.Decision("N/A")),
		metricStyle.Render("Risk (ARI): " + v.RiskScore("N/A")),
		metricStyle.Render("Target: " + v.TargetPrice("N/A")),
		metricStyle.Render("PACER: " + v.PacerType("N/A")),
	}
	fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top, metrics...))

	if keywords := v.Keywords(""); keywords != "" {
		fmt.Println(dimStyle.Render(keywords))
	}
}

func renderCycleBoard(out *pipeline.Outcome) {
	coords := out.Verdict.CycleCoords()
	cells := make([]string, 0, 4)
	for _, c := range []struct{ key, label string }{
		{"L1_Inventory", "L1 Inventory"},
		{"L2_CapEx", "L2 CapEx"},
		{"L3_Liquidity", "L3 Liquidity"},
		{"L4_Tech", "L4 Tech"},
	} {
		val := coords[c.key]
		if val == "" {
			val = "N/A"
		}
		cells = append(cells, metricStyle.Render(fmt.Sprintf("%s: %s", c.label, val)))
	}
	fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top, cells...))

	status, threat := out.Verdict.AriSignals()
	style := warnStyle
	switch {
	case strings.Contains(status, "Green"):
		style = okStyle
	case strings.Contains(status, "Red"):
		style = errStyle
	}
	fmt.Printf("%s  %s\n", style.Render("ARI signal: "+status), "Main threat: "+threat)
	fmt.Println()
}

func renderWriteResult(res memory.WriteResult) {
	fmt.Println()
	switch res.Status {
	case memory.Success:
		fmt.Println(okStyle.Render(fmt.Sprintf("Logged to memory as %s", res.Record.LogID)))
	case memory.ConnectionFailed:
		fmt.Println(warnStyle.Render("Memory log unreachable; decision was not archived"))
	default:
		fmt.Println(errStyle.Render("Memory log write failed: " + res.Message))
	}
}

// History prints log search hits, or an explicit no-history line for an
// empty result.
func History(records []models.LogRecord, query string) {
	if len(records) == 0 {
		fmt.Println(dimStyle.Render(fmt.Sprintf("No history for %q", query)))
		return
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("DECISION MEMORY: %d match(es) for %q", len(records), query)))
	for _, r := range records {
		fmt.Printf("%s  %s  %s\n", dimStyle.Render(r.LoggedAt), r.Ticker, okStyle.Render(r.Decision))
		fmt.Printf("  %s\n", r.Rationale)
		if r.Keywords != "" {
			fmt.Printf("  %s\n", dimStyle.Render(r.Keywords))
		}
	}
}
