package memory

import (
	"context"
	"fmt"
	"time"

	"warroom/internal/models"
	"warroom/internal/verdict"
)

// WriteStatus classifies the outcome of one log append.
type WriteStatus int

const (
	Success WriteStatus = iota
	ConnectionFailed
	WriteError
)

// WriteResult is surfaced to the operator as an informational signal only;
// the pipeline never acts on it.
type WriteResult struct {
	Status  WriteStatus
	Message string
	Record  models.LogRecord
}

func (r WriteResult) String() string {
	switch r.Status {
	case Success:
		return "Success"
	case ConnectionFailed:
		return "Connection Failed"
	default:
		return fmt.Sprintf("Error: %s", r.Message)
	}
}

// WriteMeta carries the request-side identity of the row being logged.
type WriteMeta struct {
	LogID  string // derived when empty
	Ticker string
	Now    time.Time // zero means time.Now()
}

// Writer normalizes a verdict into one fixed-shape row and appends it.
// Fire and forget: failures are reported, never retried, never propagated
// as errors.
type Writer struct {
	store Store
}

func NewWriter(store Store) *Writer {
	return &Writer{store: store}
}

// Write builds the LogRecord with a documented default per missing verdict
// field and appends exactly one row.
func (w *Writer) Write(ctx context.Context, v *verdict.Verdict, meta WriteMeta) WriteResult {
	now := meta.Now
	if now.IsZero() {
		now = time.Now()
	}

	logID := meta.LogID
	if logID == "" {
		if meta.Ticker != "" {
			logID = fmt.Sprintf("%s-%s", now.Format("20060102"), meta.Ticker)
		} else {
			logID = fmt.Sprintf("AUTO-%s", now.Format("200601021504"))
		}
	}

	record := models.LogRecord{
		LogID:         logID,
		LoggedAt:      now.Format("2006-01-02 15:04"),
		Ticker:        meta.Ticker,
		Decision:      v.Decision("Watch"),
		Rationale:     v.Rationale("No rationale provided"),
		RiskScore:     v.RiskScore("0"),
		EntryPrice:    v.TargetPrice("Market"),
		CyclePosition: v.CyclePosition("Unknown"),
		Keywords:      v.Keywords(""),
		PacerType:     v.PacerType("R"),
		FullAnalysis:  v.FullAnalysis("N/A"),
	}

	if w.store == nil {
		return WriteResult{Status: ConnectionFailed, Record: record}
	}

	if err := w.store.Append(ctx, record); err != nil {
		return WriteResult{Status: WriteError, Message: err.Error(), Record: record}
	}

	return WriteResult{Status: Success, Record: record}
}
