package memory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"warroom/internal/models"
)

// SQLiteStore keeps the decision log in one local table with a fixed column
// order. Consumers agree on column order, not named access: a schema change
// means appending a column at the end, never reordering.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_loc=Local")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.initTable(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initTable() error {
	// Column order mirrors the log sheet:
	// ID | Time | Ticker | Decision | Rationale | Risk | Entry | Cycle | Keywords | PACER | Full
	query := `
	CREATE TABLE IF NOT EXISTS decision_log (
		log_id TEXT NOT NULL,
		logged_at TEXT NOT NULL,
		ticker TEXT,
		decision TEXT,
		rationale TEXT,
		risk_score TEXT,
		entry_price TEXT,
		cycle_position TEXT,
		keywords TEXT,
		pacer_type TEXT,
		full_analysis TEXT
	);`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create decision_log table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append writes exactly one row. No uniqueness check on log_id: the log is
// an audit trail, not a keyed table.
func (s *SQLiteStore) Append(ctx context.Context, r models.LogRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decision_log
		(log_id, logged_at, ticker, decision, rationale, risk_score, entry_price, cycle_position, keywords, pacer_type, full_analysis)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.LogID, r.LoggedAt, r.Ticker, r.Decision, r.Rationale, r.RiskScore,
		r.EntryPrice, r.CyclePosition, r.Keywords, r.PacerType, r.FullAnalysis,
	)
	if err != nil {
		return fmt.Errorf("append decision log row: %w", err)
	}
	return nil
}

// Search returns the latest SearchLimit rows whose ticker, keywords,
// rationale or pacer_type contain the query, case-insensitively.
func (s *SQLiteStore) Search(ctx context.Context, query string) ([]models.LogRecord, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT log_id, logged_at, ticker, decision, rationale, risk_score, entry_price, cycle_position, keywords, pacer_type, full_analysis
		FROM decision_log
		WHERE lower(ticker) LIKE ?
		   OR lower(keywords) LIKE ?
		   OR lower(rationale) LIKE ?
		   OR lower(pacer_type) LIKE ?
		ORDER BY rowid DESC
		LIMIT ?`,
		pattern, pattern, pattern, pattern, SearchLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("search decision log: %w", err)
	}
	defer rows.Close()

	var records []models.LogRecord
	for rows.Next() {
		var r models.LogRecord
		if err := rows.Scan(&r.LogID, &r.LoggedAt, &r.Ticker, &r.Decision, &r.Rationale,
			&r.RiskScore, &r.EntryPrice, &r.CyclePosition, &r.Keywords, &r.PacerType, &r.FullAnalysis); err != nil {
			return nil, fmt.Errorf("scan decision log row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decision log rows: %w", err)
	}
	return records, nil
}
