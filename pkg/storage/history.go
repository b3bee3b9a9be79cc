package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"trendlens-go/pkg/logger"
)

// FetchRecord is one remembered facade invocation.
type FetchRecord struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"` // "interest_over_time", "interest_by_region", "related_queries"
	Keywords   []string  `json:"keywords"`
	Timeframe  string    `json:"timeframe,omitempty"`
	Geo        string    `json:"geo,omitempty"`
	Resolution string    `json:"resolution,omitempty"`
	RowCount   int       `json:"row_count"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// FetchHistory persists fetch outcomes in SQLite.
type FetchHistory struct {
	db  *sql.DB
	log *logger.Logger
}

// OpenHistory opens (and migrates) the fetch history at dbPath. Pass
// ":memory:" for an ephemeral store.
func OpenHistory(dbPath string) (*FetchHistory, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	h := &FetchHistory{
		db:  db,
		log: logger.ForComponent("fetch_history"),
	}
	if err := h.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	h.log.WithField("path", dbPath).Debug("Fetch history opened")
	return h, nil
}

func (h *FetchHistory) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS fetches (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		keywords TEXT NOT NULL,
		timeframe TEXT,
		geo TEXT,
		resolution TEXT,
		row_count INTEGER DEFAULT 0,
		success INTEGER NOT NULL,
		error TEXT,
		duration_ms INTEGER DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_fetches_created ON fetches(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_fetches_kind ON fetches(kind);
	`
	_, err := h.db.Exec(schema)
	return err
}

// Record stores one fetch outcome. A missing ID or timestamp is filled in.
func (h *FetchHistory) Record(ctx context.Context, record FetchRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := h.db.ExecContext(ctx, `
		INSERT INTO fetches (id, kind, keywords, timeframe, geo, resolution, row_count, success, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Kind,
		strings.Join(record.Keywords, ","),
		record.Timeframe,
		record.Geo,
		record.Resolution,
		record.RowCount,
		boolToInt(record.Success),
		record.Error,
		record.DurationMs,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record fetch: %w", err)
	}
	return nil
}

// Recent returns the most recent fetch records, newest first.
func (h *FetchHistory) Recent(ctx context.Context, limit int) ([]FetchRecord, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT id, kind, keywords, timeframe, geo, resolution, row_count, success, error, duration_ms, created_at
		FROM fetches
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []FetchRecord
	for rows.Next() {
		var rec FetchRecord
		var keywords string
		var success int
		if err := rows.Scan(&rec.ID, &rec.Kind, &keywords, &rec.Timeframe, &rec.Geo,
			&rec.Resolution, &rec.RowCount, &success, &rec.Error, &rec.DurationMs, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if keywords != "" {
			rec.Keywords = strings.Split(keywords, ",")
		}
		rec.Success = success != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the underlying database handle.
func (h *FetchHistory) Close() error {
	return h.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
