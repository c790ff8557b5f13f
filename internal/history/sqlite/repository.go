// Package sqlite provides a SQLite-backed implementation of
// history.Repository.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa — important because order submission appends while the manager
// dashboard may be listing the log.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jcmexdev/table-order/internal/history"
	"github.com/jcmexdev/table-order/internal/store"

	// Register the pure-Go SQLite driver.
	// We use modernc.org/sqlite instead of mattn/go-sqlite3 to avoid CGO
	// requirements, making it easier to build and run in Docker (Alpine).
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup.
// The table is append-only: each row is an immutable snapshot of an order
// as it was submitted. Completion is never written back here.
const schema = `
CREATE TABLE IF NOT EXISTS order_history (
    -- Surrogate primary key — auto-incremented by SQLite.
    id          INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Business identifier, joinable with the live store document.
    order_id    TEXT    NOT NULL,

    -- Table the order was placed from.
    table_no    INTEGER NOT NULL,

    -- JSON array of {id,name,price,qty} line items.
    items       TEXT    NOT NULL,

    total       REAL    NOT NULL,
    eta_minutes INTEGER NOT NULL,

    -- W3C trace_id (32 hex chars) from the active OTel span, if any.
    -- Allows jumping from this row directly to the trace in Grafana/Tempo.
    trace_id    TEXT    NOT NULL DEFAULT '',

    -- W3C span_id (16 hex chars) — pinpoints the exact request span.
    span_id     TEXT    NOT NULL DEFAULT '',

    -- Submission timestamp (RFC3339 stored as TEXT, SQLite idiom).
    created_at  TEXT    NOT NULL
);

-- Index for the lookup "when was order X submitted".
CREATE INDEX IF NOT EXISTS idx_order_history_order_id ON order_history(order_id);
`

// Repository is the SQLite implementation of history.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema. WAL mode is enabled for better concurrent read/write
// performance.
//
//	repo, err := sqlite.Open("./data/history.db")
func Open(path string) (*Repository, error) {
	// The pure-Go driver uses _pragma query parameters to configure connection state.
	// WAL enables concurrent readers. busy_timeout waits for locks instead
	// of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3" for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection; this also
	// serializes concurrent appends.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Append inserts a new history row. It is safe to call concurrently.
func (r *Repository) Append(ctx context.Context, rec history.Record) error {
	items, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("sqlite: marshal items for %q: %w", rec.OrderID, err)
	}

	const q = `
		INSERT INTO order_history
			(order_id, table_no, items, total, eta_minutes, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, q,
		rec.OrderID,
		rec.Table,
		string(items),
		rec.Total,
		rec.ETAMinutes,
		rec.TraceID,
		rec.SpanID,
		rec.CreatedAt.UTC().Format("2006-01-02T15:04:05.999999999Z"),
	)
	if err != nil {
		return fmt.Errorf("sqlite: append history for %q: %w", rec.OrderID, err)
	}
	return nil
}

// List returns every history row, most recent first.
func (r *Repository) List(ctx context.Context) ([]history.Record, error) {
	const q = `
		SELECT order_id, table_no, items, total, eta_minutes, trace_id, span_id, created_at
		FROM   order_history
		ORDER  BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list history: %w", err)
	}
	defer rows.Close()

	var out []history.Record
	for rows.Next() {
		var rec history.Record
		var items, createdAt string
		if err := rows.Scan(
			&rec.OrderID,
			&rec.Table,
			&items,
			&rec.Total,
			&rec.ETAMinutes,
			&rec.TraceID,
			&rec.SpanID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan history row: %w", err)
		}
		if err := json.Unmarshal([]byte(items), &rec.Items); err != nil {
			return nil, fmt.Errorf("sqlite: decode items for %q: %w", rec.OrderID, err)
		}
		rec.Items = normalizeItems(rec.Items)
		rec.CreatedAt, err = parseRFC3339(createdAt)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list history: %w", err)
	}
	return out, nil
}

// applySchema runs the DDL statements once. Idempotent due to IF NOT EXISTS.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

// normalizeItems maps a JSON null items column to an empty slice so callers
// never see a nil item list.
func normalizeItems(items []store.OrderItem) []store.OrderItem {
	if items == nil {
		return []store.OrderItem{}
	}
	return items
}

// parseRFC3339 parses the timestamp strings stored in SQLite, which has no
// native datetime type; we store RFC3339 TEXT.
func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}
