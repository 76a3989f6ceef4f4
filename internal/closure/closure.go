package closure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/lowcodeminds/tms-api/internal/config"
)

// ErrConnection indicates the database could not be reached or rejected the
// configured credentials. It is distinct from an empty result set, which is
// a valid success case.
var ErrConnection = errors.New("database connection failed")

// table is the single table this service reads. The query is fixed at the
// source level and never parametrized by the request.
const table = "tmsv_360_project_closure"

// Record is one row of closure data, keyed by column name. Field names and
// types are whatever the query produces; no coercion layer sits on top.
type Record map[string]any

// Gateway performs one read-only round trip against the closure table per
// call. The underlying database/sql pool bounds concurrent connections; no
// state is held between calls beyond what the pool itself keeps.
type Gateway struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open prepares a gateway against the configured MySQL database. The handle
// is lazy: a down database surfaces on the first fetch, not here, so the
// service can start serving static routes while the database is unreachable.
func Open(cfg config.Database, logger *slog.Logger) (*Gateway, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(0)
	return &Gateway{db: db, logger: logger}, nil
}

// Close releases the connection pool.
func (g *Gateway) Close() error {
	return g.db.Close()
}

// FetchClosureData returns every row of the closure table in whatever order
// the engine yields. Connection acquisition failures wrap ErrConnection;
// failures after a connection was established propagate as-is.
func (g *Gateway) FetchClosureData(ctx context.Context) ([]Record, error) {
	conn, err := g.db.Conn(ctx)
	if err != nil {
		g.logger.Error("closure db connection", "error", err)
		return nil, fmt.Errorf("%w: acquire connection", ErrConnection)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func collectRecords(rows *sql.Rows) ([]Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	records := make([]Record, 0)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec := make(Record, len(cols))
		for i, col := range cols {
			rec[col] = normalize(vals[i])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return records, nil
}

// normalize makes driver values JSON-friendly: byte slices become strings
// (the driver returns text columns as []byte, which encoding/json would
// base64-encode) and temporal values render as ISO-8601.
func normalize(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return isoformat(val)
	default:
		return v
	}
}

// isoformat matches the upstream consumers' expectation: bare dates render
// without a time component, everything else as a full timestamp.
func isoformat(t time.Time) string {
	if h, m, s := t.Clock(); h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02T15:04:05")
}
