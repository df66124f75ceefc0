package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/viant/bigquery"

	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/config"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/logger"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
	"go.uber.org/zap"
)

// QueryResult is the materialized output of one warehouse query
type QueryResult struct {
	Rows         []map[string]any
	BytesScanned int64
}

// QueryEngine executes read-only SQL against the analytics warehouse
type QueryEngine interface {
	// ExecuteReadOnly runs one SELECT statement and records the scan as
	// one usage entry. The statement must pass EnsureReadOnly first;
	// callers validate before dispatch so unsafe text never reaches here.
	ExecuteReadOnly(ctx context.Context, query string, rec *usage.Record) (*QueryResult, error)
}

// SQLEngine is a database/sql backed QueryEngine
type SQLEngine struct {
	db      *sql.DB
	maxRows int
}

// NewSQLEngine opens the configured warehouse driver
func NewSQLEngine(cfg config.WarehouseConfig) (*SQLEngine, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse connection: %w", err)
	}
	return &SQLEngine{db: db, maxRows: cfg.MaxRows}, nil
}

// ExecuteReadOnly runs one validated query, capping rows at the configured limit
func (e *SQLEngine) ExecuteReadOnly(ctx context.Context, query string, rec *usage.Record) (*QueryResult, error) {
	if err := EnsureReadOnly(query); err != nil {
		return nil, err
	}

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("warehouse query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	result := &QueryResult{}
	for rows.Next() {
		if e.maxRows > 0 && len(result.Rows) >= e.maxRows {
			logger.Warn("warehouse result truncated", zap.Int("max_rows", e.maxRows))
			break
		}
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
			result.BytesScanned += estimateValueBytes(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("warehouse result iteration failed: %w", err)
	}

	rec.AddWarehouse("warehouse.query", result.BytesScanned)
	return result, nil
}

// Close releases the underlying connection pool
func (e *SQLEngine) Close() error {
	return e.db.Close()
}

// estimateValueBytes approximates the scanned volume of one cell. The driver
// does not expose job statistics, so billing uses materialized sizes.
func estimateValueBytes(v any) int64 {
	switch t := v.(type) {
	case nil:
		return 0
	case string:
		return int64(len(t))
	case []byte:
		return int64(len(t))
	case bool:
		return 1
	default:
		return 8
	}
}

var (
	writeVerbs = regexp.MustCompile(
		`(?i)\b(DELETE|UPDATE|INSERT|DROP|ALTER|CREATE|TRUNCATE|MERGE|GRANT|REVOKE)\b`)
	leadingSelect = regexp.MustCompile(`(?i)^\s*(SELECT|WITH)\b`)
)

// EnsureReadOnly rejects any statement that is not a single SELECT. This is
// the only gate between model-generated SQL and the warehouse.
func EnsureReadOnly(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return fmt.Errorf("rejected empty query")
	}
	if !leadingSelect.MatchString(trimmed) {
		return fmt.Errorf("rejected non-SELECT statement")
	}
	if writeVerbs.MatchString(trimmed) {
		return fmt.Errorf("rejected statement containing a write verb")
	}
	if stacked(trimmed) {
		return fmt.Errorf("rejected stacked statements")
	}
	return nil
}

// stacked reports whether query contains a second statement after a
// semicolon. A single trailing semicolon is allowed.
func stacked(query string) bool {
	inSingle, inDouble := false, false
	for i := 0; i < len(query); i++ {
		switch query[i] {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case ';':
			if inSingle || inDouble {
				continue
			}
			rest := strings.TrimSpace(query[i+1:])
			if rest != "" {
				return true
			}
		}
	}
	return false
}
