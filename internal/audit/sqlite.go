package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS request_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	route TEXT NOT NULL,
	method TEXT NOT NULL,
	headers_json TEXT NOT NULL DEFAULT '{}',
	body_json TEXT NOT NULL DEFAULT '{}',
	trace_id TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_request_logs_trace ON request_logs(trace_id);

CREATE TABLE IF NOT EXISTS response_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	status_code INTEGER NOT NULL,
	body_json TEXT NOT NULL DEFAULT '{}',
	latency_ms INTEGER NOT NULL DEFAULT 0,
	trace_id TEXT NOT NULL,
	request_id INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_response_logs_trace ON response_logs(trace_id);

CREATE TABLE IF NOT EXISTS error_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	trace_id TEXT NOT NULL,
	location TEXT NOT NULL,
	message TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_error_logs_trace ON error_logs(trace_id);
`

// SQLiteStore keeps the audit trail in a local SQLite file. Timestamps are
// stored as RFC3339 text.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the audit database at path and
// applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveRequest(ctx context.Context, row *RequestLog) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO request_logs (route, method, headers_json, body_json, trace_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		row.Route, row.Method, row.Headers, row.Body, row.TraceID, stamp(row.CreatedAt))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) SaveResponse(ctx context.Context, row *ResponseLog) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO response_logs (status_code, body_json, latency_ms, trace_id, request_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		row.StatusCode, row.Body, row.LatencyMS, row.TraceID, row.RequestID, stamp(row.CreatedAt))
	return err
}

func (s *SQLiteStore) SaveError(ctx context.Context, row *ErrorLog) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO error_logs (trace_id, location, message, created_at)
		 VALUES (?, ?, ?, ?)`,
		row.TraceID, row.Where, row.Message, stamp(row.CreatedAt))
	return err
}

func (s *SQLiteStore) Trace(ctx context.Context, traceID string) (*Trace, error) {
	t := &Trace{}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, route, method, headers_json, body_json, trace_id, created_at
		 FROM request_logs WHERE trace_id = ? ORDER BY id`, traceID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var r RequestLog
		var created string
		if err := rows.Scan(&r.ID, &r.Route, &r.Method, &r.Headers, &r.Body, &r.TraceID, &created); err != nil {
			rows.Close()
			return nil, err
		}
		r.CreatedAt = parseStamp(created)
		t.Requests = append(t.Requests, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, status_code, body_json, latency_ms, trace_id, request_id, created_at
		 FROM response_logs WHERE trace_id = ? ORDER BY id`, traceID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var r ResponseLog
		var created string
		if err := rows.Scan(&r.ID, &r.StatusCode, &r.Body, &r.LatencyMS, &r.TraceID, &r.RequestID, &created); err != nil {
			rows.Close()
			return nil, err
		}
		r.CreatedAt = parseStamp(created)
		t.Responses = append(t.Responses, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, trace_id, location, message, created_at
		 FROM error_logs WHERE trace_id = ? ORDER BY id`, traceID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var r ErrorLog
		var created string
		if err := rows.Scan(&r.ID, &r.TraceID, &r.Where, &r.Message, &created); err != nil {
			rows.Close()
			return nil, err
		}
		r.CreatedAt = parseStamp(created)
		t.Errors = append(t.Errors, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(t.Requests) == 0 && len(t.Responses) == 0 && len(t.Errors) == 0 {
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func stamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseStamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
