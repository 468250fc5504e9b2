package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS request_logs (
	id BIGSERIAL PRIMARY KEY,
	route TEXT NOT NULL,
	method TEXT NOT NULL,
	headers_json TEXT NOT NULL DEFAULT '{}',
	body_json TEXT NOT NULL DEFAULT '{}',
	trace_id TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_request_logs_trace ON request_logs(trace_id);

CREATE TABLE IF NOT EXISTS response_logs (
	id BIGSERIAL PRIMARY KEY,
	status_code INTEGER NOT NULL,
	body_json TEXT NOT NULL DEFAULT '{}',
	latency_ms BIGINT NOT NULL DEFAULT 0,
	trace_id TEXT NOT NULL,
	request_id BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_response_logs_trace ON response_logs(trace_id);

CREATE TABLE IF NOT EXISTS error_logs (
	id BIGSERIAL PRIMARY KEY,
	trace_id TEXT NOT NULL,
	location TEXT NOT NULL,
	message TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_error_logs_trace ON error_logs(trace_id);
`

// PostgresStore keeps the audit trail in Postgres, for deployments where
// the service runs with more than one replica.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) SaveRequest(ctx context.Context, row *RequestLog) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO request_logs (route, method, headers_json, body_json, trace_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		row.Route, row.Method, row.Headers, row.Body, row.TraceID, orNow(row.CreatedAt)).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *PostgresStore) SaveResponse(ctx context.Context, row *ResponseLog) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO response_logs (status_code, body_json, latency_ms, trace_id, request_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		row.StatusCode, row.Body, row.LatencyMS, row.TraceID, row.RequestID, orNow(row.CreatedAt))
	return err
}

func (s *PostgresStore) SaveError(ctx context.Context, row *ErrorLog) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO error_logs (trace_id, location, message, created_at)
		 VALUES ($1, $2, $3, $4)`,
		row.TraceID, row.Where, row.Message, orNow(row.CreatedAt))
	return err
}

func (s *PostgresStore) Trace(ctx context.Context, traceID string) (*Trace, error) {
	t := &Trace{}

	rows, err := s.pool.Query(ctx,
		`SELECT id, route, method, headers_json, body_json, trace_id, created_at
		 FROM request_logs WHERE trace_id = $1 ORDER BY id`, traceID)
	if err != nil {
		return nil, err
	}
	t.Requests, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (RequestLog, error) {
		var r RequestLog
		err := row.Scan(&r.ID, &r.Route, &r.Method, &r.Headers, &r.Body, &r.TraceID, &r.CreatedAt)
		return r, err
	})
	if err != nil {
		return nil, err
	}

	rows, err = s.pool.Query(ctx,
		`SELECT id, status_code, body_json, latency_ms, trace_id, request_id, created_at
		 FROM response_logs WHERE trace_id = $1 ORDER BY id`, traceID)
	if err != nil {
		return nil, err
	}
	t.Responses, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (ResponseLog, error) {
		var r ResponseLog
		err := row.Scan(&r.ID, &r.StatusCode, &r.Body, &r.LatencyMS, &r.TraceID, &r.RequestID, &r.CreatedAt)
		return r, err
	})
	if err != nil {
		return nil, err
	}

	rows, err = s.pool.Query(ctx,
		`SELECT id, trace_id, location, message, created_at
		 FROM error_logs WHERE trace_id = $1 ORDER BY id`, traceID)
	if err != nil {
		return nil, err
	}
	t.Errors, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (ErrorLog, error) {
		var r ErrorLog
		err := row.Scan(&r.ID, &r.TraceID, &r.Where, &r.Message, &r.CreatedAt)
		return r, err
	})
	if err != nil {
		return nil, err
	}

	if len(t.Requests) == 0 && len(t.Responses) == 0 && len(t.Errors) == 0 {
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
