// Package audit persists request/response/error rows keyed by trace id so
// an operator can reconstruct what one invocation saw. Recording is
// best-effort: a failed write never breaks the request being served.
package audit

import (
	"context"
	"errors"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("audit: trace not found")

type RequestLog struct {
	ID        int64     `json:"id"`
	Route     string    `json:"route"`
	Method    string    `json:"method"`
	Headers   string    `json:"headers_json"`
	Body      string    `json:"body_json"`
	TraceID   string    `json:"trace_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ResponseLog struct {
	ID         int64     `json:"id"`
	StatusCode int       `json:"status_code"`
	Body       string    `json:"body_json"`
	LatencyMS  int64     `json:"latency_ms"`
	TraceID    string    `json:"trace_id"`
	RequestID  int64     `json:"request_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type ErrorLog struct {
	ID        int64     `json:"id"`
	TraceID   string    `json:"trace_id"`
	Where     string    `json:"where"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Trace bundles everything persisted for one trace id.
type Trace struct {
	Requests  []RequestLog  `json:"requests"`
	Responses []ResponseLog `json:"responses"`
	Errors    []ErrorLog    `json:"errors"`
}

// Store is the persistence backend. Both the sqlite and the postgres
// implementation satisfy it.
type Store interface {
	SaveRequest(ctx context.Context, row *RequestLog) (int64, error)
	SaveResponse(ctx context.Context, row *ResponseLog) error
	SaveError(ctx context.Context, row *ErrorLog) error
	Trace(ctx context.Context, traceID string) (*Trace, error)
	Close() error
}

const recentTraces = 256

// Recorder fronts a Store with best-effort semantics and a small LRU of
// recently read trace bundles for the admin lookup endpoint.
type Recorder struct {
	store  Store
	log    *zap.Logger
	recent *lru.Cache[string, *Trace]
}

func NewRecorder(store Store, log *zap.Logger) (*Recorder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	recent, err := lru.New[string, *Trace](recentTraces)
	if err != nil {
		return nil, err
	}
	return &Recorder{store: store, log: log, recent: recent}, nil
}

// Request persists a request row and returns its id (0 when the write
// failed; recording must not break the request).
func (r *Recorder) Request(ctx context.Context, row *RequestLog) int64 {
	r.recent.Remove(row.TraceID)
	id, err := r.store.SaveRequest(ctx, row)
	if err != nil {
		r.log.Warn("audit: request write failed", zap.String("trace_id", row.TraceID), zap.Error(err))
		return 0
	}
	return id
}

func (r *Recorder) Response(ctx context.Context, row *ResponseLog) {
	r.recent.Remove(row.TraceID)
	if err := r.store.SaveResponse(ctx, row); err != nil {
		r.log.Warn("audit: response write failed", zap.String("trace_id", row.TraceID), zap.Error(err))
	}
}

func (r *Recorder) Error(ctx context.Context, row *ErrorLog) {
	r.recent.Remove(row.TraceID)
	if err := r.store.SaveError(ctx, row); err != nil {
		r.log.Warn("audit: error write failed", zap.String("trace_id", row.TraceID), zap.Error(err))
	}
}

// Trace returns the persisted bundle for traceID, serving repeat lookups
// of settled traces from the LRU. Bundles without a response row are not
// cached since the invocation may still be in flight.
func (r *Recorder) Trace(ctx context.Context, traceID string) (*Trace, error) {
	if t, ok := r.recent.Get(traceID); ok {
		return t, nil
	}
	t, err := r.store.Trace(ctx, traceID)
	if err != nil {
		return nil, err
	}
	if len(t.Responses) > 0 {
		r.recent.Add(traceID, t)
	}
	return t, nil
}

func (r *Recorder) Close() error { return r.store.Close() }
