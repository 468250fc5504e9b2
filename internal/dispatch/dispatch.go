// Package dispatch ties one operation together: prompt build, gateway
// call, repair, validation. Each invocation moves through
// Building -> Calling -> Repairing -> Validating and ends Succeeded or
// Failed; retries re-enter Calling at most once, never more.
package dispatch

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"sdlcassist/internal/llm"
	"sdlcassist/internal/prompt"
	"sdlcassist/internal/repair"
	"sdlcassist/internal/schema"
	"sdlcassist/internal/validate"
)

const (
	defaultMaxAttempts = 2
	defaultBaseBackoff = 500 * time.Millisecond
	defaultMaxBackoff  = 3 * time.Second
)

type traceKey struct{}

// WithTraceID carries the caller's trace id so the response envelope is
// stamped with it instead of a freshly generated one.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

func TraceIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// Dispatcher executes operations against an injected model gateway.
type Dispatcher struct {
	LLM    llm.Client
	Repair *repair.Pipeline
	Log    *zap.Logger

	// Retry budget over the whole call-repair-validate leg. Zero values
	// take the defaults: 2 total attempts, exponential backoff from 500ms
	// capped at 3s.
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

func New(client llm.Client, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{LLM: client, Repair: repair.NewPipeline(), Log: log}
}

// Execute runs one operation end to end. Request validation failures are
// returned immediately; transient upstream failures and one-shot model
// misformatting are retried within the attempt budget, after which the
// last error is propagated unmodified.
func (d *Dispatcher) Execute(ctx context.Context, req schema.Request) (any, error) {
	kind := req.Kind()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	system, payload, err := prompt.Build(req)
	if err != nil {
		return nil, err
	}
	ctx = llm.WithOperation(ctx, string(kind))

	attempts := d.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	var last error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if err := d.wait(ctx, i); err != nil {
				return nil, err
			}
		}
		resp, err := d.attempt(ctx, kind, system, payload)
		if err == nil {
			return resp, nil
		}
		if !retryable(err) {
			return nil, err
		}
		last = err
		d.Log.Warn("operation attempt failed",
			zap.String("kind", string(kind)),
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
	}
	return nil, last
}

func (d *Dispatcher) attempt(ctx context.Context, kind schema.Kind, system string, payload any) (any, error) {
	raw, err := d.LLM.GenerateJSON(ctx, system, payload)
	if err != nil {
		return nil, err
	}
	obj, err := d.Repair.Run(kind, raw)
	if err != nil {
		return nil, err
	}
	if id := TraceIDFrom(ctx); id != "" {
		obj["trace_id"] = id
	}
	return validate.Validate(kind, obj)
}

// wait sleeps for the backoff interval before attempt i, stopping early if
// the caller cancels.
func (d *Dispatcher) wait(ctx context.Context, i int) error {
	base := d.BaseBackoff
	if base <= 0 {
		base = defaultBaseBackoff
	}
	max := d.MaxBackoff
	if max <= 0 {
		max = defaultMaxBackoff
	}
	delay := base << (i - 1)
	if delay > max {
		delay = max
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retryable covers transient network failure and one-shot model
// misformatting; anything else is terminal on first sight.
func retryable(err error) bool {
	var ue *llm.UpstreamError
	if errors.As(err, &ue) {
		return true
	}
	if errors.Is(err, repair.ErrMalformedOutput) {
		return true
	}
	var sv *validate.SchemaViolationError
	return errors.As(err, &sv)
}
