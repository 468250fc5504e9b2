package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client is the outbound model gateway. GenerateJSON sends one prompt pair
// (system instruction plus a JSON-serializable payload) and returns the raw
// model text. Implementations own the network call only; retries live in
// the dispatcher.
type Client interface {
	Name() string
	GenerateJSON(ctx context.Context, system string, payload any) (json.RawMessage, error)
	Close() error
}

// ErrEmptyOutput is returned when the endpoint answers without any content.
var ErrEmptyOutput = errors.New("llm: empty model output")

// UpstreamError wraps any failure to reach the model endpoint or get a
// usable completion from it.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return "llm: upstream failure: " + e.Err.Error() }
func (e *UpstreamError) Unwrap() error { return e.Err }

func upstream(err error) error { return &UpstreamError{Err: err} }
