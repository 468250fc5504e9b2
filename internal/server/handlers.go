package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sdlcassist/internal/audit"
	"sdlcassist/internal/dispatch"
	"sdlcassist/internal/llm"
	"sdlcassist/internal/repair"
	"sdlcassist/internal/schema"
	"sdlcassist/internal/validate"
)

type Handlers struct {
	Dispatcher *dispatch.Dispatcher
	Recorder   *audit.Recorder
	Log        *zap.Logger
}

func NewHandlers(d *dispatch.Dispatcher, rec *audit.Recorder, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{Dispatcher: d, Recorder: rec, Log: log}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// Analyze handles POST /api/v1/{kind} for every operation kind.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	kind := schema.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		writeError(w, http.StatusNotFound, "not_found", "unknown analysis kind")
		return
	}

	req := schema.NewRequest(kind)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "request body is not valid JSON")
		return
	}

	resp, err := h.Dispatcher.Execute(r.Context(), req)
	if err != nil {
		h.respondError(w, r, kind, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// respondError maps pipeline failures onto the error envelope. Raw model
// output never reaches the client.
func (h *Handlers) respondError(w http.ResponseWriter, r *http.Request, kind schema.Kind, err error) {
	traceID := dispatch.TraceIDFrom(r.Context())

	var status int
	var code, message string

	var ve *schema.ValidationError
	var sv *validate.SchemaViolationError
	var ue *llm.UpstreamError
	switch {
	case errors.As(err, &ve):
		status, code, message = http.StatusBadRequest, "bad_request", ve.Error()
	case errors.As(err, &ue):
		status, code, message = http.StatusBadGateway, "upstream_error", "model call failed"
	case errors.Is(err, repair.ErrMalformedOutput):
		status, code, message = http.StatusBadGateway, "malformed_output", "model returned output that could not be parsed"
	case errors.As(err, &sv):
		status, code, message = http.StatusBadGateway, "schema_violation", sv.Error()
	case errors.Is(err, context.DeadlineExceeded):
		status, code, message = http.StatusGatewayTimeout, "timeout", "operation timed out"
	default:
		status, code, message = http.StatusInternalServerError, "internal_error", "internal error"
	}

	if h.Recorder != nil {
		h.Recorder.Error(r.Context(), &audit.ErrorLog{
			TraceID:   traceID,
			Where:     string(kind),
			Message:   err.Error(),
			CreatedAt: time.Now(),
		})
	}
	if status >= 500 {
		h.Log.Error("operation failed",
			zap.String("kind", string(kind)),
			zap.String("trace_id", traceID),
			zap.Error(err),
		)
	}
	writeError(w, status, code, message)
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Trace handles GET /api/v1/admin/trace/{trace_id}.
func (h *Handlers) Trace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "trace_id")
	t, err := h.Recorder.Trace(r.Context(), id)
	if err != nil {
		if errors.Is(err, audit.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "no records for trace id")
			return
		}
		h.Log.Error("trace lookup failed", zap.String("trace_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, t)
}
