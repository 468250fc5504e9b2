package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sdlcassist/internal/audit"
)

// NewMux wires the routes and middleware chain. apiKey may be empty, in
// which case authentication is disabled.
func NewMux(h *Handlers, rec *audit.Recorder, apiKey string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID)
	r.Use(APIKey(apiKey))

	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(Audit(rec, log)).Post("/{kind}", h.Analyze)
		r.Get("/admin/trace/{trace_id}", h.Trace)
	})

	return CORS(r)
}
