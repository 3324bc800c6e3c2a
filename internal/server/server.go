// Package server exposes the connector over HTTP: capabilities, schema,
// health, and the configuration endpoints used to author deployment
// documents.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soorajshankar/ndc-postgres/internal/catalog"
	"github.com/soorajshankar/ndc-postgres/internal/configuration"
	"github.com/soorajshankar/ndc-postgres/internal/errs"
	"github.com/soorajshankar/ndc-postgres/internal/logger"
	"github.com/soorajshankar/ndc-postgres/internal/ndc"
	"github.com/soorajshankar/ndc-postgres/internal/schema"
)

// State is everything a request handler needs: the immutable validated
// configuration, the static operator catalog, the shared pool, and the
// logger. One State is built at startup and shared read-only by every
// request; no locking is needed.
type State struct {
	Configuration configuration.Configuration
	Catalog       *catalog.Catalog
	Pool          *pgxpool.Pool
	Logger        *logger.Logger
}

// NewRouter wires the connector's HTTP surface onto a chi router.
func NewRouter(state *State) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(state.Logger))

	r.Get("/capabilities", state.getCapabilities)
	r.Get("/schema", state.getSchema)
	r.Get("/health", state.getHealth)
	r.Get("/configuration", state.getConfigurationTemplate)
	r.Post("/configuration", state.postConfiguration)

	return r
}

func (s *State) getCapabilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ndc.CapabilitiesResponse{
		Versions: "^1.0.0",
		Capabilities: ndc.Capabilities{
			Query: ndc.QueryCapabilities{},
		},
	})
}

func (s *State) getSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schema.Derive(s.Configuration, s.Catalog))
}

func (s *State) getHealth(w http.ResponseWriter, r *http.Request) {
	if s.Pool != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.Pool.Ping(ctx); err != nil {
			logger.FromContext(r.Context()).ErrorErr("health check failed", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getConfigurationTemplate serves the empty deployment document a user
// starts from.
func (s *State) getConfigurationTemplate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, configuration.Empty())
}

// postConfiguration elaborates the posted deployment document against its
// own database and returns the result.
func (s *State) postConfiguration(w http.ResponseWriter, r *http.Request) {
	var raw configuration.RawConfiguration
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed configuration document"})
		return
	}

	elaborated, err := configuration.Configure(r.Context(), raw, configuration.DiscoveryQuery)
	if err != nil {
		s.Logger.ErrorErr("configuration elaboration failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, elaborated)
}

// writeError maps connector errors onto HTTP statuses without leaking
// driver internals to the caller.
func writeError(w http.ResponseWriter, err error) {
	var validationErrs configuration.ValidationErrors
	if errors.As(err, &validationErrs) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": validationErrs})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errs.IsValidation(err):
		status = http.StatusBadRequest
	case errs.IsConnectionFailed(err):
		status = http.StatusBadGateway
	case errs.IsTimeout(err):
		status = http.StatusGatewayTimeout
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// requestLogger logs one structured line per request and attaches the
// logger to the request context.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(log.WithContext(r.Context())))

			log.With().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Logger().
				Info("request handled")
		})
	}
}
