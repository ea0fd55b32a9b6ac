package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// MCPHandler handles MCP method dispatch.
type MCPHandler interface {
	Handle(ctx context.Context, tenantID, method string, params json.RawMessage) (any, error)
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware. tenancy
// attaches a tenant to each /rpc request; see AuthMiddleware and
// StaticTenant.
func NewServer(handler MCPHandler, tenancy func(http.Handler) http.Handler, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(accessLog(logger))

	srv := &Server{handler: handler, logger: logger}

	r.Get("/health", srv.handleHealth)
	r.Group(func(r chi.Router) {
		if tenancy != nil {
			r.Use(tenancy)
		}
		r.Post("/rpc", srv.handleRPC)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// maxBodyBytes bounds a /rpc request body.
const maxBodyBytes = 1 << 20

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := TenantFromContext(r.Context())
	if !ok || tenantID == "" {
		http.Error(w, "missing tenant", http.StatusUnauthorized)
		return
	}

	call := func(ctx context.Context, req Request) (any, error) {
		result, err := s.handler.Handle(ctx, tenantID, req.Method, req.Params)
		var coded CodedError
		if err != nil && !errors.Is(err, ErrUnauthorized) && !errors.As(err, &coded) {
			s.logger.Error("rpc call failed", "method", req.Method, "tenant_id", tenantID, "error", err)
		}
		return result, err
	}
	unauthorized := func(err error) bool { return errors.Is(err, ErrUnauthorized) }

	payload, err := Dispatch(r.Context(), http.MaxBytesReader(w, r.Body, maxBodyBytes), call, unauthorized)
	switch {
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case err != nil:
		http.Error(w, "unreadable request body", http.StatusBadRequest)
	case payload == nil:
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusOK, payload)
	}
}

func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		})
	}
}
