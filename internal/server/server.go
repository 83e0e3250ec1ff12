// Package server provides the HTTP API for uploading, reviewing and exporting a résumé.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/resume-refiner/internal/config"
	"github.com/jonathan/resume-refiner/internal/extraction"
	"github.com/jonathan/resume-refiner/internal/rendering"
	"github.com/jonathan/resume-refiner/internal/server/middleware"
	"github.com/jonathan/resume-refiner/internal/server/ratelimit"
	"github.com/jonathan/resume-refiner/internal/types"
)

// DefaultMaxUploadBytes caps the size of an uploaded résumé.
const DefaultMaxUploadBytes = 15 << 20

// Extractor turns an uploaded document into a record.
type Extractor interface {
	Extract(ctx context.Context, doc *extraction.Document, format types.Format) (*types.ResumeRecord, error)
}

// Analyzer reports grammar issues for a record.
type Analyzer interface {
	Analyze(ctx context.Context, record *types.ResumeRecord, format types.Format) ([]types.GrammarIssue, error)
}

// Config holds server configuration
type Config struct {
	Port           int
	Session        *config.SessionConfig
	RateLimit      *ratelimit.Config
	ModelTimeout   time.Duration
	MaxUploadBytes int64
}

// Deps are the pipeline components the handlers drive.
type Deps struct {
	Extractor Extractor
	Analyzer  Analyzer
	Exporter  *rendering.Exporter
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       *SessionStore
	tokens      *TokenService
	rateLimiter *ratelimit.Limiter
	deps        Deps
	validate    *validator.Validate
	logger      *zap.Logger

	modelTimeout   time.Duration
	maxUploadBytes int64
}

// New creates a new server instance
func New(cfg Config, deps Deps, logger *zap.Logger) (*Server, error) {
	if cfg.Session == nil {
		return nil, fmt.Errorf("session configuration is required")
	}
	if deps.Extractor == nil || deps.Analyzer == nil || deps.Exporter == nil {
		return nil, fmt.Errorf("extractor, analyzer and exporter are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		store:          NewSessionStore(cfg.Session.TTL(), logger),
		tokens:         NewTokenService(cfg.Session),
		rateLimiter:    ratelimit.NewLimiter(cfg.RateLimit),
		deps:           deps,
		validate:       validator.New(),
		logger:         logger,
		modelTimeout:   cfg.ModelTimeout,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
	if s.modelTimeout <= 0 {
		s.modelTimeout = 2 * time.Minute
	}
	if s.maxUploadBytes <= 0 {
		s.maxUploadBytes = DefaultMaxUploadBytes
	}

	auth := middleware.Authenticate(s.tokens.SessionFor)
	protect := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /sessions", s.handleCreateSession)

	mux.Handle("DELETE /sessions", protect(s.handleDeleteSession))
	mux.Handle("GET /sessions/record", protect(s.handleGetRecord))
	mux.Handle("PUT /sessions/format", protect(s.handleSetFormat))
	mux.Handle("POST /sessions/analyze", protect(s.handleAnalyze))
	mux.Handle("GET /sessions/issues", protect(s.handleListIssues))
	mux.Handle("POST /sessions/issues/accept-all", protect(s.handleAcceptAll))
	mux.Handle("POST /sessions/issues/{id}/accept", protect(s.handleAccept))
	mux.Handle("POST /sessions/issues/{id}/ignore", protect(s.handleIgnore))
	mux.Handle("GET /sessions/changes", protect(s.handleChangeLog))
	mux.Handle("POST /sessions/changes/{id}/undo", protect(s.handleUndo))
	mux.Handle("GET /sessions/preview", protect(s.handlePreview))
	mux.Handle("GET /sessions/export/{kind}", protect(s.handleExport))

	s.handler = s.withRateLimit(middleware.Logging(logger)(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: s.modelTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sweep := time.NewTicker(5 * time.Minute)
	defer sweep.Stop()

	for {
		select {
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-sweep.C:
			if n := s.store.Sweep(); n > 0 {
				s.logger.Info("expired sessions removed", zap.Int("count", n))
			}
		case <-ctx.Done():
			return s.shutdown()
		}
	}
}

func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their per-endpoint budget with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientID(r)
		ok, info := s.rateLimiter.Allow(client, r.Method, r.URL.Path)
		if info.Limit > 0 {
			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		}
		if ok {
			next.ServeHTTP(w, r)
			return
		}

		// round up so clients never retry a moment too early
		wait := int(math.Ceil(info.RetryAfter.Seconds()))
		if wait > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(wait))
		}
		s.logger.Warn("request throttled",
			zap.String("client", client),
			zap.String("route", r.Method+" "+r.URL.Path),
			zap.Duration("retry_after", info.RetryAfter),
		)
		s.jsonResponse(w, http.StatusTooManyRequests, throttled{
			Error:      "rate_limited",
			Message:    "too many requests for this endpoint; retry later",
			Limit:      info.Limit,
			RetryAfter: wait,
		})
	})
}

type throttled struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Limit      int    `json:"limit"`
	RetryAfter int    `json:"retryAfterSeconds,omitempty"`
}

// clientID is the request's remote IP.
func clientID(r *http.Request) string {
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.store.Len(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error mapped to its HTTP status.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	s.jsonResponse(w, status, map[string]string{
		"error":   errorCode(status),
		"message": err.Error(),
	})
}
