// Package api exposes the ranking engine over a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/pkg/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Ranker ranks, compares and explains matches.
type Ranker interface {
	Rank(ctx context.Context, q model.Problem) ([]model.MatchResult, error)
	Compare(ctx context.Context, q, candidate model.Problem, semantic *int) (model.MatchResult, error)
	Explain(bd model.Breakdown) string
}

// FeedbackRecorder stores user judgments on problem pairs.
type FeedbackRecorder interface {
	RecordFeedback(ctx context.Context, queryID, candidateID string, status model.FeedbackStatus) error
	FeedbackStats(ctx context.Context) (model.FeedbackStats, error)
	ClearFeedback(ctx context.Context) error
}

// Warmer queues texts for embedding precomputation. It returns how many
// texts were newly queued.
type Warmer interface {
	Warmup(ctx context.Context, texts []string) (int, error)
}

// Dependencies bundles what the handlers need.
type Dependencies interface {
	Ranker
	FeedbackRecorder
	Warmer
}

// StatsProvider reports service statistics.
type StatsProvider interface {
	GetStats() map[string]any
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRankRateLimit throttles POST /v1/rank to perSecond requests with the
// given burst. Zero disables throttling.
func WithRankRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond > 0 && burst > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// Server wires HTTP routes for the API.
type Server struct {
	deps    Dependencies
	stats   StatsProvider
	limiter *rate.Limiter
	logger  logger.Logger
}

// NewServer creates a server.
func NewServer(deps Dependencies, stats StatsProvider, opts ...Option) *Server {
	s := &Server{deps: deps, stats: stats, logger: logger.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the router with every endpoint mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/stats", s.handleStats)

	r.Route("/v1", func(r chi.Router) {
		r.With(s.throttle).Post("/rank", s.handleRank)
		r.Post("/compare", s.handleCompare)
		r.Post("/explain", s.handleExplain)
		r.Post("/warmup", s.handleWarmup)

		r.Put("/feedback", s.handlePutFeedback)
		r.Delete("/feedback", s.handleClearFeedback)
		r.Get("/feedback/stats", s.handleFeedbackStats)
	})
	return r
}

func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate_limited", ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: w.Header().Get(RequestIDHeader)})
}
