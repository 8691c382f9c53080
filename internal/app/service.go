// Package service wires the ranking engine, its providers and the warmup
// pipeline into the dependencies the HTTP API and CLI need.
package service

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/crossjudge/internal/adapters/mq/queue"
	"github.com/okian/crossjudge/internal/adapters/mq/worker"
	"github.com/okian/crossjudge/internal/adapters/providers/catalog"
	"github.com/okian/crossjudge/internal/domain/dedupe"
	"github.com/okian/crossjudge/internal/domain/feedback"
	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/internal/domain/ranking"
	"github.com/okian/crossjudge/internal/domain/scoring"
	"github.com/okian/crossjudge/pkg/logger"
	"github.com/okian/crossjudge/pkg/metrics"
)

// Default service configuration.
const (
	defaultQueueSize  = 256
	defaultBatchSize  = 32
	defaultDedupeSize = 5000
	stopTimeout       = 10 * time.Second
)

// SemanticProvider scores by embedding similarity and can precompute
// embeddings ahead of queries.
type SemanticProvider interface {
	ranking.SemanticProvider
	Warm(ctx context.Context, texts []string) error
}

// Service implements the API dependencies for the ranking engine.
type Service struct {
	mu sync.RWMutex

	store    feedback.Store
	catalog  *catalog.Catalog
	search   ranking.SearchProvider
	semantic SemanticProvider
	scorer   *scoring.Scorer

	aggregator *ranking.Aggregator
	deduper    dedupe.Deduper
	queue      *queue.InMemoryQueue
	pool       *worker.Pool

	minScore        int
	limit           int
	providerTimeout time.Duration
	workerCount     int
	queueSize       int
	batchSize       int
	dedupeSize      int
	warmCatalog     bool
	watchCatalog    bool

	closers []io.Closer
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a Service. Components are assembled by Start.
func New(opts ...Option) *Service {
	s := &Service{
		scorer:          scoring.NewScorer(),
		minScore:        ranking.DefaultMinScore,
		limit:           ranking.DefaultLimit,
		providerTimeout: ranking.DefaultProviderTimeout,
		workerCount:     max(2, runtime.NumCPU()/2),
		queueSize:       defaultQueueSize,
		batchSize:       defaultBatchSize,
		dedupeSize:      defaultDedupeSize,
		logger:          logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = feedback.NewMemoryStore()
	}
	return s
}

// Start assembles the aggregator and launches background work. It is a no-op
// when already started.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting crossjudge service...")

	if s.catalog == nil {
		c, err := catalog.New(catalog.WithLogger(s.logger.Named("catalog")))
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		s.catalog = c
	}
	aggOpts := []ranking.Option{
		ranking.WithCatalog(s.catalog),
		ranking.WithScorer(s.scorer),
		ranking.WithMinScore(s.minScore),
		ranking.WithLimit(s.limit),
		ranking.WithProviderTimeout(s.providerTimeout),
		ranking.WithLogger(s.logger.Named("ranking")),
	}
	if s.search != nil {
		aggOpts = append(aggOpts, ranking.WithSearch(s.search))
	}
	if s.semantic != nil {
		aggOpts = append(aggOpts, ranking.WithSemantic(s.semantic))
	}
	s.aggregator = ranking.NewAggregator(s.store, aggOpts...)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))

	bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	if s.semanticAvailable() {
		s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
		s.pool = worker.NewPool(s.workerCount, s.queue, s.semantic,
			worker.WithLogger(s.logger),
			worker.WithFailureHandler(s.forget),
		)
		s.pool.Start(bg)
	}

	if s.watchCatalog {
		if err := s.catalog.Watch(bg); err != nil {
			s.logger.Warn(ctx, "catalog watch disabled", logger.Error(err))
		}
	}

	s.started = true
	s.logger.Info(ctx, "crossjudge service started",
		logger.Int("catalog_entries", s.catalog.Len()),
		logger.Bool("search", s.search != nil && s.search.Available()),
		logger.Bool("semantic", s.semanticAvailable()),
	)

	if s.warmCatalog && s.pool != nil {
		titles := make([]string, 0, s.catalog.Len())
		for _, p := range s.catalog.All() {
			titles = append(titles, p.Title)
		}
		n, err := s.warmupLocked(ctx, titles)
		if err != nil {
			s.logger.Warn(ctx, "catalog warmup truncated", logger.Int("queued", n), logger.Error(err))
		}
	}
	return nil
}

// Stop shuts down background work and closes owned resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	s.logger.Info(ctx, "stopping crossjudge service...")

	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}
	if s.cancel != nil {
		s.cancel()
	}
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			s.logger.Warn(ctx, "close failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "crossjudge service stopped")
}

// Rank returns the best cross-platform matches for q.
func (s *Service) Rank(ctx context.Context, q model.Problem) ([]model.MatchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	agg, err := s.ranker()
	if err != nil {
		return nil, err
	}
	return agg.Rank(ctx, q), nil
}

// Compare scores candidate against q directly, bypassing providers and the
// result threshold.
func (s *Service) Compare(ctx context.Context, q, candidate model.Problem, semantic *int) (model.MatchResult, error) {
	if err := q.Validate(); err != nil {
		return model.MatchResult{}, err
	}
	if err := candidate.Validate(); err != nil {
		return model.MatchResult{}, err
	}
	agg, err := s.ranker()
	if err != nil {
		return model.MatchResult{}, err
	}
	return agg.Score(ctx, q, candidate, semantic), nil
}

// Explain renders a breakdown as text.
func (s *Service) Explain(bd model.Breakdown) string {
	return scoring.Explain(bd)
}

// RecordFeedback stores a judgment on the pair.
func (s *Service) RecordFeedback(ctx context.Context, queryID, candidateID string, status model.FeedbackStatus) error {
	if err := s.store.Save(ctx, queryID, candidateID, status); err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	metrics.RecordFeedbackSave(string(status))
	s.logger.Debug(ctx, "feedback saved",
		logger.String("query", queryID),
		logger.String("candidate", candidateID),
		logger.String("status", string(status)),
	)
	return nil
}

// FeedbackStats counts stored judgments.
func (s *Service) FeedbackStats(ctx context.Context) (model.FeedbackStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return model.FeedbackStats{}, fmt.Errorf("feedback stats: %w", err)
	}
	metrics.UpdateFeedbackEntries(stats.Confirmed, stats.Rejected)
	return stats, nil
}

// ClearFeedback erases every judgment.
func (s *Service) ClearFeedback(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear feedback: %w", err)
	}
	metrics.UpdateFeedbackEntries(0, 0)
	s.logger.Info(ctx, "feedback cleared")
	return nil
}

// Warmup queues texts not seen before for embedding. It returns how many
// texts were queued; on backpressure the error wraps queue.ErrFull.
func (s *Service) Warmup(ctx context.Context, texts []string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return 0, ErrNotStarted
	}
	return s.warmupLocked(ctx, texts)
}

func (s *Service) warmupLocked(ctx context.Context, texts []string) (int, error) {
	if s.pool == nil {
		return 0, ErrSemanticUnavailable
	}

	var fresh []string
	for _, t := range texts {
		key := warmKey(t)
		if key == "" || s.deduper.SeenAndRecord(ctx, key) {
			continue
		}
		fresh = append(fresh, t)
	}

	queued := 0
	for start := 0; start < len(fresh); start += s.batchSize {
		batch := fresh[start:min(start+s.batchSize, len(fresh))]
		if err := s.queue.Enqueue(ctx, model.WarmupJob{ID: uuid.NewString(), Texts: batch}); err != nil {
			for _, t := range fresh[start:] {
				s.deduper.Unrecord(ctx, warmKey(t))
			}
			return queued, fmt.Errorf("enqueue warmup: %w", err)
		}
		queued += len(batch)
	}
	return queued, nil
}

// forget lets texts from a failed job be submitted again.
func (s *Service) forget(ctx context.Context, j model.WarmupJob, _ error) {
	for _, t := range j.Texts {
		s.deduper.Unrecord(ctx, warmKey(t))
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":            s.started,
		"search_available":   s.search != nil && s.search.Available(),
		"semantic_available": s.semanticAvailable(),
		"min_score":          s.minScore,
		"max_results":        s.limit,
	}
	if !s.started {
		return stats
	}

	stats["catalog_entries"] = s.catalog.Len()
	metrics.UpdateCatalogEntries(s.catalog.Len())
	stats["warmup_seen"] = s.deduper.Size()
	if s.pool != nil {
		stats["warmup_workers"] = s.pool.Size()
		stats["warmup_queue_length"] = s.queue.Len()
		metrics.UpdateQueueSize(s.queue.Len())
	}
	fb, err := s.store.Stats(context.Background())
	if err == nil {
		stats["feedback"] = fb
		metrics.UpdateFeedbackEntries(fb.Confirmed, fb.Rejected)
	}
	return stats
}

func (s *Service) ranker() (*ranking.Aggregator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.aggregator, nil
}

func (s *Service) semanticAvailable() bool {
	return s.semantic != nil && s.semantic.Available()
}

func warmKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
