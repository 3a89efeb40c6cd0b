package objects

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lakefront/bucketview/pkg/store"
)

// Config configures the object service.
type Config struct {
	// BatchSize caps the number of identifiers per delete call.
	// Zero uses the backend limit (1000); larger values are clamped to it.
	BatchSize int

	// RateLimit is the maximum delete calls per second issued to the
	// backend. Zero means unlimited.
	RateLimit float64
}

// Service exposes the bucket browser's object operations over a store.
//
// A Service holds no per-request state: every invocation builds its own
// cursors and batches, so it is safe for concurrent use.
type Service struct {
	store     store.Store
	log       *zap.Logger
	batchSize int

	// Rate limiter for delete batches (nil if unlimited)
	limiter *rate.Limiter
}

// NewService creates an object service over the given store.
func NewService(st store.Store, log *zap.Logger, cfg Config) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 || batchSize > store.MaxDeleteBatch {
		batchSize = store.MaxDeleteBatch
	}

	s := &Service{
		store:     st,
		log:       log,
		batchSize: batchSize,
	}

	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return s
}

// header returns the store's metadata capability, if implemented.
func (s *Service) header() (store.ObjectHeader, bool) {
	h, ok := s.store.(store.ObjectHeader)
	return h, ok
}

// tagger returns the store's tagging capability, if implemented.
func (s *Service) tagger() (store.Tagger, bool) {
	t, ok := s.store.(store.Tagger)
	return t, ok
}

// lockManager returns the store's object-lock capability, if implemented.
func (s *Service) lockManager() (store.LockManager, bool) {
	lm, ok := s.store.(store.LockManager)
	return lm, ok
}

// content returns the store's body-streaming capability, if implemented.
func (s *Service) content() (store.ObjectContent, bool) {
	c, ok := s.store.(store.ObjectContent)
	return c, ok
}

// waitForRateLimit blocks until the rate limiter allows a request.
// Returns immediately if rate limiting is disabled.
func (s *Service) waitForRateLimit(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}
