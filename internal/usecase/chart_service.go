package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"TrueArk/internal/domain/models"
	drepo "TrueArk/internal/domain/repository"
	"TrueArk/pkg/cache"
	applogger "TrueArk/pkg/logger"
)

// ChartService fronts the computer with caching, persistence and event
// publishing. The computation itself stays single-shot and stateless; only
// its validated output ever reaches the cache or the store.
type ChartService struct {
	computer *ChartComputer
	store    drepo.ChartStore
	pub      drepo.ChartPublisher
	cache    cache.Service
	cacheTTL time.Duration
	metrics  drepo.Metrics
	log      *applogger.Logger
}

// NewChartService creates a ChartService. Store, publisher and cache are
// optional; a nil collaborator disables that concern.
func NewChartService(
	computer *ChartComputer,
	store drepo.ChartStore,
	pub drepo.ChartPublisher,
	c cache.Service,
	cacheTTL time.Duration,
	metrics drepo.Metrics,
	log *applogger.Logger,
) *ChartService {
	return &ChartService{
		computer: computer,
		store:    store,
		pub:      pub,
		cache:    c,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		log:      log,
	}
}

// Compute computes a chart, serving identical inputs from cache. Caching is
// safe because computation is deterministic for a fixed provider mode.
func (s *ChartService) Compute(ctx context.Context, req *models.ChartRequest) (*models.ChartResult, error) {
	key := chartCacheKey(req)

	if s.cache != nil {
		var cached models.ChartResult
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheHit(true)
			}
			return &cached, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheHit(false)
		}
	}

	res, err := s.computer.Compute(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, res, s.cacheTTL); err != nil && s.log != nil {
			s.log.Warn("chart cache set failed", applogger.Error(err))
		}
	}
	return res, nil
}

// ComputeAndStore computes a chart and persists it as a permanent record,
// then emits a chart.computed event. Persistence failure fails the call;
// event publishing is best-effort and only logged.
func (s *ChartService) ComputeAndStore(ctx context.Context, req *models.StoreChartRequest) (*models.StoredChart, error) {
	if s.store == nil {
		return nil, fmt.Errorf("chart store not configured")
	}

	res, err := s.Compute(ctx, &req.ChartRequest)
	if err != nil {
		return nil, err
	}

	stored := &models.StoredChart{
		ID:          uuid.NewString(),
		DatetimeUTC: req.DatetimeUTC,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Result:      *res,
		JulianDay:   res.Metadata.JulianDay,
		Mode:        res.Metadata.EphemerisMode,
		EntityID:    req.EntityID,
		EntityType:  req.EntityType,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.Store(ctx, stored); err != nil {
		if s.metrics != nil {
			s.metrics.RecordError("store")
		}
		return nil, fmt.Errorf("store chart: %w", err)
	}

	if s.pub != nil {
		ev := &models.ChartComputedEvent{
			ChartID:     stored.ID,
			DatetimeUTC: stored.DatetimeUTC,
			Latitude:    stored.Latitude,
			Longitude:   stored.Longitude,
			JulianDay:   stored.JulianDay,
			Mode:        stored.Mode,
			EntityID:    stored.EntityID,
			EntityType:  stored.EntityType,
			ComputedAt:  stored.CreatedAt,
		}
		if err := s.pub.Publish(ctx, ev); err != nil {
			if s.metrics != nil {
				s.metrics.RecordError("publish")
			}
			if s.log != nil {
				s.log.Error("chart.computed publish failed",
					applogger.String("chart_id", stored.ID), applogger.Error(err))
			}
		}
	}

	return stored, nil
}

// Get fetches one stored chart by id.
func (s *ChartService) Get(ctx context.Context, id string) (*models.StoredChart, error) {
	if s.store == nil {
		return nil, fmt.Errorf("chart store not configured")
	}
	return s.store.Get(ctx, id)
}

// List returns stored charts, newest first, with optional entity filters.
func (s *ChartService) List(ctx context.Context, req *models.ListChartsRequest) ([]*models.StoredChart, error) {
	if s.store == nil {
		return nil, fmt.Errorf("chart store not configured")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	return s.store.List(ctx, req.EntityID, req.EntityType, limit)
}

func chartCacheKey(req *models.ChartRequest) string {
	return fmt.Sprintf("chart:%s:%.6f:%.6f:%s:%s",
		req.DatetimeUTC, req.Latitude, req.Longitude, req.HouseSystem, req.Zodiac)
}
