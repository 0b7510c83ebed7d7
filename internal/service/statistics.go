package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aniladanir/campaign-messenger/internal/cache"
	"github.com/aniladanir/campaign-messenger/internal/domain"
	conversationRepo "github.com/aniladanir/campaign-messenger/internal/repository/conversation"
	"github.com/google/uuid"
)

type StatisticsAggregator interface {
	Aggregate(ctx context.Context, projectID uuid.UUID) (domain.Statistics, error)
}

type statistics struct {
	conversationRepo conversationRepo.Repository
	cache            cache.Cache
	ttl              time.Duration
	deliveredStatus  string
	logger           *slog.Logger

	// projects whose version bump failed; their cached rollups are not trusted
	// until a bump succeeds
	stale      sync.Map
	staleMarks atomic.Uint64
}

// NewStatisticsAggregator creates the aggregator. c may be nil, in which case
// every call reads the store. Cached rollups are versioned per project and the
// version is bumped on every append, so a cached value never outlives a write.
func NewStatisticsAggregator(
	conversationRepo conversationRepo.Repository,
	c cache.Cache,
	ttl time.Duration,
	deliveredStatus string,
	logger *slog.Logger,
) StatisticsAggregator {
	s := &statistics{
		conversationRepo: conversationRepo,
		cache:            c,
		ttl:              ttl,
		deliveredStatus:  deliveredStatus,
		logger:           logger,
	}
	if c != nil {
		conversationRepo.OnAppend(s.invalidate)
	}
	return s
}

func versionKey(projectID uuid.UUID) string {
	return fmt.Sprintf("stats:ver:%s", projectID)
}

func statsKey(projectID uuid.UUID, version string) string {
	return fmt.Sprintf("stats:%s:v%s", projectID, version)
}

func (s *statistics) Aggregate(ctx context.Context, projectID uuid.UUID) (domain.Statistics, error) {
	if s.cache == nil {
		return s.conversationRepo.CountMessages(ctx, projectID, s.deliveredStatus)
	}

	statsLogger := s.logger.With(slog.String("projectId", projectID.String()))

	if mark, ok := s.stale.Load(projectID); ok {
		if _, err := s.cache.Incr(ctx, versionKey(projectID)); err != nil {
			statsLogger.Warn("statistics cache still unavailable", "error", err.Error())
			return s.conversationRepo.CountMessages(ctx, projectID, s.deliveredStatus)
		}
		s.stale.CompareAndDelete(projectID, mark)
	}

	version, err := s.cache.Get(ctx, versionKey(projectID))
	if errors.Is(err, cache.ErrMiss) {
		version = "0"
	} else if err != nil {
		statsLogger.Warn("statistics cache unavailable", "error", err.Error())
		return s.conversationRepo.CountMessages(ctx, projectID, s.deliveredStatus)
	}
	key := statsKey(projectID, version)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var stats domain.Statistics
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return stats, nil
		}
		statsLogger.Warn("discarding malformed cached statistics", "key", key)
	} else if !errors.Is(err, cache.ErrMiss) {
		statsLogger.Warn("failed to read cached statistics", "error", err.Error())
	}

	stats, err := s.conversationRepo.CountMessages(ctx, projectID, s.deliveredStatus)
	if err != nil {
		return domain.Statistics{}, err
	}

	if encoded, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, key, string(encoded), s.ttl); err != nil {
			statsLogger.Warn("failed to cache statistics", "error", err.Error())
		}
	}

	return stats, nil
}

func (s *statistics) invalidate(ctx context.Context, projectID uuid.UUID) {
	if _, err := s.cache.Incr(ctx, versionKey(projectID)); err != nil {
		s.stale.Store(projectID, s.staleMarks.Add(1))
		s.logger.Error("failed to invalidate cached statistics", "projectId", projectID.String(), "error", err.Error())
	}
}
