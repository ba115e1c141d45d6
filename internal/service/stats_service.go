package service

import (
	"context"
	"encoding/json"
	"time"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/metrics"
	"fitcal/workout-tracker/internal/repository"
	"fitcal/workout-tracker/internal/stats"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const megabyte = 1024 * 1024

// StatsService serves the derived statistics of a user's sessions. Summaries
// are cached per user for the current day until the user's data changes.
type StatsService interface {
	Summary(ctx context.Context, userID primitive.ObjectID) (stats.Summary, error)
	Invalidate(userID primitive.ObjectID)
	Notifier
}

type statsService struct {
	sessions repository.SessionRepository
	cache    *freecache.Cache
	cacheTTL int // seconds, at least 1
	loc      *time.Location
	metrics  *metrics.Manager
	now      func() time.Time
}

func NewStatsService(sessions repository.SessionRepository, loc *time.Location, cacheSizeMB int, cacheTTL time.Duration, m *metrics.Manager) StatsService {
	if loc == nil {
		loc = time.UTC
	}
	if cacheSizeMB <= 0 {
		cacheSizeMB = 1
	}
	return &statsService{
		sessions: sessions,
		cache:    freecache.NewCache(cacheSizeMB * megabyte),
		cacheTTL: ttlSeconds(cacheTTL),
		loc:      loc,
		metrics:  m,
		now:      time.Now,
	}
}

// ttlSeconds rounds d up to whole seconds. freecache reads 0 as "never expire",
// so anything shorter than a second becomes one.
func ttlSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

func cacheKey(userID primitive.ObjectID) []byte {
	return []byte("stats::" + userID.Hex())
}

func (s *statsService) Summary(ctx context.Context, userID primitive.ObjectID) (stats.Summary, error) {
	if err := requireUser(userID); err != nil {
		return stats.Summary{}, err
	}
	now := s.now()
	today := domain.Today(now, s.loc)

	if raw, err := s.cache.Get(cacheKey(userID)); err == nil {
		var cached stats.Summary
		if err := json.Unmarshal(raw, &cached); err == nil && cached.Today == today {
			s.countCache("hit")
			return cached, nil
		} else if err != nil {
			log.Errorf("failed to unmarshal cached stats for user %s: %s", userID.Hex(), err)
		}
	}
	s.countCache("miss")

	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return stats.Summary{}, err
	}
	summary := stats.Compute(stats.FromSessions(sessions), now, s.loc)

	if raw, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(cacheKey(userID), raw, s.cacheTTL); err != nil {
			log.Warnf("failed to cache stats for user %s: %s", userID.Hex(), err)
		}
	}
	return summary, nil
}

func (s *statsService) Invalidate(userID primitive.ObjectID) {
	s.cache.Del(cacheKey(userID))
}

// Notify drops the cached summary so the next read recomputes it.
func (s *statsService) Notify(userID primitive.ObjectID) {
	s.Invalidate(userID)
}

func (s *statsService) countCache(result string) {
	if s.metrics != nil {
		s.metrics.CounterStatsCache.WithLabelValues(result).Inc()
	}
}
