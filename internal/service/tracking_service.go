package service

import (
	"context"
	"errors"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/metrics"
	"fitcal/workout-tracker/internal/repository"
	"fitcal/workout-tracker/internal/stats"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackingService manages the lightweight per-day completion markers.
type TrackingService interface {
	// Toggle flips the record for (date, category), creating it as completed.
	Toggle(ctx context.Context, userID primitive.ObjectID, date string, category domain.Category) (*domain.TrackingRecord, error)
	// Week lists the records of the week containing day.
	Week(ctx context.Context, userID primitive.ObjectID, day string) ([]domain.TrackingRecord, error)
	WeeklyStats(ctx context.Context, userID primitive.ObjectID, day string) (stats.Progress, error)
}

type trackingService struct {
	tracking repository.TrackingRepository
	notifier Notifier
	metrics  *metrics.Manager
}

func NewTrackingService(tracking repository.TrackingRepository, notifier Notifier, m *metrics.Manager) TrackingService {
	return &trackingService{tracking: tracking, notifier: orNop(notifier), metrics: m}
}

func (s *trackingService) Toggle(ctx context.Context, userID primitive.ObjectID, date string, category domain.Category) (*domain.TrackingRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	weekStart, err := domain.WeekStart(date)
	if err != nil {
		return nil, invalid(err)
	}
	if _, err := domain.ParseCategory(string(category)); err != nil {
		return nil, invalid(err)
	}

	record, err := s.tracking.FindByKey(ctx, userID, date, category)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		record = &domain.TrackingRecord{UserID: userID, Date: date, Category: category, Completed: true}
	case err != nil:
		return nil, err
	default:
		record.Completed = !record.Completed
	}
	record.WeekStart = weekStart

	if err := s.tracking.Upsert(ctx, record); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.CounterTrackingToggles.Inc()
	}
	s.notifier.Notify(userID)
	return record, nil
}

func (s *trackingService) Week(ctx context.Context, userID primitive.ObjectID, day string) ([]domain.TrackingRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	weekStart, err := domain.WeekStart(day)
	if err != nil {
		return nil, invalid(err)
	}
	return s.tracking.ListByWeek(ctx, userID, weekStart)
}

func (s *trackingService) WeeklyStats(ctx context.Context, userID primitive.ObjectID, day string) (stats.Progress, error) {
	records, err := s.Week(ctx, userID, day)
	if err != nil {
		return stats.Progress{}, err
	}
	weekStart, _ := domain.WeekStart(day)
	return stats.WeeklyProgress(stats.FromTracking(records), weekStart), nil
}
