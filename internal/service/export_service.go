package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/metrics"
	"fitcal/workout-tracker/internal/repository"
	"fitcal/workout-tracker/internal/stats"
	"fitcal/workout-tracker/internal/storage"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const exportContentType = "application/json"

// ExportDocument is the JSON document written to the bucket.
type ExportDocument struct {
	ExportedAt time.Time               `json:"exportedAt"`
	User       ExportUser              `json:"user"`
	Summary    stats.Summary           `json:"summary"`
	Sessions   []domain.WorkoutSession `json:"sessions"`
}

type ExportUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ExportService interface {
	// Create writes the user's sessions to object storage and returns the
	// metadata record together with a temporary download URL.
	Create(ctx context.Context, userID primitive.ObjectID) (*domain.Export, string, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]domain.Export, error)
	URL(ctx context.Context, userID, id primitive.ObjectID) (string, error)
}

type exportService struct {
	exports       repository.ExportRepository
	sessions      repository.SessionRepository
	users         repository.UserRepository
	stats         StatsService
	fileStorage   storage.FileStorage // nil when object storage is disabled
	presignExpiry time.Duration
	metrics       *metrics.Manager
	now           func() time.Time
}

func NewExportService(
	exports repository.ExportRepository,
	sessions repository.SessionRepository,
	users repository.UserRepository,
	statsService StatsService,
	fileStorage storage.FileStorage,
	presignExpiry time.Duration,
	m *metrics.Manager,
) ExportService {
	if presignExpiry <= 0 {
		presignExpiry = storage.DefaultPresignedURLExpiry
	}
	return &exportService{
		exports:       exports,
		sessions:      sessions,
		users:         users,
		stats:         statsService,
		fileStorage:   fileStorage,
		presignExpiry: presignExpiry,
		metrics:       m,
		now:           time.Now,
	}
}

func (s *exportService) Create(ctx context.Context, userID primitive.ObjectID) (*domain.Export, string, error) {
	if err := requireUser(userID); err != nil {
		return nil, "", err
	}
	if s.fileStorage == nil {
		return nil, "", storage.ErrStorageDisabled
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	summary, err := s.stats.Summary(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	now := s.now().UTC()
	doc := ExportDocument{
		ExportedAt: now,
		User:       ExportUser{ID: user.ID.Hex(), Name: user.Name, Email: user.Email},
		Summary:    summary,
		Sessions:   sessions,
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("encode export: %w", err)
	}

	fileName := fmt.Sprintf("workouts-%s.json", now.Format(domain.DayLayout))
	objectKey := fmt.Sprintf("exports/%s/%s.json", userID.Hex(), uuid.New().String())
	if err := s.fileStorage.PutObject(ctx, objectKey, exportContentType, body); err != nil {
		return nil, "", fmt.Errorf("upload export: %w", err)
	}

	export := &domain.Export{
		UserID:      userID,
		ObjectKey:   objectKey,
		FileName:    fileName,
		ContentType: exportContentType,
		Size:        int64(len(body)),
		Sessions:    len(sessions),
	}
	if _, err := s.exports.Create(ctx, export); err != nil {
		// keep the bucket in step with the metadata
		if delErr := s.fileStorage.DeleteObject(ctx, objectKey); delErr != nil {
			log.Errorf("failed to remove orphaned export object %s: %s", objectKey, delErr)
		}
		return nil, "", err
	}
	if s.metrics != nil {
		s.metrics.CounterExports.Inc()
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, s.presignExpiry)
	if err != nil {
		return nil, "", fmt.Errorf("presign export: %w", err)
	}
	log.Infof("export %s written for user %s: %d sessions, %d bytes", export.ID.Hex(), userID.Hex(), export.Sessions, export.Size)
	return export, url, nil
}

func (s *exportService) List(ctx context.Context, userID primitive.ObjectID) ([]domain.Export, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.exports.ListByUser(ctx, userID)
}

func (s *exportService) URL(ctx context.Context, userID, id primitive.ObjectID) (string, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}
	if s.fileStorage == nil {
		return "", storage.ErrStorageDisabled
	}
	export, err := s.exports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrExportNotFound
		}
		return "", err
	}
	if export.UserID != userID {
		return "", ErrExportNotFound
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, export.ObjectKey, s.presignExpiry)
}
