package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/metrics"
	"fitcal/workout-tracker/internal/repository/memory"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fixedNow is a Wednesday.
var fixedNow = time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)

type recordingNotifier struct {
	mu    sync.Mutex
	users []primitive.ObjectID
}

func (n *recordingNotifier) Notify(userID primitive.ObjectID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userID)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.users)
}

type testEnv struct {
	db       *memory.DB
	notifier *recordingNotifier
	metrics  *metrics.Manager

	types    WorkoutTypeService
	sessions *sessionService
	tracking TrackingService
	stats    *statsService
	auth     AuthService
	profiles ProfileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := memory.New()
	notifier := &recordingNotifier{}
	m := metrics.NewTestManager()

	statsSvc := NewStatsService(db.Sessions(), time.UTC, 1, time.Hour, m).(*statsService)
	statsSvc.now = func() time.Time { return fixedNow }
	all := Notifiers{statsSvc, notifier}

	types := NewWorkoutTypeService(db.WorkoutTypes(), db.Sections(), all)
	sessions := NewSessionService(db.Sessions(), db.WorkoutTypes(), db.Sections(), db.Tracking(), all, m).(*sessionService)
	sessions.now = func() time.Time { return fixedNow }

	return &testEnv{
		db:       db,
		notifier: notifier,
		metrics:  m,
		types:    types,
		sessions: sessions,
		tracking: NewTrackingService(db.Tracking(), all, m),
		stats:    statsSvc,
		auth:     NewAuthService(db.Users(), types, "test-secret", time.Hour),
		profiles: NewProfileService(db.Profiles(), all),
	}
}

// newUser registers a random user and returns its id.
func (e *testEnv) newUser(t *testing.T) primitive.ObjectID {
	t.Helper()
	user, err := e.auth.Register(context.Background(), gofakeit.Name(), gofakeit.Email(), gofakeit.Password(true, true, true, false, false, 12))
	require.NoError(t, err)
	return user.ID
}

// cardioType returns the seeded cardio type of userID.
func (e *testEnv) cardioType(t *testing.T, userID primitive.ObjectID) domain.WorkoutType {
	t.Helper()
	types, err := e.types.List(context.Background(), userID)
	require.NoError(t, err)
	for _, wt := range types {
		if wt.Category == domain.CategoryCardio {
			return wt
		}
	}
	t.Fatal("no cardio type seeded")
	return domain.WorkoutType{}
}
