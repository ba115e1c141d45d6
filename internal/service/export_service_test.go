package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/storage"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (m *memStorage) PutObject(_ context.Context, key, _ string, body []byte) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = body
	return nil
}

func (m *memStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://bucket.test/" + key + "?signed", nil
}

func (m *memStorage) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func newExportService(env *testEnv, fs storage.FileStorage) ExportService {
	svc := NewExportService(env.db.Exports(), env.db.Sessions(), env.db.Users(), env.stats, fs, time.Minute, env.metrics)
	svc.(*exportService).now = func() time.Time { return fixedNow }
	return svc
}

func TestExportService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.newUser(t)
	stranger := env.newUser(t)
	fs := newMemStorage()
	exports := newExportService(env, fs)

	for _, d := range []string{"2024-01-08", "2024-01-09"} {
		_, err := env.sessions.Create(ctx, userID, SessionInput{Date: d, Category: domain.CategoryCardio})
		require.NoError(t, err)
	}

	export, url, err := exports.Create(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, export.Sessions)
	assert.Equal(t, "workouts-2024-01-10.json", export.FileName)
	assert.True(t, strings.HasPrefix(export.ObjectKey, "exports/"+userID.Hex()+"/"))
	assert.Contains(t, url, export.ObjectKey)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.CounterExports))

	body, ok := fs.objects[export.ObjectKey]
	require.True(t, ok)
	assert.Equal(t, int64(len(body)), export.Size)
	var doc ExportDocument
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Len(t, doc.Sessions, 2)
	assert.Equal(t, userID.Hex(), doc.User.ID)
	assert.Equal(t, 2, doc.Summary.TotalWorkouts)

	list, err := exports.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = exports.URL(ctx, stranger, export.ID)
	assert.ErrorIs(t, err, ErrExportNotFound)
	again, err := exports.URL(ctx, userID, export.ID)
	require.NoError(t, err)
	assert.Equal(t, url, again)
}

func TestExportService_StorageErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.newUser(t)

	_, _, err := newExportService(env, nil).Create(ctx, userID)
	assert.ErrorIs(t, err, storage.ErrStorageDisabled)

	fs := newMemStorage()
	fs.putErr = errors.New("bucket unavailable")
	_, _, err = newExportService(env, fs).Create(ctx, userID)
	assert.ErrorIs(t, err, fs.putErr)

	list, err := env.db.Exports().ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list, "no record without an object")
}
