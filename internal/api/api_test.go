package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/metrics"
	"fitcal/workout-tracker/internal/repository/memory"
	"fitcal/workout-tracker/internal/service"
	"fitcal/workout-tracker/internal/stats"
	"fitcal/workout-tracker/internal/watch"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := memory.New()
	m := metrics.NewTestManager()
	hub := watch.NewHub(m.GaugeSubscriptions)
	statsService := service.NewStatsService(db.Sessions(), time.UTC, 1, time.Minute, m)
	notifier := service.Notifiers{statsService, hub}
	types := service.NewWorkoutTypeService(db.WorkoutTypes(), db.Sections(), notifier)

	router := gin.New()
	router.Use(metrics.PanicRecovery(m), RequestLogger(), metrics.RequestMetrics(m))
	SetupRoutes(router, Services{
		Auth:          service.NewAuthService(db.Users(), types, "test-secret", time.Hour),
		Profiles:      service.NewProfileService(db.Profiles(), notifier),
		WorkoutTypes:  types,
		Sessions:      service.NewSessionService(db.Sessions(), db.WorkoutTypes(), db.Sections(), db.Tracking(), notifier, m),
		Tracking:      service.NewTrackingService(db.Tracking(), notifier, m),
		Stats:         statsService,
		Exports:       service.NewExportService(db.Exports(), db.Sessions(), db.Users(), statsService, nil, time.Minute, m),
		Changes:       hub,
		TimerInterval: 10 * time.Millisecond,
	})
	return &testServer{router: router}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

// login registers a fresh user and returns its token.
func (s *testServer) login(t *testing.T) string {
	t.Helper()
	email := gofakeit.Email()
	password := gofakeit.Password(true, true, true, false, false, 12)
	rr := s.do(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{Name: gofakeit.Name(), Email: email, Password: password})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Token
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = s.do(t, http.MethodGet, "/api/v1/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{Name: "A", Email: "not-an-email", Password: "longenough"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	token := s.login(t)
	rr = s.do(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	me := decode[UserResponse](t, rr)
	assert.NotEmpty(t, me.ID)
	assert.Positive(t, me.CreatedAt)

	rr = s.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: me.Email, Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = s.do(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{Name: "B", Email: me.Email, Password: "longenough"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/auth/demo", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	demo := decode[LoginResponse](t, rr)
	assert.Equal(t, me.ID, demo.User.ID, "demo hands out the first user")
}

func TestProfileRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rr := s.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/profile", token, ProfileRequest{Name: "Ann", FitnessGoal: "improve_endurance"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, domain.GoalEndurance, decode[ProfileResponse](t, rr).FitnessGoal)

	rr = s.do(t, http.MethodPost, "/api/v1/profile", token, ProfileRequest{Name: "Other", FitnessGoal: "maintain"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Ann", decode[ProfileResponse](t, rr).Name)

	rr = s.do(t, http.MethodPatch, "/api/v1/profile", token, map[string]string{"fitnessGoal": "bulk"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWorkoutTypeRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)
	other := s.login(t)

	rr := s.do(t, http.MethodGet, "/api/v1/workout-types", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	types := decode[[]WorkoutTypeResponse](t, rr)
	require.Len(t, types, 3)

	rr = s.do(t, http.MethodPost, "/api/v1/workout-types", token, CreateWorkoutTypeRequest{
		Name:     "Evening yoga",
		Category: domain.CategoryStretching,
		Sections: []SectionRequest{{Name: "Breathing"}},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[WorkoutTypeResponse](t, rr)
	assert.False(t, created.IsDefault)
	require.Len(t, created.Sections, 1)

	rr = s.do(t, http.MethodPost, "/api/v1/workout-types/"+created.ID+"/sections", token, SectionRequest{Name: "Flow"})
	require.Equal(t, http.StatusCreated, rr.Code)
	section := decode[SectionResponse](t, rr)
	assert.Equal(t, 2, section.Order)

	rr = s.do(t, http.MethodGet, "/api/v1/workout-types/"+created.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code, "foreign types are hidden")
	rr = s.do(t, http.MethodDelete, "/api/v1/sections/"+section.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/v1/workout-types/nope", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodDelete, "/api/v1/workout-types/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = s.do(t, http.MethodGet, "/api/v1/workout-types/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPlanRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rr := s.do(t, http.MethodGet, "/api/v1/plans?category=cardio", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	plans := decode[[]domain.Plan](t, rr)
	require.NotEmpty(t, plans)
	for _, p := range plans {
		assert.Equal(t, domain.CategoryCardio, p.Category)
	}

	rr = s.do(t, http.MethodGet, "/api/v1/plans/"+plans[0].ID, token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = s.do(t, http.MethodGet, "/api/v1/plans/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSessionRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)
	other := s.login(t)

	rr := s.do(t, http.MethodGet, "/api/v1/workout-types", token, nil)
	types := decode[[]WorkoutTypeResponse](t, rr)
	wt := types[0]

	rr = s.do(t, http.MethodPost, "/api/v1/sessions/schedule", token, ScheduleSessionsRequest{
		WorkoutTypeID: wt.ID,
		Dates:         []string{"2024-01-08", "2024-01-10"},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	scheduled := decode[[]SessionResponse](t, rr)
	require.Len(t, scheduled, 2)
	assert.Equal(t, wt.Name, scheduled[0].WorkoutTypeName)
	assert.Len(t, scheduled[0].CompletedSections, len(wt.Sections))

	rr = s.do(t, http.MethodGet, "/api/v1/sessions?week=2024-01-12", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]SessionResponse](t, rr), 2)

	id := scheduled[1].ID
	rr = s.do(t, http.MethodGet, "/api/v1/sessions/"+id, other, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/begin", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	begun := decode[SessionResponse](t, rr)
	assert.Equal(t, domain.StatusInProgress, begun.Status)
	require.NotNil(t, begun.StartTime)

	rr = s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/sections/0/toggle", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[SessionResponse](t, rr).CompletedSections[0])
	rr = s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/sections/99/toggle", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/sections/x/toggle", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/complete", token, CompleteSessionRequest{Notes: "done"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	done := decode[SessionResponse](t, rr)
	assert.Equal(t, domain.StatusCompleted, done.Status)
	assert.NotNil(t, done.Duration)

	rr = s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/complete", token, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/v1/tracking?week=2024-01-10", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]TrackingResponse](t, rr), 1, "completion marks the tracking day")

	rr = s.do(t, http.MethodDelete, "/api/v1/sessions/"+scheduled[0].ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestPlanWeekRoute(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rr := s.do(t, http.MethodPut, "/api/v1/sessions/week/2024-01-10", token, PlanWeekRequest{})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "not a Monday")

	rr = s.do(t, http.MethodPut, "/api/v1/sessions/week/2024-01-08", token, PlanWeekRequest{Sessions: []CreateSessionRequest{
		{Date: "2024-01-08", Category: domain.CategoryCardio},
		{Date: "2024-01-09", Category: domain.CategoryStrength},
	}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Len(t, decode[[]SessionResponse](t, rr), 2)
}

func TestStepRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rr := s.do(t, http.MethodPost, "/api/v1/sessions/start", token, StartSessionRequest{Date: "2024-01-10", Category: domain.CategoryStrength})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	started := decode[SessionResponse](t, rr)
	assert.NotEmpty(t, started.PlanID)
	assert.Empty(t, started.CompletedSteps)

	rr = s.do(t, http.MethodPost, "/api/v1/sessions/"+started.ID+"/steps/1/toggle", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = s.do(t, http.MethodPut, "/api/v1/sessions/"+started.ID+"/steps/0", token, map[string]bool{"completed": true})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []int{0, 1}, decode[SessionResponse](t, rr).CompletedSteps)

	rr = s.do(t, http.MethodPut, "/api/v1/sessions/"+started.ID+"/steps/0", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "completed is required")

	rr = s.do(t, http.MethodPost, "/api/v1/sessions/start", token, StartSessionRequest{Date: "2024-01-10", Category: domain.CategoryStrength, PlanID: "missing"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTrackingRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	for _, d := range []string{"2024-01-08", "2024-01-09"} {
		rr := s.do(t, http.MethodPost, "/api/v1/tracking/toggle", token, ToggleTrackingRequest{Date: d, Category: domain.CategoryCardio})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, decode[TrackingResponse](t, rr).Completed)
	}
	rr := s.do(t, http.MethodPost, "/api/v1/tracking/toggle", token, ToggleTrackingRequest{Date: "2024-01-09", Category: domain.CategoryCardio})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[TrackingResponse](t, rr).Completed)

	rr = s.do(t, http.MethodGet, "/api/v1/tracking/weekly-stats?week=2024-01-08", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	progress := decode[stats.Progress](t, rr)
	assert.Equal(t, 1, progress.Completed)
	assert.Equal(t, 2, progress.Total)
	assert.Equal(t, 50, progress.Percent)

	rr = s.do(t, http.MethodGet, "/api/v1/tracking/weekly-stats?week=someday", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestExportRoutes_StorageDisabled(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rr := s.do(t, http.MethodPost, "/api/v1/exports", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	rr = s.do(t, http.MethodGet, "/api/v1/exports", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]ExportResponse](t, rr))
}

func TestStatsRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rr := s.do(t, http.MethodGet, "/api/v1/stats", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	summary := decode[stats.Summary](t, rr)
	assert.Zero(t, summary.TotalWorkouts)
	assert.Len(t, summary.Last7Days, 7)
}

// readEvent reads one server-sent event and returns its data line.
func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var event, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		case line == "" && data != "":
			return event, data
		}
	}
}

func TestStatsStream(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()
	token := s.login(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/stats/stream?access_token="+token, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := bufio.NewReader(resp.Body)
	event, data := readEvent(t, r)
	assert.Equal(t, "stats", event)
	var first stats.Summary
	require.NoError(t, json.Unmarshal([]byte(data), &first))
	assert.Zero(t, first.TotalWorkouts)

	rr := s.do(t, http.MethodPost, "/api/v1/sessions", token, CreateSessionRequest{Date: "2024-01-10", Category: domain.CategoryCardio})
	require.Equal(t, http.StatusCreated, rr.Code)

	_, data = readEvent(t, r)
	var second stats.Summary
	require.NoError(t, json.Unmarshal([]byte(data), &second))
	assert.Equal(t, 1, second.TotalWorkouts, "a change re-delivers the summary")
}

func TestSessionTimerStream(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()
	token := s.login(t)

	rr := s.do(t, http.MethodPost, "/api/v1/sessions/start", token, StartSessionRequest{Date: "2024-01-10", Category: domain.CategoryCardio})
	require.Equal(t, http.StatusOK, rr.Code)
	started := decode[SessionResponse](t, rr)
	rr = s.do(t, http.MethodPost, "/api/v1/sessions/"+started.ID+"/complete", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/sessions/"+started.ID+"/timer", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// a completed session yields a single tick and the stream ends
	event, data := readEvent(t, bufio.NewReader(resp.Body))
	assert.Equal(t, "tick", event)
	var tick service.TimerTick
	require.NoError(t, json.Unmarshal([]byte(data), &tick))
	assert.Equal(t, domain.StatusCompleted, tick.Status)
}
