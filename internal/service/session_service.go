package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/metrics"
	"fitcal/workout-tracker/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionFilter narrows List. Date wins over Week; both empty lists everything.
type SessionFilter struct {
	Week string
	Date string
}

// SessionInput describes a session to create.
type SessionInput struct {
	Date          string
	Category      domain.Category // May be empty when WorkoutTypeID is set
	WorkoutTypeID *primitive.ObjectID
	Notes         string
	Completed     bool
}

// SessionPatch holds the session fields to change; nil means keep.
type SessionPatch struct {
	Date              *string
	Category          *domain.Category
	Notes             *string
	Completed         *bool
	CompletedSections []bool
}

// CompleteInput optionally replaces the section checklist and notes on completion.
type CompleteInput struct {
	CompletedSections []bool
	Notes             string
}

// TimerTick is one sample of a running session timer.
type TimerTick struct {
	SessionID primitive.ObjectID   `json:"sessionId"`
	Status    domain.SessionStatus `json:"status"`
	ElapsedMs int64                `json:"elapsedMs"`
}

type SessionService interface {
	List(ctx context.Context, userID primitive.ObjectID, filter SessionFilter) ([]domain.WorkoutSession, error)
	Get(ctx context.Context, userID, id primitive.ObjectID) (*domain.WorkoutSession, error)
	Create(ctx context.Context, userID primitive.ObjectID, in SessionInput) (*domain.WorkoutSession, error)
	// Schedule puts one workout type on several days.
	Schedule(ctx context.Context, userID, typeID primitive.ObjectID, dates []string) ([]domain.WorkoutSession, error)
	// PlanWeek replaces every session of the week with items.
	PlanWeek(ctx context.Context, userID primitive.ObjectID, weekStart string, items []SessionInput) ([]domain.WorkoutSession, error)
	ToggleCompleted(ctx context.Context, userID, id primitive.ObjectID) (*domain.WorkoutSession, error)
	Update(ctx context.Context, userID, id primitive.ObjectID, patch SessionPatch) (*domain.WorkoutSession, error)
	Delete(ctx context.Context, userID, id primitive.ObjectID) error

	// Begin starts the clock of a calendar session, keeping an existing start time.
	Begin(ctx context.Context, userID, id primitive.ObjectID) (*domain.WorkoutSession, error)
	// Start (re)starts the step-tracked session for (date, category), creating it if needed.
	Start(ctx context.Context, userID primitive.ObjectID, date string, category domain.Category, planID string) (*domain.WorkoutSession, error)
	ToggleStep(ctx context.Context, userID, id primitive.ObjectID, index int) (*domain.WorkoutSession, error)
	SetStep(ctx context.Context, userID, id primitive.ObjectID, index int, done bool) (*domain.WorkoutSession, error)
	ToggleSection(ctx context.Context, userID, id primitive.ObjectID, index int) (*domain.WorkoutSession, error)
	Complete(ctx context.Context, userID, id primitive.ObjectID, in CompleteInput) (*domain.WorkoutSession, error)
	// Timer emits the elapsed time every interval until ctx is done or the session completes.
	Timer(ctx context.Context, userID, id primitive.ObjectID, interval time.Duration) (<-chan TimerTick, error)
}

type sessionService struct {
	sessions repository.SessionRepository
	types    repository.WorkoutTypeRepository
	sections repository.SectionRepository
	tracking repository.TrackingRepository
	notifier Notifier
	metrics  *metrics.Manager
	now      func() time.Time
}

func NewSessionService(
	sessions repository.SessionRepository,
	types repository.WorkoutTypeRepository,
	sections repository.SectionRepository,
	tracking repository.TrackingRepository,
	notifier Notifier,
	m *metrics.Manager,
) SessionService {
	return &sessionService{
		sessions: sessions,
		types:    types,
		sections: sections,
		tracking: tracking,
		notifier: orNop(notifier),
		metrics:  m,
		now:      time.Now,
	}
}

func (s *sessionService) count(event string) {
	if s.metrics != nil {
		s.metrics.CounterSessions.WithLabelValues(event).Inc()
	}
}

// sessionError translates domain transition errors.
func sessionError(err error) error {
	switch {
	case errors.Is(err, domain.ErrSessionCompleted):
		return conflict(err)
	case errors.Is(err, domain.ErrIndexOutOfRange), errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrTooManySections):
		return invalid(err)
	}
	return err
}

func (s *sessionService) load(ctx context.Context, userID, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionService) save(ctx context.Context, session *domain.WorkoutSession) error {
	if err := s.sessions.Update(ctx, session); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	s.notifier.Notify(session.UserID)
	return nil
}

func (s *sessionService) List(ctx context.Context, userID primitive.ObjectID, filter SessionFilter) ([]domain.WorkoutSession, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	switch {
	case filter.Date != "":
		if _, err := domain.ParseDay(filter.Date); err != nil {
			return nil, invalid(err)
		}
		return s.sessions.ListByDate(ctx, userID, filter.Date)
	case filter.Week != "":
		weekStart, err := domain.WeekStart(filter.Week)
		if err != nil {
			return nil, invalid(err)
		}
		return s.sessions.ListByWeek(ctx, userID, weekStart)
	}
	return s.sessions.ListByUser(ctx, userID)
}

func (s *sessionService) Get(ctx context.Context, userID, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	return s.load(ctx, userID, id)
}

// build validates in and resolves the referenced type into a new unsaved session.
func (s *sessionService) build(ctx context.Context, userID primitive.ObjectID, in SessionInput) (*domain.WorkoutSession, error) {
	category := in.Category
	var wt *domain.WorkoutType
	sectionCount := 0
	if in.WorkoutTypeID != nil {
		var err error
		if wt, err = loadOwnedType(ctx, s.types, userID, *in.WorkoutTypeID); err != nil {
			return nil, err
		}
		if category == "" {
			category = wt.Category
		}
		sections, err := s.sections.ListByWorkoutType(ctx, wt.ID)
		if err != nil {
			return nil, err
		}
		sectionCount = len(sections)
	}
	if _, err := domain.ParseCategory(string(category)); err != nil {
		return nil, invalid(err)
	}

	session, err := domain.NewWorkoutSession(userID, in.Date, category)
	if err != nil {
		return nil, invalid(err)
	}
	if wt != nil {
		id := wt.ID
		session.WorkoutTypeID = &id
		session.WorkoutTypeName = wt.Name
		session.CompletedSections = make([]bool, sectionCount)
	}
	session.Notes = in.Notes
	session.Completed = in.Completed
	return session, nil
}

func (s *sessionService) Create(ctx context.Context, userID primitive.ObjectID, in SessionInput) (*domain.WorkoutSession, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	session, err := s.build(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	s.count(metrics.SessionCreated)
	s.notifier.Notify(userID)
	return session, nil
}

func (s *sessionService) Schedule(ctx context.Context, userID, typeID primitive.ObjectID, dates []string) ([]domain.WorkoutSession, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, invalidf("at least one date is required")
	}

	// validate everything before writing anything
	planned := make([]*domain.WorkoutSession, 0, len(dates))
	for _, date := range dates {
		id := typeID
		session, err := s.build(ctx, userID, SessionInput{Date: date, WorkoutTypeID: &id})
		if err != nil {
			return nil, err
		}
		planned = append(planned, session)
	}

	created := make([]domain.WorkoutSession, 0, len(planned))
	for _, session := range planned {
		if _, err := s.sessions.Create(ctx, session); err != nil {
			s.notifier.Notify(userID)
			return nil, fmt.Errorf("schedule %s: %w", session.Date, err)
		}
		s.count(metrics.SessionCreated)
		created = append(created, *session)
	}
	s.notifier.Notify(userID)
	return created, nil
}

func (s *sessionService) PlanWeek(ctx context.Context, userID primitive.ObjectID, weekStart string, items []SessionInput) ([]domain.WorkoutSession, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	monday, err := domain.WeekStart(weekStart)
	if err != nil {
		return nil, invalid(err)
	}
	if monday != weekStart {
		return nil, invalidf("week start %s is not a Monday", weekStart)
	}

	planned := make([]*domain.WorkoutSession, 0, len(items))
	for _, item := range items {
		session, err := s.build(ctx, userID, item)
		if err != nil {
			return nil, err
		}
		if session.WeekStart != weekStart {
			return nil, invalidf("date %s is outside the week of %s", item.Date, weekStart)
		}
		planned = append(planned, session)
	}

	deleted, err := s.sessions.DeleteByWeek(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}
	log.Debugf("plan week %s for user %s: replaced %d sessions with %d", weekStart, userID.Hex(), deleted, len(planned))

	created := make([]domain.WorkoutSession, 0, len(planned))
	for _, session := range planned {
		if _, err := s.sessions.Create(ctx, session); err != nil {
			s.notifier.Notify(userID)
			return nil, fmt.Errorf("plan week %s: %w", weekStart, err)
		}
		s.count(metrics.SessionCreated)
		created = append(created, *session)
	}
	s.notifier.Notify(userID)
	return created, nil
}

// ToggleCompleted is the calendar check box. It flips the flag only and is
// allowed in both directions.
func (s *sessionService) ToggleCompleted(ctx context.Context, userID, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	session.Completed = !session.Completed
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) Update(ctx context.Context, userID, id primitive.ObjectID, patch SessionPatch) (*domain.WorkoutSession, error) {
	session, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Date != nil {
		weekStart, err := domain.WeekStart(*patch.Date)
		if err != nil {
			return nil, invalid(err)
		}
		session.Date = *patch.Date
		session.WeekStart = weekStart
	}
	if patch.Category != nil {
		if _, err := domain.ParseCategory(string(*patch.Category)); err != nil {
			return nil, invalid(err)
		}
		session.Category = *patch.Category
	}
	if patch.Notes != nil {
		session.Notes = *patch.Notes
	}
	if patch.Completed != nil {
		session.Completed = *patch.Completed
	}
	if patch.CompletedSections != nil {
		count, err := s.sectionCount(ctx, session)
		if err != nil {
			return nil, err
		}
		if err := session.SetSections(patch.CompletedSections, count); err != nil {
			return nil, sessionError(err)
		}
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	session, err := s.load(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	s.count(metrics.SessionDeleted)
	s.notifier.Notify(userID)
	return nil
}

func (s *sessionService) Begin(ctx context.Context, userID, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	wasStarted := session.StartTime != nil
	if err := session.Begin(s.now()); err != nil {
		return nil, sessionError(err)
	}
	if wasStarted {
		return session, nil
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.count(metrics.SessionStarted)
	return session, nil
}

func (s *sessionService) Start(ctx context.Context, userID primitive.ObjectID, date string, category domain.Category, planID string) (*domain.WorkoutSession, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if _, err := domain.ParseCategory(string(category)); err != nil {
		return nil, invalid(err)
	}
	plan, ok := domain.DefaultPlanFor(category)
	if planID != "" {
		plan, ok = domain.FindPlan(planID)
		if !ok {
			return nil, ErrPlanNotFound
		}
		if plan.Category != category {
			return nil, invalidf("plan %s is not a %s plan", planID, category)
		}
	}
	if !ok {
		return nil, ErrPlanNotFound
	}

	session, err := s.sessions.FindByKey(ctx, userID, date, category)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if session, err = domain.NewWorkoutSession(userID, date, category); err != nil {
			return nil, invalid(err)
		}
		if err := session.Restart(s.now(), plan.ID); err != nil {
			return nil, sessionError(err)
		}
		if _, err := s.sessions.Create(ctx, session); err != nil {
			return nil, err
		}
		s.notifier.Notify(userID)
	case err != nil:
		return nil, err
	default:
		if err := session.Restart(s.now(), plan.ID); err != nil {
			return nil, sessionError(err)
		}
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
	}
	s.count(metrics.SessionStarted)
	return session, nil
}

func (s *sessionService) stepCount(session *domain.WorkoutSession) (int, error) {
	plan, ok := domain.FindPlan(session.PlanID)
	if !ok {
		return 0, invalidf("session has no workout plan")
	}
	return len(plan.Steps), nil
}

func (s *sessionService) ToggleStep(ctx context.Context, userID, id primitive.ObjectID, index int) (*domain.WorkoutSession, error) {
	session, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.setStep(ctx, session, index, !session.HasStep(index))
}

func (s *sessionService) SetStep(ctx context.Context, userID, id primitive.ObjectID, index int, done bool) (*domain.WorkoutSession, error) {
	session, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.setStep(ctx, session, index, done)
}

func (s *sessionService) setStep(ctx context.Context, session *domain.WorkoutSession, index int, done bool) (*domain.WorkoutSession, error) {
	if session.Completed {
		return nil, sessionError(domain.ErrSessionCompleted)
	}
	steps, err := s.stepCount(session)
	if err != nil {
		return nil, err
	}
	if err := session.SetStep(index, steps, done); err != nil {
		return nil, sessionError(err)
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// sectionCount is the current number of sections of the session's type, 0 when
// there is no type or it has been deleted.
func (s *sessionService) sectionCount(ctx context.Context, session *domain.WorkoutSession) (int, error) {
	if session.WorkoutTypeID == nil {
		return 0, nil
	}
	sections, err := s.sections.ListByWorkoutType(ctx, *session.WorkoutTypeID)
	if err != nil {
		return 0, err
	}
	return len(sections), nil
}

func (s *sessionService) ToggleSection(ctx context.Context, userID, id primitive.ObjectID, index int) (*domain.WorkoutSession, error) {
	session, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	count, err := s.sectionCount(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := session.ToggleSection(index, count); err != nil {
		return nil, sessionError(err)
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Complete closes the session and marks its day as done in weekly tracking.
// The tracking record is written first: when it fails the session stays open
// and the call can be retried.
func (s *sessionService) Complete(ctx context.Context, userID, id primitive.ObjectID, in CompleteInput) (*domain.WorkoutSession, error) {
	session, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	count := 0
	if in.CompletedSections != nil {
		if count, err = s.sectionCount(ctx, session); err != nil {
			return nil, err
		}
	}
	if err := session.Complete(s.now(), in.CompletedSections, count, in.Notes); err != nil {
		return nil, sessionError(err)
	}

	record := &domain.TrackingRecord{
		UserID:    userID,
		Date:      session.Date,
		Category:  session.Category,
		Completed: true,
		WeekStart: session.WeekStart,
	}
	if err := s.tracking.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("mark tracking record: %w", err)
	}
	if err := s.sessions.Update(ctx, session); err != nil {
		s.notifier.Notify(userID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	s.count(metrics.SessionCompleted)
	s.notifier.Notify(userID)
	return session, nil
}

func (s *sessionService) Timer(ctx context.Context, userID, id primitive.ObjectID, interval time.Duration) (<-chan TimerTick, error) {
	session, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = time.Second
	}

	ticks := make(chan TimerTick, 1)
	go func() {
		defer close(ticks)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			tick := TimerTick{
				SessionID: session.ID,
				Status:    session.Status(),
				ElapsedMs: session.Elapsed(s.now()).Milliseconds(),
			}
			select {
			case ticks <- tick:
			case <-ctx.Done():
				return
			}
			if tick.Status == domain.StatusCompleted {
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
			// pick up begin/complete done elsewhere
			fresh, err := s.load(ctx, userID, id)
			if err != nil {
				if ctx.Err() == nil {
					log.Debugf("timer for session %s stopped: %s", id.Hex(), err)
				}
				return
			}
			session = fresh
		}
	}()
	return ticks, nil
}
