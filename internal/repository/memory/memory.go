// Package memory implements the repositories in memory for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DB holds every collection behind a single lock.
type DB struct {
	mu       sync.Mutex
	users    []domain.User
	profiles []domain.Profile
	types    []domain.WorkoutType
	sections []domain.WorkoutSection
	sessions []domain.WorkoutSession
	tracking []domain.TrackingRecord
	exports  []domain.Export
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{}
}

func (db *DB) Users() repository.UserRepository               { return &userRepo{db} }
func (db *DB) Profiles() repository.ProfileRepository         { return &profileRepo{db} }
func (db *DB) WorkoutTypes() repository.WorkoutTypeRepository { return &workoutTypeRepo{db} }
func (db *DB) Sections() repository.SectionRepository         { return &sectionRepo{db} }
func (db *DB) Sessions() repository.SessionRepository         { return &sessionRepo{db} }
func (db *DB) Tracking() repository.TrackingRepository        { return &trackingRepo{db} }
func (db *DB) Exports() repository.ExportRepository           { return &exportRepo{db} }

// Ensure interfaces are met.
var _ repository.UserRepository = (*userRepo)(nil)
var _ repository.ProfileRepository = (*profileRepo)(nil)
var _ repository.WorkoutTypeRepository = (*workoutTypeRepo)(nil)
var _ repository.SectionRepository = (*sectionRepo)(nil)
var _ repository.SessionRepository = (*sessionRepo)(nil)
var _ repository.TrackingRepository = (*trackingRepo)(nil)
var _ repository.ExportRepository = (*exportRepo)(nil)

// --- UserRepository ---

type userRepo struct{ db *DB }

func (r *userRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" {
		return primitive.NilObjectID, errors.New("user email is required")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.db.users = append(r.db.users, *user)
	return user.ID, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetFirst(ctx context.Context) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if len(r.db.users) == 0 {
		return nil, repository.ErrNotFound
	}
	u := r.db.users[0]
	return &u, nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Email == user.Email && u.ID != user.ID {
			return repository.ErrDuplicate
		}
	}
	for i := range r.db.users {
		if r.db.users[i].ID == user.ID {
			user.UpdatedAt = time.Now().UTC()
			r.db.users[i].Name = user.Name
			r.db.users[i].Email = user.Email
			r.db.users[i].UpdatedAt = user.UpdatedAt
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- ProfileRepository ---

type profileRepo struct{ db *DB }

func (r *profileRepo) Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error) {
	if profile.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("profile requires userId")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	profile.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	r.db.profiles = append(r.db.profiles, *profile)
	return profile.ID, nil
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, p := range r.db.profiles {
		if p.UserID == userID {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *profileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.profiles {
		if r.db.profiles[i].ID == profile.ID {
			profile.UpdatedAt = time.Now().UTC()
			r.db.profiles[i].Name = profile.Name
			r.db.profiles[i].FitnessGoal = profile.FitnessGoal
			r.db.profiles[i].UpdatedAt = profile.UpdatedAt
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- WorkoutTypeRepository ---

type workoutTypeRepo struct{ db *DB }

func (r *workoutTypeRepo) Create(ctx context.Context, wt *domain.WorkoutType) (primitive.ObjectID, error) {
	if wt.UserID == primitive.NilObjectID || wt.Name == "" {
		return primitive.NilObjectID, errors.New("workout type requires userId and name")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	wt.ID = primitive.NewObjectID()
	stored := *wt
	stored.Sections = nil
	r.db.types = append(r.db.types, stored)
	return wt.ID, nil
}

func (r *workoutTypeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutType, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, t := range r.db.types {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *workoutTypeRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutType, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	types := []domain.WorkoutType{}
	for _, t := range r.db.types {
		if t.UserID == userID {
			types = append(types, t)
		}
	}
	return types, nil
}

func (r *workoutTypeRepo) Update(ctx context.Context, wt *domain.WorkoutType) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.types {
		if r.db.types[i].ID == wt.ID {
			t := &r.db.types[i]
			t.Name = wt.Name
			t.Category = wt.Category
			t.Description = wt.Description
			t.Duration = wt.Duration
			t.Calories = wt.Calories
			t.Display = wt.Display
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *workoutTypeRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.types {
		if r.db.types[i].ID == id {
			r.db.types = append(r.db.types[:i], r.db.types[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- SectionRepository ---

type sectionRepo struct{ db *DB }

func (r *sectionRepo) Create(ctx context.Context, section *domain.WorkoutSection) (primitive.ObjectID, error) {
	if section.WorkoutTypeID == primitive.NilObjectID || section.Name == "" {
		return primitive.NilObjectID, errors.New("section requires workoutTypeId and name")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	section.ID = primitive.NewObjectID()
	if section.Instructions == nil {
		section.Instructions = []string{}
	}
	stored := *section
	stored.Instructions = append([]string{}, section.Instructions...)
	r.db.sections = append(r.db.sections, stored)
	return section.ID, nil
}

func (r *sectionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSection, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, s := range r.db.sections {
		if s.ID == id {
			s.Instructions = append([]string{}, s.Instructions...)
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *sectionRepo) ListByWorkoutType(ctx context.Context, workoutTypeID primitive.ObjectID) ([]domain.WorkoutSection, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	sections := []domain.WorkoutSection{}
	for _, s := range r.db.sections {
		if s.WorkoutTypeID == workoutTypeID {
			s.Instructions = append([]string{}, s.Instructions...)
			sections = append(sections, s)
		}
	}
	domain.SortSections(sections)
	return sections, nil
}

func (r *sectionRepo) Update(ctx context.Context, section *domain.WorkoutSection) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.sections {
		if r.db.sections[i].ID == section.ID {
			s := &r.db.sections[i]
			s.Name = section.Name
			s.Duration = section.Duration
			s.Instructions = append([]string{}, section.Instructions...)
			s.Order = section.Order
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *sectionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.sections {
		if r.db.sections[i].ID == id {
			r.db.sections = append(r.db.sections[:i], r.db.sections[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- SessionRepository ---

type sessionRepo struct{ db *DB }

// cloneSession copies the slices so callers never alias stored state.
func cloneSession(s domain.WorkoutSession) domain.WorkoutSession {
	if s.CompletedSections != nil {
		s.CompletedSections = append([]bool{}, s.CompletedSections...)
	}
	if s.CompletedSteps != nil {
		s.CompletedSteps = append([]int{}, s.CompletedSteps...)
	}
	return s
}

func (r *sessionRepo) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	if session.UserID == primitive.NilObjectID || session.Date == "" || session.WeekStart == "" {
		return primitive.NilObjectID, errors.New("session requires userId, date and weekStart")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	r.db.sessions = append(r.db.sessions, cloneSession(*session))
	return session.ID, nil
}

func (r *sessionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, s := range r.db.sessions {
		if s.ID == id {
			c := cloneSession(s)
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *sessionRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	return r.filter(func(s domain.WorkoutSession) bool { return s.UserID == userID }), nil
}

func (r *sessionRepo) ListByWeek(ctx context.Context, userID primitive.ObjectID, weekStart string) ([]domain.WorkoutSession, error) {
	return r.filter(func(s domain.WorkoutSession) bool {
		return s.UserID == userID && s.WeekStart == weekStart
	}), nil
}

func (r *sessionRepo) ListByDate(ctx context.Context, userID primitive.ObjectID, date string) ([]domain.WorkoutSession, error) {
	return r.filter(func(s domain.WorkoutSession) bool {
		return s.UserID == userID && s.Date == date
	}), nil
}

func (r *sessionRepo) filter(keep func(domain.WorkoutSession) bool) []domain.WorkoutSession {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	sessions := []domain.WorkoutSession{}
	for _, s := range r.db.sessions {
		if keep(s) {
			sessions = append(sessions, cloneSession(s))
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Date < sessions[j].Date
	})
	return sessions
}

func (r *sessionRepo) FindByKey(ctx context.Context, userID primitive.ObjectID, date string, category domain.Category) (*domain.WorkoutSession, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, s := range r.db.sessions {
		if s.UserID == userID && s.Date == date && s.Category == category {
			c := cloneSession(s)
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *sessionRepo) Update(ctx context.Context, session *domain.WorkoutSession) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.sessions {
		if r.db.sessions[i].ID == session.ID {
			session.UpdatedAt = time.Now().UTC()
			stored := cloneSession(*session)
			stored.UserID = r.db.sessions[i].UserID
			stored.CreatedAt = r.db.sessions[i].CreatedAt
			r.db.sessions[i] = stored
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *sessionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.sessions {
		if r.db.sessions[i].ID == id {
			r.db.sessions = append(r.db.sessions[:i], r.db.sessions[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *sessionRepo) DeleteByWeek(ctx context.Context, userID primitive.ObjectID, weekStart string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	kept := r.db.sessions[:0]
	var deleted int64
	for _, s := range r.db.sessions {
		if s.UserID == userID && s.WeekStart == weekStart {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	r.db.sessions = kept
	return deleted, nil
}

// --- TrackingRepository ---

type trackingRepo struct{ db *DB }

func (r *trackingRepo) FindByKey(ctx context.Context, userID primitive.ObjectID, date string, category domain.Category) (*domain.TrackingRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, t := range r.db.tracking {
		if t.UserID == userID && t.Date == date && t.Category == category {
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *trackingRepo) Upsert(ctx context.Context, record *domain.TrackingRecord) error {
	if record.UserID == primitive.NilObjectID || record.Date == "" {
		return errors.New("tracking record requires userId and date")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	record.UpdatedAt = time.Now().UTC()
	for i := range r.db.tracking {
		t := &r.db.tracking[i]
		if t.UserID == record.UserID && t.Date == record.Date && t.Category == record.Category {
			t.Completed = record.Completed
			t.WeekStart = record.WeekStart
			t.UpdatedAt = record.UpdatedAt
			record.ID = t.ID
			return nil
		}
	}
	record.ID = primitive.NewObjectID()
	r.db.tracking = append(r.db.tracking, *record)
	return nil
}

func (r *trackingRepo) ListByWeek(ctx context.Context, userID primitive.ObjectID, weekStart string) ([]domain.TrackingRecord, error) {
	return r.filter(func(t domain.TrackingRecord) bool {
		return t.UserID == userID && t.WeekStart == weekStart
	}), nil
}

func (r *trackingRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.TrackingRecord, error) {
	return r.filter(func(t domain.TrackingRecord) bool { return t.UserID == userID }), nil
}

func (r *trackingRepo) filter(keep func(domain.TrackingRecord) bool) []domain.TrackingRecord {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	records := []domain.TrackingRecord{}
	for _, t := range r.db.tracking {
		if keep(t) {
			records = append(records, t)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].Category < records[j].Category
	})
	return records
}

// --- ExportRepository ---

type exportRepo struct{ db *DB }

func (r *exportRepo) Create(ctx context.Context, export *domain.Export) (primitive.ObjectID, error) {
	if export.UserID == primitive.NilObjectID || export.ObjectKey == "" {
		return primitive.NilObjectID, errors.New("export requires userId and objectKey")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	export.ID = primitive.NewObjectID()
	export.CreatedAt = time.Now().UTC()
	r.db.exports = append(r.db.exports, *export)
	return export.ID, nil
}

func (r *exportRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Export, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, e := range r.db.exports {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *exportRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Export, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	exports := []domain.Export{}
	for i := len(r.db.exports) - 1; i >= 0; i-- {
		if r.db.exports[i].UserID == userID {
			exports = append(exports, r.db.exports[i])
		}
	}
	return exports, nil
}
