// Package stats derives progress figures from a user's workout history.
// Everything here is a pure function of the entries and the clock passed in.
package stats

import (
	"math"
	"time"

	"fitcal/workout-tracker/internal/domain"
)

// Entry is the minimal view of a session or tracking record the statistics need.
type Entry struct {
	Date      string
	WeekStart string
	Category  domain.Category
	Completed bool
	StartTime *time.Time
	EndTime   *time.Time
}

// FromSessions adapts workout sessions.
func FromSessions(sessions []domain.WorkoutSession) []Entry {
	entries := make([]Entry, len(sessions))
	for i, s := range sessions {
		entries[i] = Entry{
			Date:      s.Date,
			WeekStart: s.WeekStart,
			Category:  s.Category,
			Completed: s.Completed,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		}
	}
	return entries
}

// FromTracking adapts weekly tracking records. They carry no timing.
func FromTracking(records []domain.TrackingRecord) []Entry {
	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = Entry{
			Date:      r.Date,
			WeekStart: r.WeekStart,
			Category:  r.Category,
			Completed: r.Completed,
		}
	}
	return entries
}

// Progress is a completed/total ratio.
type Progress struct {
	WeekStart string `json:"weekStart,omitempty"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
}

// DayActivity is one bar of the last-days chart.
type DayActivity struct {
	Date        string `json:"date"`
	Workouts    int    `json:"workouts"`
	TotalTimeMs int64  `json:"totalTimeMs"`
}

// Summary bundles every derived figure.
type Summary struct {
	Today              string                  `json:"today"`
	TotalWorkouts      int                     `json:"totalWorkouts"`
	CompletedWorkouts  int                     `json:"completedWorkouts"`
	CompletionRate     int                     `json:"completionRate"`
	Weekly             Progress                `json:"weekly"`
	TypeDistribution   map[domain.Category]int `json:"typeDistribution"`
	CurrentStreak      int                     `json:"currentStreak"`
	TotalWorkoutTimeMs int64                   `json:"totalWorkoutTimeMs"`
	AverageWorkoutMs   int64                   `json:"averageWorkoutTimeMs"`
	Last7Days          []DayActivity           `json:"last7Days"`
}

// Percent returns part/total*100 rounded to the nearest integer, 0 for an empty total.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// CompletionRate is the share of completed entries, in percent.
func CompletionRate(entries []Entry) int {
	return Percent(countCompleted(entries), len(entries))
}

// WeeklyProgress restricts the completion ratio to entries whose week key is weekStart.
func WeeklyProgress(entries []Entry, weekStart string) Progress {
	p := Progress{WeekStart: weekStart}
	for _, e := range entries {
		if e.WeekStart != weekStart {
			continue
		}
		p.Total++
		if e.Completed {
			p.Completed++
		}
	}
	p.Percent = Percent(p.Completed, p.Total)
	return p
}

// TypeDistribution counts completed entries per category. Every known category is present.
func TypeDistribution(entries []Entry) map[domain.Category]int {
	dist := make(map[domain.Category]int, len(domain.Categories))
	for _, c := range domain.Categories {
		dist[c] = 0
	}
	for _, e := range entries {
		if e.Completed {
			dist[e.Category]++
		}
	}
	return dist
}

// CurrentStreak counts consecutive days with at least one completed entry,
// walking back from today. A day without one, today included, ends the walk.
func CurrentStreak(entries []Entry, today string) int {
	done := make(map[string]struct{})
	for _, e := range entries {
		if e.Completed {
			done[e.Date] = struct{}{}
		}
	}
	day, err := domain.ParseDay(today)
	if err != nil {
		return 0
	}

	streak := 0
	for streak <= len(done) {
		if _, ok := done[domain.FormatDay(day)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// TotalWorkoutTime sums end-start over completed entries that carry both timestamps.
func TotalWorkoutTime(entries []Entry) time.Duration {
	var total time.Duration
	for _, e := range entries {
		if e.Completed {
			total += span(e)
		}
	}
	return total
}

// AverageSessionDuration divides the total workout time by the completed count.
func AverageSessionDuration(entries []Entry) time.Duration {
	completed := countCompleted(entries)
	if completed == 0 {
		return 0
	}
	return TotalWorkoutTime(entries) / time.Duration(completed)
}

// LastDays returns one DayActivity per day for the n days ending today, oldest first.
func LastDays(entries []Entry, today string, n int) []DayActivity {
	end, err := domain.ParseDay(today)
	if err != nil || n <= 0 {
		return []DayActivity{}
	}
	days := make([]DayActivity, n)
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		date := domain.FormatDay(end.AddDate(0, 0, i-n+1))
		days[i] = DayActivity{Date: date}
		index[date] = i
	}
	for _, e := range entries {
		if !e.Completed {
			continue
		}
		if i, ok := index[e.Date]; ok {
			days[i].Workouts++
			days[i].TotalTimeMs += span(e).Milliseconds()
		}
	}
	return days
}

// Compute derives the full summary as of now in loc.
func Compute(entries []Entry, now time.Time, loc *time.Location) Summary {
	today := domain.Today(now, loc)
	weekStart, _ := domain.WeekStart(today)
	total := TotalWorkoutTime(entries)
	return Summary{
		Today:              today,
		TotalWorkouts:      len(entries),
		CompletedWorkouts:  countCompleted(entries),
		CompletionRate:     CompletionRate(entries),
		Weekly:             WeeklyProgress(entries, weekStart),
		TypeDistribution:   TypeDistribution(entries),
		CurrentStreak:      CurrentStreak(entries, today),
		TotalWorkoutTimeMs: total.Milliseconds(),
		AverageWorkoutMs:   AverageSessionDuration(entries).Milliseconds(),
		Last7Days:          LastDays(entries, today, 7),
	}
}

func countCompleted(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.Completed {
			n++
		}
	}
	return n
}

func span(e Entry) time.Duration {
	if e.StartTime == nil || e.EndTime == nil {
		return 0
	}
	return e.EndTime.Sub(*e.StartTime)
}
