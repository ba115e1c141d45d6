// internal/domain/plan.go
package domain

// Difficulty of a built-in plan.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// PlanStep is one step of a built-in plan. Sessions track steps by their index in Plan.Steps.
type PlanStep struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Duration    string   `json:"duration,omitempty"`
	Reps        string   `json:"reps,omitempty"`
	Sets        int      `json:"sets,omitempty"`
	RestTime    string   `json:"restTime,omitempty"`
	Tips        []string `json:"tips,omitempty"`
}

// Plan is a read-only, step-by-step workout shipped with the application.
type Plan struct {
	ID          string     `json:"id"`
	Category    Category   `json:"category"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Duration    string     `json:"duration"`
	Difficulty  Difficulty `json:"difficulty"`
	Equipment   []string   `json:"equipment"`
	Steps       []PlanStep `json:"steps"`
}

var planCatalog = []Plan{
	{
		ID:          "cardio-hiit-beginner",
		Category:    CategoryCardio,
		Name:        "Beginner HIIT",
		Description: "High-intensity interval training for newcomers",
		Duration:    "20 min",
		Difficulty:  DifficultyBeginner,
		Equipment:   []string{"Mat"},
		Steps: []PlanStep{
			{Name: "Warm-up", Description: "Light warm-up to prepare the body", Duration: "3 min", Tips: []string{"Move smoothly", "Warm up every joint"}},
			{Name: "Jumping jacks", Description: "Energetic jumps spreading arms and legs", Duration: "30 sec", RestTime: "30 sec"},
			{Name: "Squats", Description: "Classic bodyweight squats", Reps: "10-15", RestTime: "30 sec", Tips: []string{"Knees behind toes", "Keep the back straight"}},
			{Name: "Knee push-ups", Description: "Push-ups supported on the knees", Reps: "8-12", RestTime: "30 sec"},
			{Name: "Plank", Description: "Static core hold", Duration: "20-30 sec", RestTime: "30 sec"},
			{Name: "Repeat the circuit", Description: "Repeat steps 2-5 two more times", Duration: "10 min", Tips: []string{"Rest 1-2 minutes between rounds"}},
			{Name: "Cool-down", Description: "Easy walking and stretching", Duration: "3 min"},
		},
	},
	{
		ID:          "cardio-running",
		Category:    CategoryCardio,
		Name:        "Interval running",
		Description: "Alternating easy and hard running for endurance",
		Duration:    "30 min",
		Difficulty:  DifficultyIntermediate,
		Equipment:   []string{"Running shoes"},
		Steps: []PlanStep{
			{Name: "Walking warm-up", Description: "Brisk walk", Duration: "5 min"},
			{Name: "Easy run", Description: "Conversational pace", Duration: "3 min"},
			{Name: "Hard run", Description: "Fast but controlled", Duration: "1 min"},
			{Name: "Recovery", Description: "Slow jog or walk", Duration: "2 min"},
			{Name: "Repeat intervals", Description: "Repeat steps 2-4 four more times", Duration: "15 min"},
			{Name: "Cool-down", Description: "Walk and stretch calves", Duration: "5 min"},
		},
	},
	{
		ID:          "strength-upper-body",
		Category:    CategoryStrength,
		Name:        "Upper body",
		Description: "Chest, back, shoulders and arms with dumbbells",
		Duration:    "45 min",
		Difficulty:  DifficultyIntermediate,
		Equipment:   []string{"Dumbbells", "Bench"},
		Steps: []PlanStep{
			{Name: "Warm-up", Description: "Arm circles and light cardio", Duration: "5 min"},
			{Name: "Push-ups", Description: "Full push-ups", Reps: "10-15", Sets: 3, RestTime: "60 sec"},
			{Name: "Dumbbell bench press", Description: "Press from the chest", Reps: "8-12", Sets: 3, RestTime: "90 sec"},
			{Name: "Bent-over row", Description: "Row dumbbells to the hips", Reps: "10-12", Sets: 3, RestTime: "60 sec"},
			{Name: "Overhead press", Description: "Standing dumbbell press", Reps: "8-10", Sets: 3, RestTime: "60 sec"},
			{Name: "Biceps curls", Description: "Controlled curls", Reps: "12-15", Sets: 3, RestTime: "45 sec"},
			{Name: "Plank", Description: "Static core hold", Duration: "30-60 sec", Sets: 3},
			{Name: "Cool-down", Description: "Stretch chest, shoulders and arms", Duration: "5 min"},
		},
	},
	{
		ID:          "stretching-morning",
		Category:    CategoryStretching,
		Name:        "Morning stretch",
		Description: "Gentle mobility routine to start the day",
		Duration:    "15 min",
		Difficulty:  DifficultyBeginner,
		Equipment:   []string{"Mat"},
		Steps: []PlanStep{
			{Name: "Full-body reach", Description: "Reach arms overhead lying down", Duration: "1 min"},
			{Name: "Knees to chest", Description: "Hug both knees", Duration: "1 min"},
			{Name: "Spinal twist", Description: "Lying twist to each side", Duration: "2 min"},
			{Name: "Child's pose", Description: "Sit back on heels, arms forward", Duration: "1 min"},
			{Name: "Cat-cow", Description: "Alternate arching and rounding the back", Duration: "2 min"},
			{Name: "Hip stretch", Description: "Low lunge on each side", Duration: "2 min"},
			{Name: "Seated forward fold", Description: "Reach towards the toes", Duration: "2 min"},
			{Name: "Final relaxation", Description: "Lie still and breathe", Duration: "2 min"},
		},
	},
}

// Plans returns a copy of the built-in plan catalog.
func Plans() []Plan {
	out := make([]Plan, len(planCatalog))
	copy(out, planCatalog)
	return out
}

// FindPlan looks a plan up by ID.
func FindPlan(id string) (Plan, bool) {
	for _, p := range planCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// DefaultPlanFor returns the first plan of a category.
func DefaultPlanFor(c Category) (Plan, bool) {
	for _, p := range planCatalog {
		if p.Category == c {
			return p, true
		}
	}
	return Plan{}, false
}
