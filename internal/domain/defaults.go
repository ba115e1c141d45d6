package domain

// DefaultWorkoutType is a seed template: a type plus its ordered sections.
type DefaultWorkoutType struct {
	Type     WorkoutType
	Sections []WorkoutSection
}

// DefaultWorkoutTypes returns the three types every user is seeded with.
// IDs and owners are left empty for the caller to fill in.
func DefaultWorkoutTypes() []DefaultWorkoutType {
	return []DefaultWorkoutType{
		{
			Type: WorkoutType{
				Name:        "Cardio workout",
				Category:    CategoryCardio,
				Description: "Intense cardio session to build endurance and burn calories",
				Duration:    "30-45 min",
				Calories:    "300-500 kcal",
				IsDefault:   true,
				Display: Display{
					Emoji: "🫀", Color: "text-red-600", BgColor: "bg-red-500", LightBg: "bg-red-50",
					LightColor: "bg-red-100 text-red-700", BorderColor: "border-red-200", Gradient: "from-red-400 to-pink-500",
				},
			},
			Sections: []WorkoutSection{
				{Name: "Warm-up", Duration: "5 min", Order: 1, Instructions: []string{
					"Light jogging in place - 2 min",
					"Arm circles - 30 sec",
					"Torso bends - 30 sec",
					"Squats - 1 min",
					"Leg stretch - 1 min",
				}},
				{Name: "Main part", Duration: "25-35 min", Order: 2, Instructions: []string{
					"Interval running: 2 min fast, 1 min slow (repeat 8-12 times)",
					"Jumping jacks - 3 sets of 30 sec",
					"Burpees - 3 sets of 10",
					"High knees - 3 sets of 30 sec",
					"Plank jacks - 3 sets of 15",
				}},
				{Name: "Cool-down", Duration: "5-10 min", Order: 3, Instructions: []string{
					"Slow walk - 3 min",
					"Calf stretch - 1 min",
					"Hamstring stretch - 1 min",
					"Deep breathing - 2 min",
				}},
			},
		},
		{
			Type: WorkoutType{
				Name:        "Strength workout",
				Category:    CategoryStrength,
				Description: "Full strength session for muscle mass and power",
				Duration:    "45-60 min",
				Calories:    "250-400 kcal",
				IsDefault:   true,
				Display: Display{
					Emoji: "💪", Color: "text-blue-600", BgColor: "bg-blue-500", LightBg: "bg-blue-50",
					LightColor: "bg-blue-100 text-blue-700", BorderColor: "border-blue-200", Gradient: "from-blue-400 to-indigo-500",
				},
			},
			Sections: []WorkoutSection{
				{Name: "Warm-up", Duration: "8-10 min", Order: 1, Instructions: []string{
					"Light cardio - 5 min (walk, bike)",
					"Joint rotations - 2 min",
					"Dynamic stretching - 3 min",
				}},
				{Name: "Upper body", Duration: "15-20 min", Order: 2, Instructions: []string{
					"Push-ups - 4 sets of 12-15",
					"Pull-ups or bent-over rows - 4 sets of 8-12",
					"Dumbbell bench press - 4 sets of 10-12",
					"Dumbbell flyes - 3 sets of 12-15",
					"Biceps curls - 3 sets of 12-15",
					"Triceps dips - 3 sets of 10-12",
				}},
				{Name: "Lower body", Duration: "15-20 min", Order: 3, Instructions: []string{
					"Squats - 4 sets of 15-20",
					"Lunges - 4 sets of 12 per leg",
					"Romanian deadlift - 4 sets of 12-15",
					"Calf raises - 4 sets of 20",
					"Bulgarian split squats - 3 sets of 12 per leg",
				}},
				{Name: "Cool-down", Duration: "5-10 min", Order: 4, Instructions: []string{
					"Static stretching for all muscle groups - 8 min",
					"Breathing exercises - 2 min",
				}},
			},
		},
		{
			Type: WorkoutType{
				Name:        "Stretching & flexibility",
				Category:    CategoryStretching,
				Description: "Gentle session to improve flexibility and recovery",
				Duration:    "30-40 min",
				Calories:    "100-200 kcal",
				IsDefault:   true,
				Display: Display{
					Emoji: "🧘", Color: "text-emerald-600", BgColor: "bg-emerald-500", LightBg: "bg-emerald-50",
					LightColor: "bg-emerald-100 text-emerald-700", BorderColor: "border-emerald-200", Gradient: "from-emerald-400 to-teal-500",
				},
			},
			Sections: []WorkoutSection{
				{Name: "Preparation", Duration: "5 min", Order: 1, Instructions: []string{
					"Seated deep breathing - 2 min",
					"Slow head turns - 1 min",
					"Shoulder circles - 1 min",
					"Light torso bends - 1 min",
				}},
				{Name: "Upper body stretch", Duration: "12-15 min", Order: 2, Instructions: []string{
					"Neck and shoulders - 3 min",
					"Arms and wrists - 3 min",
					"Spinal twists - 4 min",
					"Chest opener - 3 min",
					"Side bends - 2 min",
				}},
				{Name: "Lower body stretch", Duration: "12-15 min", Order: 3, Instructions: []string{
					"Hips and glutes - 4 min",
					"Hamstrings - 3 min",
					"Calves - 3 min",
					"Quadriceps - 3 min",
					"Child's pose - 2 min",
				}},
				{Name: "Relaxation", Duration: "5-8 min", Order: 4, Instructions: []string{
					"Corpse pose (savasana) - 5 min",
					"Meditation and deep breathing - 3 min",
				}},
			},
		},
	}
}
