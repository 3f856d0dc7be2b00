package application

import "github.com/oksasatya/fitlife-api/internal/domain/entity"

const recentWorkoutsLimit = 5

// Stats is the dashboard summary of a workout sequence.
type Stats struct {
	TotalWorkouts  int
	TotalCalories  float64
	TotalDuration  float64
	TotalDistance  float64
	WorkoutsByType map[entity.ActivityType]int
	RecentWorkouts []entity.Workout
}

// ComputeStats summarises workouts in one pass. The input is expected to be
// ordered already; RecentWorkouts is simply its first five elements.
func ComputeStats(workouts []entity.Workout) Stats {
	s := Stats{
		TotalWorkouts:  len(workouts),
		WorkoutsByType: make(map[entity.ActivityType]int, len(entity.ActivityTypes)),
	}
	for _, t := range entity.ActivityTypes {
		s.WorkoutsByType[t] = 0
	}
	for _, w := range workouts {
		s.TotalCalories += w.Calories
		s.TotalDuration += w.Duration
		s.TotalDistance += w.DistanceOrZero()
		s.WorkoutsByType[w.ActivityType]++
	}

	n := min(len(workouts), recentWorkoutsLimit)
	s.RecentWorkouts = make([]entity.Workout, n)
	copy(s.RecentWorkouts, workouts[:n])
	return s
}
