package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/fitlife-api/internal/domain/entity"
)

func workoutOf(id string, at entity.ActivityType, duration, calories float64, distance *float64) entity.Workout {
	return entity.Workout{
		ID:           id,
		ActivityType: at,
		Duration:     duration,
		Calories:     calories,
		Distance:     distance,
		Date:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestComputeStats_Empty(t *testing.T) {
	s := ComputeStats(nil)

	assert.Equal(t, 0, s.TotalWorkouts)
	assert.Zero(t, s.TotalCalories)
	assert.Zero(t, s.TotalDuration)
	assert.Zero(t, s.TotalDistance)
	assert.Len(t, s.WorkoutsByType, 4)
	for _, at := range entity.ActivityTypes {
		assert.Equal(t, 0, s.WorkoutsByType[at])
	}
	assert.NotNil(t, s.RecentWorkouts)
	assert.Empty(t, s.RecentWorkouts)
}

func TestComputeStats_Totals(t *testing.T) {
	ws := []entity.Workout{
		workoutOf("1", entity.ActivityRunning, 30, 250, ptr(5.0)),
		workoutOf("2", entity.ActivityGymWorkout, 60, 400, nil),
		workoutOf("3", entity.ActivityRunning, 20, 150, ptr(3.5)),
		workoutOf("4", entity.ActivityCycling, 45, 300, nil),
	}

	s := ComputeStats(ws)

	assert.Equal(t, 4, s.TotalWorkouts)
	assert.Equal(t, 1100.0, s.TotalCalories)
	assert.Equal(t, 155.0, s.TotalDuration)
	assert.Equal(t, 8.5, s.TotalDistance)
	assert.Equal(t, map[entity.ActivityType]int{
		entity.ActivityRunning:    2,
		entity.ActivityCycling:    1,
		entity.ActivityWalking:    0,
		entity.ActivityGymWorkout: 1,
	}, s.WorkoutsByType)
}

func TestComputeStats_AbsentDistanceCountsAsZero(t *testing.T) {
	s := ComputeStats([]entity.Workout{
		workoutOf("1", entity.ActivityWalking, 10, 50, nil),
		workoutOf("2", entity.ActivityWalking, 10, 50, nil),
	})
	assert.Equal(t, 0.0, s.TotalDistance)
}

func TestComputeStats_ByTypeSumsToTotal(t *testing.T) {
	var ws []entity.Workout
	for i := 0; i < 23; i++ {
		at := entity.ActivityTypes[i%len(entity.ActivityTypes)]
		ws = append(ws, workoutOf(string(rune('a'+i)), at, 1, 1, nil))
	}

	s := ComputeStats(ws)

	sum := 0
	for _, n := range s.WorkoutsByType {
		sum += n
	}
	assert.Equal(t, s.TotalWorkouts, sum)
}

func TestComputeStats_RecentIsFirstFiveAsGiven(t *testing.T) {
	var ws []entity.Workout
	for _, id := range []string{"g", "f", "e", "d", "c", "b", "a"} {
		ws = append(ws, workoutOf(id, entity.ActivityRunning, 1, 1, nil))
	}

	s := ComputeStats(ws)

	ids := make([]string, 0, len(s.RecentWorkouts))
	for _, w := range s.RecentWorkouts {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{"g", "f", "e", "d", "c"}, ids)

	s.RecentWorkouts[0].ID = "changed"
	assert.Equal(t, "g", ws[0].ID)
}
