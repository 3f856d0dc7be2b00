package application

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/fitlife-api/internal/domain/entity"
)

func TestParseWorkoutFilter_Empty(t *testing.T) {
	f, err := ParseWorkoutFilter(WorkoutQuery{})
	require.NoError(t, err)
	assert.Nil(t, f.ActivityType)
	assert.Nil(t, f.MinDuration)
	assert.Nil(t, f.MaxDuration)
	assert.Nil(t, f.StartDate)
	assert.Nil(t, f.EndDate)
}

func TestParseWorkoutFilter_All(t *testing.T) {
	f, err := ParseWorkoutFilter(WorkoutQuery{
		ActivityType: "Gym Workout",
		MinDuration:  "20",
		MaxDuration:  "40.5",
		StartDate:    "2024-01-01",
		EndDate:      "2024-01-31T23:59:59+02:00",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ActivityGymWorkout, *f.ActivityType)
	assert.Equal(t, 20.0, *f.MinDuration)
	assert.Equal(t, 40.5, *f.MaxDuration)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), *f.EndDate)
}

func TestParseWorkoutFilter_Malformed(t *testing.T) {
	_, err := ParseWorkoutFilter(WorkoutQuery{
		ActivityType: "Swimming",
		MinDuration:  "abc",
		MaxDuration:  "1e",
		StartDate:    "yesterday",
		EndDate:      "2024-02-30",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 5)
	assert.Contains(t, verr.Error(), "minDuration must be a number")
}

func TestParseWorkoutFilter_NonFiniteDurations(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "Inf", "-Inf", "+Infinity"} {
		t.Run(raw, func(t *testing.T) {
			f, err := ParseWorkoutFilter(WorkoutQuery{MinDuration: raw, MaxDuration: raw})
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "must be a number", verr.Fields["minDuration"])
			assert.Equal(t, "must be a number", verr.Fields["maxDuration"])
			assert.Nil(t, f.MinDuration)
		})
	}
}

func TestOptionalUnmarshal(t *testing.T) {
	var p WorkoutPatch
	require.NoError(t, jsonUnmarshal(`{"distance":null,"notes":"hi"}`, &p))
	assert.True(t, p.Distance.Set)
	assert.Nil(t, p.Distance.Value)
	assert.True(t, p.Notes.Set)
	assert.Equal(t, "hi", *p.Notes.Value)
	assert.False(t, p.Duration.Set)
	assert.False(t, p.ActivityType.Set)

	assert.Error(t, jsonUnmarshal(`{"duration":"long"}`, &p))
}

func jsonUnmarshal(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}
