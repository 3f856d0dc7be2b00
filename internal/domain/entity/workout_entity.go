package entity

import "time"

// ActivityType enumerates the supported workout kinds.
type ActivityType string

const (
	ActivityRunning    ActivityType = "Running"
	ActivityCycling    ActivityType = "Cycling"
	ActivityWalking    ActivityType = "Walking"
	ActivityGymWorkout ActivityType = "Gym Workout"
)

// ActivityTypes lists every ActivityType in display order.
var ActivityTypes = []ActivityType{
	ActivityRunning,
	ActivityCycling,
	ActivityWalking,
	ActivityGymWorkout,
}

// Valid reports whether a is one of ActivityTypes.
func (a ActivityType) Valid() bool {
	for _, t := range ActivityTypes {
		if a == t {
			return true
		}
	}
	return false
}

// Workout is a single logged training session owned by exactly one user.
// Duration is in minutes, Distance in kilometers. Date holds the calendar
// day of the session at midnight UTC.
type Workout struct {
	ID           string
	UserID       string
	ActivityType ActivityType
	Duration     float64
	Distance     *float64
	Calories     float64
	Date         time.Time
	Notes        *string
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DistanceOrZero returns the distance, treating an absent value as zero.
func (w Workout) DistanceOrZero() float64 {
	if w.Distance == nil {
		return 0
	}
	return *w.Distance
}

// CalendarDate truncates t to midnight UTC of its own calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
