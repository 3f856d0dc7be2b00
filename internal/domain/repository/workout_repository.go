package repository

import (
	"context"
	"time"

	"github.com/oksasatya/fitlife-api/internal/domain/entity"
)

// WorkoutFilter narrows a workout listing. Nil fields are ignored; the rest
// combine with AND and every bound is inclusive. Date bounds compare whole
// calendar days.
type WorkoutFilter struct {
	ActivityType *entity.ActivityType
	MinDuration  *float64
	MaxDuration  *float64
	StartDate    *time.Time
	EndDate      *time.Time
}

// Matches reports whether w satisfies every set field of f.
func (f WorkoutFilter) Matches(w entity.Workout) bool {
	if f.ActivityType != nil && w.ActivityType != *f.ActivityType {
		return false
	}
	if f.MinDuration != nil && w.Duration < *f.MinDuration {
		return false
	}
	if f.MaxDuration != nil && w.Duration > *f.MaxDuration {
		return false
	}
	date := entity.CalendarDate(w.Date)
	if f.StartDate != nil && date.Before(entity.CalendarDate(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && date.After(entity.CalendarDate(*f.EndDate)) {
		return false
	}
	return true
}

// WorkoutRepository persists workouts keyed by their owning user.
//
// ListByUser returns the user's workouts ordered by date descending, ties in
// insertion order. Update succeeds only while the stored version equals
// w.Version and bumps it; otherwise it returns ErrVersionConflict.
type WorkoutRepository interface {
	Create(ctx context.Context, w *entity.Workout) error
	GetByID(ctx context.Context, id string) (*entity.Workout, error)
	ListByUser(ctx context.Context, userID string, filter WorkoutFilter) ([]entity.Workout, error)
	Update(ctx context.Context, w *entity.Workout) error
	Delete(ctx context.Context, id string) error
}
