package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/fitlife-api/internal/domain/entity"
	repo "github.com/oksasatya/fitlife-api/internal/domain/repository"
	"github.com/oksasatya/fitlife-api/internal/observability"
	"github.com/oksasatya/fitlife-api/pkg/helpers"
	"github.com/oksasatya/fitlife-api/pkg/validation"
)

const defaultSearchSize = 20

// WorkoutIndexer keeps a full-text index of workouts.
// Search returns matching workout ids, best match first.
type WorkoutIndexer interface {
	Index(ctx context.Context, w entity.Workout) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, userID, query string, size int) ([]string, error)
}

type WorkoutService struct {
	Repo    repo.WorkoutRepository
	Index   WorkoutIndexer
	Metrics *observability.Manager
	Logger  *logrus.Logger
}

func NewWorkoutService(repo repo.WorkoutRepository, index WorkoutIndexer, metrics *observability.Manager, logger *logrus.Logger) *WorkoutService {
	return &WorkoutService{Repo: repo, Index: index, Metrics: metrics, Logger: logger}
}

// CreateWorkoutInput is the payload of a new workout.
type CreateWorkoutInput struct {
	ActivityType string   `json:"activityType"`
	Duration     *float64 `json:"duration"`
	Distance     *float64 `json:"distance"`
	Calories     *float64 `json:"calories"`
	Date         string   `json:"date"`
	Notes        *string  `json:"notes"`
}

// WorkoutPatch updates only the fields that were sent. A null distance or
// notes clears it; a null required field fails validation. Version, when
// sent, must match the stored version.
type WorkoutPatch struct {
	ActivityType Optional[string]  `json:"activityType"`
	Duration     Optional[float64] `json:"duration"`
	Distance     Optional[float64] `json:"distance"`
	Calories     Optional[float64] `json:"calories"`
	Date         Optional[string]  `json:"date"`
	Notes        Optional[string]  `json:"notes"`
	Version      *int              `json:"version"`
}

// workoutDraft is the merged record that gets validated before persisting.
type workoutDraft struct {
	ActivityType *string  `json:"activityType" validate:"required,activity"`
	Duration     *float64 `json:"duration" validate:"required,gt=0"`
	Distance     *float64 `json:"distance" validate:"omitempty,gte=0"`
	Calories     *float64 `json:"calories" validate:"required,gt=0"`
	Date         *string  `json:"date" validate:"required"`
	Notes        *string  `json:"notes" validate:"omitempty,max=2000"`
}

// check validates the draft and returns the parsed calendar date.
func (d workoutDraft) check() (time.Time, error) {
	invalid := map[string]string{}
	if err := validation.Struct(d); err != nil {
		for k, v := range validation.ToDetails(err) {
			invalid[k] = v
		}
	}
	var date time.Time
	if d.Date != nil {
		parsed, err := ParseDate(*d.Date)
		if err != nil {
			invalid["date"] = "must be a valid date (YYYY-MM-DD or RFC3339)"
		}
		date = parsed
	}
	if len(invalid) > 0 {
		return time.Time{}, &ValidationError{Fields: invalid}
	}
	return date, nil
}

func (d workoutDraft) apply(w *entity.Workout, date time.Time) {
	w.ActivityType = entity.ActivityType(*d.ActivityType)
	w.Duration = *d.Duration
	w.Distance = d.Distance
	w.Calories = *d.Calories
	w.Date = date
	w.Notes = d.Notes
}

func draftFrom(w *entity.Workout) workoutDraft {
	at := string(w.ActivityType)
	dur, cal := w.Duration, w.Calories
	date := w.Date.Format(dateLayout)
	return workoutDraft{
		ActivityType: &at,
		Duration:     &dur,
		Distance:     w.Distance,
		Calories:     &cal,
		Date:         &date,
		Notes:        w.Notes,
	}
}

func mergeOptional[T any](dst **T, o Optional[T]) {
	if o.Set {
		*dst = o.Value
	}
}

// List returns the caller's workouts matching filter, newest first. It
// never returns another user's records and yields an empty slice on no match.
func (s *WorkoutService) List(ctx context.Context, userID string, filter repo.WorkoutFilter) ([]entity.Workout, error) {
	ws, err := s.Repo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	if ws == nil {
		ws = []entity.Workout{}
	}
	return ws, nil
}

// Get returns one workout owned by the caller.
func (s *WorkoutService) Get(ctx context.Context, userID, id string) (*entity.Workout, error) {
	return s.owned(ctx, userID, id)
}

// Create validates in and stores it for userID.
func (s *WorkoutService) Create(ctx context.Context, userID string, in CreateWorkoutInput) (*entity.Workout, error) {
	d := workoutDraft{
		Duration: in.Duration,
		Distance: in.Distance,
		Calories: in.Calories,
		Notes:    in.Notes,
	}
	if in.ActivityType != "" {
		d.ActivityType = &in.ActivityType
	}
	if in.Date != "" {
		d.Date = &in.Date
	}
	date, err := d.check()
	if err != nil {
		return nil, err
	}

	w := &entity.Workout{UserID: userID}
	d.apply(w, date)
	if err := s.Repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("create workout: %w", err)
	}
	s.Metrics.RecordWorkoutMutation("create")
	s.index(ctx, *w)
	return w, nil
}

// Update applies patch to a workout owned by the caller and re-validates the result.
func (s *WorkoutService) Update(ctx context.Context, userID, id string, patch WorkoutPatch) (*entity.Workout, error) {
	w, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if patch.Version != nil && *patch.Version != w.Version {
		return nil, ErrWorkoutConflict
	}

	d := draftFrom(w)
	mergeOptional(&d.ActivityType, patch.ActivityType)
	mergeOptional(&d.Duration, patch.Duration)
	mergeOptional(&d.Distance, patch.Distance)
	mergeOptional(&d.Calories, patch.Calories)
	mergeOptional(&d.Date, patch.Date)
	mergeOptional(&d.Notes, patch.Notes)
	date, err := d.check()
	if err != nil {
		return nil, err
	}
	d.apply(w, date)

	if err := s.Repo.Update(ctx, w); err != nil {
		switch {
		case errors.Is(err, repo.ErrVersionConflict):
			return nil, ErrWorkoutConflict
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("update workout: %w", err)
	}
	s.Metrics.RecordWorkoutMutation("update")
	s.index(ctx, *w)
	return w, nil
}

// Delete permanently removes a workout owned by the caller.
func (s *WorkoutService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return fmt.Errorf("delete workout: %w", err)
	}
	s.Metrics.RecordWorkoutMutation("delete")
	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			helpers.LogWarn(s.Logger, "remove workout from index failed", err, logrus.Fields{"workout_id": id})
		}
	}
	return nil
}

// Stats lists the caller's workouts with filter and summarises them.
func (s *WorkoutService) Stats(ctx context.Context, userID string, filter repo.WorkoutFilter) (Stats, error) {
	ws, err := s.List(ctx, userID, filter)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(ws), nil
}

// Search runs a full-text query over the caller's workouts. Hits are
// re-read from the store and anything not owned by the caller is dropped.
func (s *WorkoutService) Search(ctx context.Context, userID, query string) ([]entity.Workout, error) {
	out := []entity.Workout{}
	if s.Index == nil {
		return out, nil
	}
	ids, err := s.Index.Search(ctx, userID, query, defaultSearchSize)
	if err != nil {
		return nil, fmt.Errorf("search workouts: %w", err)
	}
	for _, id := range ids {
		w, err := s.Repo.GetByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load workout %s: %w", id, err)
		}
		if w.UserID != userID {
			continue
		}
		out = append(out, *w)
	}
	return out, nil
}

// owned loads id and checks it belongs to userID.
func (s *WorkoutService) owned(ctx context.Context, userID, id string) (*entity.Workout, error) {
	w, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load workout: %w", err)
	}
	if w.UserID != userID {
		helpers.LogWarn(s.Logger, "workout access denied", nil, logrus.Fields{"workout_id": id, "user_id": userID})
		return nil, ErrForbidden
	}
	return w, nil
}

func (s *WorkoutService) index(ctx context.Context, w entity.Workout) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, w); err != nil {
		helpers.LogWarn(s.Logger, "index workout failed", err, logrus.Fields{"workout_id": w.ID})
	}
}
