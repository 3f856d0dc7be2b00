package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/fitlife-api/internal/domain/entity"
	"github.com/oksasatya/fitlife-api/internal/domain/repository"
)

type storedWorkout struct {
	seq     int64
	workout entity.Workout
}

// WorkoutRepository stores workouts in memory.
type WorkoutRepository struct {
	mu       sync.RWMutex
	seq      int64
	workouts map[string]storedWorkout
}

func NewWorkoutRepository() *WorkoutRepository {
	return &WorkoutRepository{workouts: make(map[string]storedWorkout)}
}

func (r *WorkoutRepository) Create(_ context.Context, w *entity.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	w.ID = uuid.NewString()
	w.Version = 1
	w.CreatedAt = now
	w.UpdatedAt = now
	r.seq++
	r.workouts[w.ID] = storedWorkout{seq: r.seq, workout: cloneWorkout(*w)}
	return nil
}

func (r *WorkoutRepository) GetByID(_ context.Context, id string) (*entity.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	w := cloneWorkout(s.workout)
	return &w, nil
}

func (r *WorkoutRepository) ListByUser(_ context.Context, userID string, filter repository.WorkoutFilter) ([]entity.Workout, error) {
	r.mu.RLock()
	matched := make([]storedWorkout, 0)
	for _, s := range r.workouts {
		if s.workout.UserID != userID || !filter.Matches(s.workout) {
			continue
		}
		matched = append(matched, s)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		di, dj := matched[i].workout.Date, matched[j].workout.Date
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return matched[i].seq < matched[j].seq
	})

	out := make([]entity.Workout, 0, len(matched))
	for _, s := range matched {
		out = append(out, cloneWorkout(s.workout))
	}
	return out, nil
}

func (r *WorkoutRepository) Update(_ context.Context, w *entity.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.workouts[w.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if s.workout.Version != w.Version {
		return repository.ErrVersionConflict
	}
	w.Version++
	w.UpdatedAt = time.Now().UTC()
	w.CreatedAt = s.workout.CreatedAt
	w.UserID = s.workout.UserID
	s.workout = cloneWorkout(*w)
	r.workouts[w.ID] = s
	return nil
}

func (r *WorkoutRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.workouts, id)
	return nil
}

// cloneWorkout copies pointer fields so callers never share state with the store.
func cloneWorkout(w entity.Workout) entity.Workout {
	if w.Distance != nil {
		d := *w.Distance
		w.Distance = &d
	}
	if w.Notes != nil {
		n := *w.Notes
		w.Notes = &n
	}
	return w
}

var _ repository.WorkoutRepository = (*WorkoutRepository)(nil)
