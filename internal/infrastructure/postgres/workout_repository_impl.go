package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/fitlife-api/internal/domain/entity"
	"github.com/oksasatya/fitlife-api/internal/domain/repository"
)

type WorkoutRepository struct {
	pool *pgxpool.Pool
}

func NewWorkoutRepository(pool *pgxpool.Pool) *WorkoutRepository {
	return &WorkoutRepository{pool: pool}
}

const workoutColumns = `id, user_id, activity_type, duration, distance, calories, workout_date, notes, version, created_at, updated_at`

func (r *WorkoutRepository) Create(ctx context.Context, w *entity.Workout) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO workouts (user_id, activity_type, duration, distance, calories, workout_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, version, created_at, updated_at
	`, w.UserID, string(w.ActivityType), w.Duration, w.Distance, w.Calories, w.Date, w.Notes)

	return row.Scan(&w.ID, &w.Version, &w.CreatedAt, &w.UpdatedAt)
}

func (r *WorkoutRepository) GetByID(ctx context.Context, id string) (*entity.Workout, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id = $1`, id)
	w, err := scanWorkout(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

// ListByUser builds the WHERE clause from the set filter fields. The owner
// predicate is always first and never optional.
func (r *WorkoutRepository) ListByUser(ctx context.Context, userID string, filter repository.WorkoutFilter) ([]entity.Workout, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return []entity.Workout{}, nil
	}

	conds := []string{"user_id = $1"}
	args := []any{userID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}

	if filter.ActivityType != nil {
		add("activity_type = ?", string(*filter.ActivityType))
	}
	if filter.MinDuration != nil {
		add("duration >= ?", *filter.MinDuration)
	}
	if filter.MaxDuration != nil {
		add("duration <= ?", *filter.MaxDuration)
	}
	if filter.StartDate != nil {
		add("workout_date >= ?", entity.CalendarDate(*filter.StartDate))
	}
	if filter.EndDate != nil {
		add("workout_date <= ?", entity.CalendarDate(*filter.EndDate))
	}

	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY workout_date DESC, seq ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Workout, 0)
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *WorkoutRepository) Update(ctx context.Context, w *entity.Workout) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE workouts
		SET activity_type = $1, duration = $2, distance = $3, calories = $4,
		    workout_date = $5, notes = $6, version = version + 1, updated_at = $7
		WHERE id = $8 AND version = $9
		RETURNING version, updated_at
	`, string(w.ActivityType), w.Duration, w.Distance, w.Calories, w.Date, w.Notes,
		time.Now().UTC(), w.ID, w.Version)

	if err := row.Scan(&w.Version, &w.UpdatedAt); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		// Either the row is gone or someone bumped the version first.
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM workouts WHERE id = $1)`, w.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrVersionConflict
	}
	return nil
}

func (r *WorkoutRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanWorkout(row pgx.Row) (*entity.Workout, error) {
	var (
		w            entity.Workout
		activityType string
	)
	if err := row.Scan(&w.ID, &w.UserID, &activityType, &w.Duration, &w.Distance, &w.Calories,
		&w.Date, &w.Notes, &w.Version, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	w.ActivityType = entity.ActivityType(activityType)
	w.Date = entity.CalendarDate(w.Date)
	return &w, nil
}

var _ repository.WorkoutRepository = (*WorkoutRepository)(nil)
