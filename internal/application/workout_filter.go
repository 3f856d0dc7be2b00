package application

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/oksasatya/fitlife-api/internal/domain/entity"
	repo "github.com/oksasatya/fitlife-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

var errNotFinite = errors.New("not a finite number")

// WorkoutQuery carries the raw listing query parameters. Empty means absent.
type WorkoutQuery struct {
	ActivityType string
	MinDuration  string
	MaxDuration  string
	StartDate    string
	EndDate      string
}

// ParseWorkoutFilter turns raw query parameters into a typed filter.
// Every malformed value is reported in a single ValidationError.
func ParseWorkoutFilter(q WorkoutQuery) (repo.WorkoutFilter, error) {
	var (
		f       repo.WorkoutFilter
		invalid = map[string]string{}
	)

	if s := strings.TrimSpace(q.ActivityType); s != "" {
		at := entity.ActivityType(s)
		if !at.Valid() {
			invalid["activityType"] = "must be one of: Running, Cycling, Walking, Gym Workout"
		} else {
			f.ActivityType = &at
		}
	}
	if v, ok, err := parseNumber(q.MinDuration); err != nil {
		invalid["minDuration"] = "must be a number"
	} else if ok {
		f.MinDuration = &v
	}
	if v, ok, err := parseNumber(q.MaxDuration); err != nil {
		invalid["maxDuration"] = "must be a number"
	} else if ok {
		f.MaxDuration = &v
	}
	if s := strings.TrimSpace(q.StartDate); s != "" {
		d, err := ParseDate(s)
		if err != nil {
			invalid["startDate"] = "must be a date (YYYY-MM-DD or RFC3339)"
		} else {
			f.StartDate = &d
		}
	}
	if s := strings.TrimSpace(q.EndDate); s != "" {
		d, err := ParseDate(s)
		if err != nil {
			invalid["endDate"] = "must be a date (YYYY-MM-DD or RFC3339)"
		} else {
			f.EndDate = &d
		}
	}

	if len(invalid) > 0 {
		return repo.WorkoutFilter{}, &ValidationError{Fields: invalid}
	}
	return f, nil
}

func parseNumber(raw string) (float64, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, err
	}
	// ParseFloat accepts NaN and Inf, which no duration bound can mean.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, errNotFinite
	}
	return v, true, nil
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the calendar day at midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return entity.CalendarDate(t), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return entity.CalendarDate(t), nil
}
