package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/fitlife-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned by every repository when the record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned by UserRepository.Create when the email is taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrVersionConflict is returned when a conditional update lost a race.
	ErrVersionConflict = errors.New("version conflict")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}
