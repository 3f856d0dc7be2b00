package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/fitlife-api/config"
	"github.com/oksasatya/fitlife-api/internal/domain/entity"
	repo "github.com/oksasatya/fitlife-api/internal/domain/repository"
	"github.com/oksasatya/fitlife-api/pkg/helpers"
	"github.com/oksasatya/fitlife-api/pkg/mailer"
	mailtpl "github.com/oksasatya/fitlife-api/pkg/mailer/templates"
	"github.com/oksasatya/fitlife-api/pkg/validation"
)

// EmailQueue publishes jobs for the email worker. *helpers.RabbitPublisher satisfies it.
type EmailQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

// AvatarStore persists avatar images and returns their public URL. *helpers.GCSUploader satisfies it.
type AvatarStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type UserService struct {
	Repo     repo.UserRepository
	JWT      *helpers.JWTManager
	Redis    *redis.Client
	CacheTTL time.Duration
	Avatars  AvatarStore
	Mail     EmailQueue
	Cfg      *config.Config
	Logger   *logrus.Logger
}

func NewUserService(repo repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *UserService {
	return &UserService{
		Repo:     repo,
		JWT:      jwt,
		Redis:    rdb,
		CacheTTL: cacheTTL,
		Logger:   logger,
	}
}

// WithAvatarStore enables avatar uploads.
func (s *UserService) WithAvatarStore(a AvatarStore) *UserService {
	s.Avatars = a
	return s
}

// WithWelcomeEmails enables the welcome email sent after registration.
func (s *UserService) WithWelcomeEmails(q EmailQueue, cfg *config.Config) *UserService {
	s.Mail = q
	s.Cfg = cfg
	return s
}

type RegisterInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,pwd"`
	DisplayName string `json:"displayName" validate:"max=100"`
}

// AuthResult is returned by Register and Authenticate.
type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// Profile is the public view of a user; it never carries the password hash.
type Profile struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toProfile(u *entity.User) *Profile {
	return &Profile{
		UID:         u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
	}
}

func profileKey(userID string) string {
	return "user:profile:" + userID
}

// Register creates an account and signs the caller in.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := validation.Struct(in); err != nil {
		return nil, &ValidationError{Fields: validation.ToDetails(err)}
	}

	existing, err := s.Repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrUserExists
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{Email: in.Email, Password: hash, DisplayName: in.DisplayName}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	helpers.LogInfo(s.Logger, "user registered", logrus.Fields{"user_id": u.ID})
	s.enqueueWelcome(ctx, u)
	return res, nil
}

// Authenticate checks credentials and issues a fresh token. Unknown email
// and wrong password produce the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *UserService) issue(u *entity.User) (*AuthResult, error) {
	tok, exp, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		helpers.LogError(s.Logger, "generate token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{User: u, Token: tok, ExpiresAt: exp}, nil
}

// VerifyToken resolves a bearer token to the id of an existing user.
func (s *UserService) VerifyToken(ctx context.Context, token string) (string, error) {
	claims, err := s.JWT.ParseToken(token)
	if err != nil {
		return "", ErrUnauthorized
	}
	if _, err := s.Repo.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("load token subject: %w", err)
	}
	return claims.UserID, nil
}

// GetProfile returns the public profile, served from Redis when cached.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if s.Redis != nil {
		var cached Profile
		hit, err := helpers.RedisGetJSON(ctx, s.Redis, profileKey(userID), &cached)
		if err != nil {
			helpers.LogWarn(s.Logger, "profile cache read failed", err, logrus.Fields{"user_id": userID})
		}
		if hit {
			return &cached, nil
		}
	}

	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	p := toProfile(u)
	s.cacheProfile(ctx, p)
	return p, nil
}

type UpdateProfileInput struct {
	DisplayName string `json:"displayName" validate:"max=100"`
}

// UpdateProfile persists a new display name.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*Profile, error) {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := validation.Struct(in); err != nil {
		return nil, &ValidationError{Fields: validation.ToDetails(err)}
	}
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.DisplayName = in.DisplayName
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.invalidateProfile(ctx, userID)
	return toProfile(u), nil
}

// UploadAvatar stores the image and records its public URL on the user.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*Profile, error) {
	if s.Avatars == nil {
		return nil, ErrStorageNotConfigured
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, newValidationError("avatar", "must be an image")
	}
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	url, err := s.Avatars.Upload(ctx, helpers.AvatarObjectPath(userID, filename), contentType, r)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	u.AvatarURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.invalidateProfile(ctx, userID)
	return toProfile(u), nil
}

func (s *UserService) loadUser(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func (s *UserService) cacheProfile(ctx context.Context, p *Profile) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, profileKey(p.UID), p, s.CacheTTL); err != nil {
		helpers.LogWarn(s.Logger, "profile cache write failed", err, logrus.Fields{"user_id": p.UID})
	}
}

func (s *UserService) invalidateProfile(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, profileKey(userID)); err != nil {
		helpers.LogWarn(s.Logger, "profile cache delete failed", err, logrus.Fields{"user_id": userID})
	}
}

// enqueueWelcome never fails registration; publish errors are only logged.
func (s *UserService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Mail == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	data := mailtpl.NewWelcomeData(s.Cfg, u.DisplayName, u.Email, mailtpl.WithTime(time.Now()))
	job := mailer.EmailJob{To: u.Email, Template: mailtpl.Welcome, Data: data}

	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.Mail.PublishJSON(c, job); err != nil {
		helpers.LogWarn(s.Logger, "enqueue welcome email failed", err, logrus.Fields{"user_id": u.ID})
	}
}
