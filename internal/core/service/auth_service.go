package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/affirmly/affirmation-api/internal/api/metrics"
	"github.com/affirmly/affirmation-api/internal/core/domain"
	"github.com/affirmly/affirmation-api/internal/core/ports"
)

// IDSequence hands out numeric user ids (Redis INCR).
type IDSequence interface {
	Next(ctx context.Context) (int64, error)
}

// LoginLimiter tracks failed logins per username (Redis).
type LoginLimiter interface {
	Blocked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AuthService implements the credential store operations.
type AuthService struct {
	repo      ports.UserRepository
	ids       IDSequence
	limiter   LoginLimiter
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	ids IDSequence,
	limiter LoginLimiter,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		ids:       ids,
		limiter:   limiter,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

func (s *AuthService) Create(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	// Fail fast on a taken name so we don't burn an id.
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id, err := s.ids.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate user id: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		ID:           id,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	metrics.AccountsCreatedTotal.Inc()
	s.log.Info().Str("username", username).Int64("user_id", created.ID).Msg("account created")
	return created, nil
}

// CheckPassword reports whether password matches the stored hash.
// It returns domain.ErrUserNotFound when the username is unknown.
func (s *AuthService) CheckPassword(ctx context.Context, username, password string) (bool, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	blocked, err := s.limiter.Blocked(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("login limiter check failed, continuing")
	} else if blocked {
		metrics.LoginAttemptsTotal.WithLabelValues("locked").Inc()
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("not_found").Inc()
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		if err := s.limiter.RecordFailure(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
		}
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login failures")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return token, user, nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, username string, userID int64, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidCredentials
	}
	if err := s.owned(ctx, username, userID); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePasswordHash(ctx, username, string(hash), time.Now().UTC()); err != nil {
		return err
	}

	s.log.Info().Str("username", username).Int64("user_id", userID).Msg("password updated")
	return nil
}

func (s *AuthService) LookupID(ctx context.Context, username string) (int64, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

func (s *AuthService) Delete(ctx context.Context, username string, userID int64) error {
	if err := s.owned(ctx, username, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, username); err != nil {
		return err
	}
	s.log.Info().Str("username", username).Int64("user_id", userID).Msg("account deleted")
	return nil
}

// owned loads username and rejects the call when the account now belongs to
// a different id, e.g. a token issued before the name was deleted and re-registered.
func (s *AuthService) owned(ctx context.Context, username string, userID int64) error {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user.ID != userID {
		s.log.Warn().Str("username", username).Int64("token_user_id", userID).Int64("user_id", user.ID).
			Msg("token does not match account owner")
		return domain.ErrInvalidCredentials
	}
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
