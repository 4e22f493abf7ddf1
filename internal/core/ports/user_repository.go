package ports

import (
	"context"
	"time"

	"github.com/affirmly/affirmation-api/internal/core/domain"
)

// UserRepository defines credential persistence.
type UserRepository interface {
	// Create stores a new user; returns domain.ErrUserExists on a taken username.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, username, hash string, updatedAt time.Time) error
	Delete(ctx context.Context, username string) error
}
