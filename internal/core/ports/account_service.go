package ports

import (
	"context"

	"github.com/affirmly/affirmation-api/internal/core/domain"
)

type AccountService interface {
	Create(ctx context.Context, username, password string) (*domain.User, error)
	CheckPassword(ctx context.Context, username, password string) (bool, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// UpdatePassword and Delete act only when userID still owns username.
	UpdatePassword(ctx context.Context, username string, userID int64, newPassword string) error
	LookupID(ctx context.Context, username string) (int64, error)
	Delete(ctx context.Context, username string, userID int64) error
}
