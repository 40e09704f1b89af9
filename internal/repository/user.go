package repository

import (
	"context"

	"github.com/osse101/MinionBot_Go/internal/domain"
)

// User defines the interface for user persistence
type User interface {
	// UpsertUser inserts the user or refreshes the username/platform IDs of
	// an existing one. The user's ID must be set.
	UpsertUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByPlatformID(ctx context.Context, platform, platformID string) (*domain.User, error)
	GetUserByPlatformUsername(ctx context.Context, platform, username string) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string) error
}
