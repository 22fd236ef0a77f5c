package service

import (
	"context"

	"github.com/xxxsen/signup/internal/model"
)

// UserStore is the slice of repo.UserRepo the services depend on.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, userID string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Activate(ctx context.Context, userID string, mtime int64) error
	Delete(ctx context.Context, userID string) error
}
