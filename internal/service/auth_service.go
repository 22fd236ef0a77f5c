package service

import (
	"context"
	"strings"
	"time"

	"github.com/xxxsen/signup/internal/model"
	appErr "github.com/xxxsen/signup/internal/pkg/errors"
	"github.com/xxxsen/signup/internal/pkg/jwt"
	"github.com/xxxsen/signup/internal/pkg/password"
)

type AuthService struct {
	users     UserStore
	jwtSecret []byte
	jwtTTL    time.Duration
}

func NewAuthService(users UserStore, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{users: users, jwtSecret: secret, jwtTTL: ttl}
}

// Login checks credentials and returns an access token. Accounts that have
// not followed their activation link are refused with ErrForbidden.
func (s *AuthService) Login(ctx context.Context, username, plainPassword string) (*model.User, string, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, "", appErr.ErrUnauthorized
		}
		return nil, "", err
	}
	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		return nil, "", appErr.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, "", appErr.ErrForbidden
	}
	token, err := jwt.GenerateToken(user.ID, jwt.PurposeAccess, "", s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, appErr.ErrUnauthorized
	}
	return s.users.GetByID(ctx, userID)
}
