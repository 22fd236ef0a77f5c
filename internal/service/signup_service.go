package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/signup/internal/model"
	"github.com/xxxsen/signup/internal/pkg/password"
	"github.com/xxxsen/signup/internal/pkg/timeutil"
)

type SignUpInput struct {
	Username string
	Email    string
	Password string
}

type SignupService struct {
	users      UserStore
	activation *ActivationService
	notifier   LinkNotifier
}

func NewSignupService(users UserStore, activation *ActivationService, notifier LinkNotifier) *SignupService {
	return &SignupService{users: users, activation: activation, notifier: notifier}
}

// SignUp stores a new inactive account and sends out its activation link.
// Duplicate usernames or emails come back as *errors.ConflictError. When the
// link cannot be delivered the account is removed again so the same
// username and email can be retried.
func (s *SignupService) SignUp(ctx context.Context, in SignUpInput) (*model.User, error) {
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	user := &model.User{
		ID:           newID(),
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Active:       0,
		Ctime:        now,
		Mtime:        now,
	}
	link, err := s.activation.IssueLink(user)
	if err != nil {
		return nil, fmt.Errorf("issue activation link: %w", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.notifier.Notify(ctx, user, link); err != nil {
		if derr := s.users.Delete(ctx, user.ID); derr != nil {
			logutil.GetLogger(ctx).Error("rollback unnotified user failed",
				zap.String("user_id", user.ID), zap.Error(derr))
		}
		return nil, fmt.Errorf("notify activation link: %w", err)
	}
	return user, nil
}
