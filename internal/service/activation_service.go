package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/signup/internal/model"
	appErr "github.com/xxxsen/signup/internal/pkg/errors"
	"github.com/xxxsen/signup/internal/pkg/jwt"
	"github.com/xxxsen/signup/internal/pkg/timeutil"
	"github.com/xxxsen/signup/internal/pkg/urls"
)

const RouteActivate = "activate"

type ActivationService struct {
	users   UserStore
	secret  []byte
	ttl     time.Duration
	routes  *urls.Registry
	baseURL string
}

func NewActivationService(users UserStore, secret []byte, ttl time.Duration, routes *urls.Registry, baseURL string) *ActivationService {
	return &ActivationService{users: users, secret: secret, ttl: ttl, routes: routes, baseURL: baseURL}
}

// EncodeID returns the url-safe form of a user id used in activation links.
func EncodeID(userID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(userID))
}

// DecodeID reverses EncodeID. Anything that is not a canonical user id is
// rejected here so it never reaches storage.
func DecodeID(encoded string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil || len(raw) == 0 {
		return "", appErr.ErrInvalid
	}
	id, err := uuid.Parse(string(raw))
	if err != nil || id.String() != string(raw) {
		return "", appErr.ErrInvalid
	}
	return string(raw), nil
}

// fingerprint changes whenever the account is activated or its password
// or mtime changes, which invalidates previously issued links.
func fingerprint(user *model.User) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%d", user.ID, user.PasswordHash, user.Active, user.Mtime)))
	return hex.EncodeToString(sum[:])
}

func (s *ActivationService) IssueToken(user *model.User) (string, error) {
	return jwt.GenerateToken(user.ID, jwt.PurposeActivate, fingerprint(user), s.secret, s.ttl)
}

// IssueLink builds the absolute activation url for user.
func (s *ActivationService) IssueLink(user *model.User) (string, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return "", err
	}
	path, err := s.routes.Reverse(RouteActivate, EncodeID(user.ID), token)
	if err != nil {
		return "", err
	}
	return urls.Join(s.baseURL, path), nil
}

// Verify decodes the identifier, checks the token against the account and
// activates it. Links that fail any check yield false with a nil error;
// only storage failures are returned as errors.
func (s *ActivationService) Verify(ctx context.Context, encodedID, token string) (bool, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("uidb64", encodedID))
	userID, err := DecodeID(encodedID)
	if err != nil {
		logger.Info("activation rejected", zap.String("reason", "bad identifier"))
		return false, nil
	}
	claims, err := jwt.ParseToken(token, jwt.PurposeActivate, s.secret)
	if err != nil {
		logger.Info("activation rejected", zap.String("reason", "bad token"), zap.Error(err))
		return false, nil
	}
	if claims.UserID != userID {
		logger.Info("activation rejected", zap.String("reason", "identifier mismatch"))
		return false, nil
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if appErr.IsNotFound(err) {
			logger.Info("activation rejected", zap.String("reason", "unknown user"))
			return false, nil
		}
		return false, fmt.Errorf("load user: %w", err)
	}
	if claims.State != fingerprint(user) {
		logger.Info("activation rejected", zap.String("reason", "stale token"), zap.String("user_id", user.ID))
		return false, nil
	}
	if err := s.users.Activate(ctx, user.ID, timeutil.NowUnix()); err != nil {
		if appErr.IsNotFound(err) {
			logger.Info("activation rejected", zap.String("reason", "already active"), zap.String("user_id", user.ID))
			return false, nil
		}
		return false, fmt.Errorf("activate user: %w", err)
	}
	logger.Info("user activated", zap.String("user_id", user.ID))
	return true, nil
}
