package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/signup/internal/model"
)

// LinkNotifier hands a freshly issued activation link to whoever delivers it.
type LinkNotifier interface {
	Notify(ctx context.Context, user *model.User, link string) error
}

type logNotifier struct{}

// NewLogNotifier returns a notifier that only writes the link to the log.
func NewLogNotifier() LinkNotifier {
	return logNotifier{}
}

func (logNotifier) Notify(ctx context.Context, user *model.User, link string) error {
	logutil.GetLogger(ctx).Info("activation link issued",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("link", link),
	)
	return nil
}
