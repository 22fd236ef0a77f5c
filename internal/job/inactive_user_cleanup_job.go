package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type inactiveUserDeleter interface {
	DeleteInactiveBefore(ctx context.Context, cutoff int64) (int64, error)
}

// InactiveUserCleanupJob drops accounts whose activation window has long
// passed without the link being followed.
type InactiveUserCleanupJob struct {
	users  inactiveUserDeleter
	maxAge time.Duration
	now    func() time.Time
}

func NewInactiveUserCleanupJob(users inactiveUserDeleter, maxAge time.Duration) *InactiveUserCleanupJob {
	return &InactiveUserCleanupJob{users: users, maxAge: maxAge, now: time.Now}
}

func (j *InactiveUserCleanupJob) Name() string {
	return "inactive_user_cleanup"
}

func (j *InactiveUserCleanupJob) Run(ctx context.Context) error {
	if j.users == nil {
		return nil
	}
	maxAge := j.maxAge
	if maxAge <= 0 {
		maxAge = 72 * time.Hour
	}
	cutoff := j.now().Add(-maxAge).Unix()
	deleted, err := j.users.DeleteInactiveBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logutil.GetLogger(ctx).Info("inactive users removed", zap.Int64("count", deleted), zap.Int64("cutoff", cutoff))
	}
	return nil
}
