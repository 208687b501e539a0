package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/asset_tracker/pkg/common"
)

// Locker is a cross-process exclusive lock.
type Locker interface {
	Acquire(ctx context.Context) (string, error)
	Release(ctx context.Context, lockID string) error
}

// WriteLockMw returns the middleware that serializes mutations through l.
// A nil l (Redis disabled) yields no middleware so requests pass through
// without any locking overhead.
func WriteLockMw(l Locker) []app.HandlerFunc {
	if l == nil {
		return nil
	}
	return []app.HandlerFunc{writeLockHandler(l)}
}

func writeLockHandler(l Locker) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		lockID, err := l.Acquire(ctx)
		if err != nil {
			hlog.CtxWarnf(ctx, "[WriteLock] failed to acquire lock: %v", err)
			c.AbortWithStatusJSON(consts.StatusServiceUnavailable, common.CommonResponse{
				Code:  consts.StatusServiceUnavailable,
				Msg:   "service busy, please retry later",
				Error: err.Error(),
			})
			return
		}
		defer func() {
			if releaseErr := l.Release(ctx, lockID); releaseErr != nil {
				hlog.CtxWarnf(ctx, "[WriteLock] failed to release lock: %v", releaseErr)
			}
		}()
		c.Next(ctx)
	}
}
