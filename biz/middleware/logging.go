package middleware

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/yi-nology/asset_tracker/pkg/common"
)

// Logging returns a middleware that logs request and response information.
func Logging() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		c.Next(ctx)
		latency := time.Since(start)

		user, ok := common.GetUsername(ctx)
		if !ok {
			user = "-"
		}
		hlog.CtxInfof(ctx, "[%s] %s %s %s %d %v",
			c.ClientIP(),
			user,
			c.Request.Method(),
			c.Request.URI().Path(),
			c.Response.StatusCode(),
			latency,
		)
	}
}
