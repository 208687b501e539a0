package middleware

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/asset_tracker/pkg/auth"
	"github.com/yi-nology/asset_tracker/pkg/common"
)

// TokenParser resolves a bearer token into an identity.
type TokenParser interface {
	Parse(token string) (*auth.Identity, error)
}

// Auth returns a middleware that extracts the session token and client version
// from the request and adds them to the context. This middleware does NOT
// enforce authentication, it only enriches the context when a valid token is present.
func Auth(tokens TokenParser) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if token := bearerToken(c); token != "" && tokens != nil {
			if id, err := tokens.Parse(token); err == nil {
				ctx = common.ContextWithUsername(ctx, id.Username)
			}
		}

		clientVersion := string(c.GetHeader("X-Client-Version"))
		if clientVersion == "" {
			clientVersion = c.Query("client_version")
		}
		if clientVersion != "" {
			ctx = common.ContextWithClientVersion(ctx, clientVersion)
		}

		c.Next(ctx)
	}
}

// RequireAuth rejects requests that Auth did not resolve to an operator.
func RequireAuth() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if _, ok := common.GetUsername(ctx); !ok {
			c.AbortWithStatusJSON(consts.StatusUnauthorized, common.CommonResponse{
				Code:  consts.StatusUnauthorized,
				Msg:   "authentication required",
				Error: "missing or invalid bearer token",
			})
			return
		}
		c.Next(ctx)
	}
}

func bearerToken(c *app.RequestContext) string {
	header := strings.TrimSpace(string(c.GetHeader("Authorization")))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
