package middleware

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/asset_tracker/pkg/config"
)

const (
	corsMethods = "GET,POST,PUT,DELETE,OPTIONS"
	corsHeaders = "Content-Type,Authorization,If-None-Match,X-Client-Version"
)

type corsPolicy struct {
	origins     map[string]bool
	anyOrigin   bool
	methods     string
	headers     string
	credentials bool
}

func newCORSPolicy(cfg *config.CORSConfig) *corsPolicy {
	p := &corsPolicy{anyOrigin: true, methods: corsMethods, headers: corsHeaders}
	if cfg == nil {
		return p
	}
	if cfg.AllowMethods != "" {
		p.methods = cfg.AllowMethods
	}
	if cfg.AllowHeaders != "" {
		p.headers = cfg.AllowHeaders
	}
	p.credentials = cfg.AllowCredentials
	if origin := strings.TrimSpace(cfg.AllowOrigin); origin != "" && origin != "*" {
		p.anyOrigin = false
		p.origins = make(map[string]bool)
		for _, o := range strings.Split(origin, ",") {
			if o = strings.TrimSpace(o); o != "" {
				p.origins[o] = true
			}
		}
	}
	return p
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or ""
// when the origin is not allowed. Credentialed responses never use "*".
func (p *corsPolicy) allowOrigin(origin string) string {
	switch {
	case p.anyOrigin && p.credentials && origin != "":
		return origin
	case p.anyOrigin:
		return "*"
	case p.origins[origin]:
		return origin
	default:
		return ""
	}
}

// CORS answers preflight requests and decorates responses for browser clients.
// AllowOrigin is "*" or a comma separated list of origins.
func CORS(cfg *config.CORSConfig) app.HandlerFunc {
	p := newCORSPolicy(cfg)
	return func(ctx context.Context, c *app.RequestContext) {
		h := &c.Response.Header
		if allowed := p.allowOrigin(string(c.GetHeader("Origin"))); allowed != "" {
			h.Set("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", p.methods)
			h.Set("Access-Control-Allow-Headers", p.headers)
			if p.credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		}
		h.Set("Access-Control-Expose-Headers", "ETag")

		if string(c.Request.Method()) == consts.MethodOptions {
			c.AbortWithStatus(consts.StatusNoContent)
			return
		}
		c.Next(ctx)
	}
}
