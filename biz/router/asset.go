package router

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/yi-nology/asset_tracker/biz/handler"
)

// AssetRouteOptions carries the per-route middleware chains.
type AssetRouteOptions struct {
	// Guard runs before every asset route, e.g. RequireAuth.
	Guard []app.HandlerFunc
	// WriteLock runs before mutating routes only.
	WriteLock []app.HandlerFunc
}

// RegisterAssetRoutes configures HTTP routes for the asset store.
func RegisterAssetRoutes(r *route.Engine, h *handler.AssetHandler, opts AssetRouteOptions) {
	if h == nil {
		return
	}

	assets := r.Group("/api/v1/assets", opts.Guard...)
	write := func(fn app.HandlerFunc) []app.HandlerFunc {
		chain := make([]app.HandlerFunc, 0, len(opts.WriteLock)+1)
		chain = append(chain, opts.WriteLock...)
		return append(chain, fn)
	}

	assets.GET("", h.ListAssets)
	assets.POST("", write(h.CreateAsset)...)
	assets.PUT("", write(h.UpdateAsset)...)
	assets.DELETE("", write(h.DeleteAsset)...)
	assets.POST("/import", write(h.ImportAssets)...)
	assets.GET("/:id", h.GetAsset)
	assets.PUT("/:id", write(h.UpdateAsset)...)
	assets.DELETE("/:id", write(h.DeleteAsset)...)

	r.GET("/ping", handler.Ping)
}

// RegisterAuthRoutes configures the login endpoint.
func RegisterAuthRoutes(r *route.Engine, h *handler.AuthHandler) {
	if h == nil {
		return
	}
	r.POST("/api/v1/auth/login", h.Login)
}
