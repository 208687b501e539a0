// Package bootstrap assembles the asset store from configuration. The
// server binary and the in-process mode of assetctl share it.
package bootstrap

import (
	"errors"
	"fmt"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/route"
	goredis "github.com/redis/go-redis/v9"
	"github.com/yi-nology/asset_tracker/biz/dal/db"
	"github.com/yi-nology/asset_tracker/biz/handler"
	"github.com/yi-nology/asset_tracker/biz/middleware"
	"github.com/yi-nology/asset_tracker/biz/router"
	"github.com/yi-nology/asset_tracker/biz/service"
	"github.com/yi-nology/asset_tracker/pkg/auth"
	appconfig "github.com/yi-nology/asset_tracker/pkg/config"
	"github.com/yi-nology/asset_tracker/pkg/database"
	"github.com/yi-nology/asset_tracker/pkg/redis"
	"github.com/yi-nology/asset_tracker/pkg/storage"
	"gorm.io/gorm"
)

// App holds the wired components of one store instance.
type App struct {
	Config   *appconfig.Config
	DB       *gorm.DB
	Service  *service.Service
	Verifier auth.Verifier
	Tokens   *auth.TokenIssuer

	redis  *goredis.Client
	locker middleware.Locker
}

// New opens the database, applies pending migrations and wires storage,
// the optional write lock and authentication. On failure every connection
// opened so far is closed.
func New(cfg *appconfig.Config) (*App, error) {
	conn, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return newApp(cfg, conn)
}

// newApp finishes wiring on an open connection and owns it from here on.
func newApp(cfg *appconfig.Config, conn *gorm.DB) (*App, error) {
	app := &App{
		Config:   cfg,
		DB:       conn,
		Verifier: auth.NewStaticVerifier(cfg.Auth.Username, cfg.Auth.Password, cfg.Auth.PasswordHash),
		Tokens:   auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL),
	}
	if err := app.init(); err != nil {
		if closeErr := app.Close(); closeErr != nil {
			hlog.Warnf("close after failed init: %v", closeErr)
		}
		return nil, err
	}
	if cfg.Auth.TokenSecret == "" {
		hlog.Warnf("auth.token_secret is empty, session tokens will not survive a restart")
	}
	return app, nil
}

func (a *App) init() error {
	if err := database.Migrate(a.DB, db.AssetMigrations()); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	store, err := storage.New(a.Config.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	a.Service = service.NewService(a.DB, store)

	client, err := redis.NewClient(a.Config.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if client != nil {
		a.redis = client
		a.locker = redis.NewWriteLock(client, a.Config.Redis)
		hlog.Infof("write lock enabled on %s", a.Config.Redis.LockKey)
	}
	return nil
}

// multipartSlack covers multipart boundaries and part headers on top of the
// import file itself.
const multipartSlack = 64 * 1024

// ServerOptions are the hertz options for this instance. The request body
// limit follows import.max_size so uploads reach the import handler.
func (a *App) ServerOptions() []config.Option {
	return []config.Option{
		server.WithHostPorts(a.Config.Server.Address),
		server.WithMaxRequestBodySize(int(a.Config.Import.MaxSize) + multipartSlack),
	}
}

// Register installs middleware and routes on r.
func (a *App) Register(r *route.Engine) {
	r.Use(
		middleware.Recovery(),
		middleware.Logging(),
		middleware.CORS(&a.Config.CORS),
		middleware.Auth(a.Tokens),
	)

	opts := router.AssetRouteOptions{WriteLock: middleware.WriteLockMw(a.locker)}
	if a.Config.Auth.Enforce {
		opts.Guard = append(opts.Guard, middleware.RequireAuth())
	}
	router.RegisterAssetRoutes(r, handler.NewAssetHandler(a.Service, a.Config.Import.MaxSize), opts)
	router.RegisterAuthRoutes(r, handler.NewAuthHandler(a.Verifier, a.Tokens))
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	} else {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
