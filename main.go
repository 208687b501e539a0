package main

import (
	"context"
	"flag"
	"log"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/yi-nology/asset_tracker/biz/bootstrap"
	"github.com/yi-nology/asset_tracker/pkg/config"
)

var configFile = flag.String("config", "config.yaml", "path to the config file")

func main() {
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	hlog.SetLevel(cfg.Log.HlogLevel())

	app, err := bootstrap.New(cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	h := server.New(app.ServerOptions()...)
	app.Register(h.Engine)
	h.OnShutdown = append(h.OnShutdown, func(ctx context.Context) {
		if err := app.Close(); err != nil {
			hlog.Errorf("close: %v", err)
		}
	})

	hlog.Infof("asset store listening on %s (database %s)", cfg.Server.Address, cfg.Database.Driver)
	h.Spin()
}
