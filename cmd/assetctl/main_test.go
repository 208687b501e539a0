package main

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	hzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/yi-nology/asset_tracker/biz/dal/db"
	"github.com/yi-nology/asset_tracker/biz/handler"
	"github.com/yi-nology/asset_tracker/biz/router"
	"github.com/yi-nology/asset_tracker/biz/service"
	"github.com/yi-nology/asset_tracker/pkg/auth"
	"github.com/yi-nology/asset_tracker/pkg/client"
	"github.com/yi-nology/asset_tracker/pkg/config"
	"github.com/yi-nology/asset_tracker/pkg/lifecycle"
)

func newConsole(t *testing.T, input string) (*console, *bytes.Buffer) {
	t.Helper()
	t.Setenv("ASSET_PASSWORD", "pass")

	conn := db.SetupTestDB(t)
	t.Cleanup(func() { db.CleanupTestDB(t, conn) })
	engine := route.NewEngine(hzconfig.NewOptions(nil))
	router.RegisterAssetRoutes(engine, handler.NewAssetHandler(service.NewService(conn, nil), 0), router.AssetRouteOptions{})
	router.RegisterAuthRoutes(engine, handler.NewAuthHandler(
		auth.NewStaticVerifier("admin", "pass", ""),
		auth.NewTokenIssuer("secret", time.Hour),
	))

	cfg := &config.Config{}
	cfg.Auth.Username = "admin"
	c := client.New("http://assets.local", client.EngineDoer{Engine: engine})
	out := &bytes.Buffer{}
	return &console{
		cfg:    cfg,
		client: c,
		ctrl:   lifecycle.New(c, c, lifecycle.NewFilePreferences(filepath.Join(t.TempDir(), "prefs.yaml"))),
		in:     bufio.NewReader(strings.NewReader(input)),
		out:    out,
	}, out
}

func runOK(t *testing.T, c *console, args ...string) {
	t.Helper()
	if err := c.run(context.Background(), args[0], args[1:]); err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
}

func TestConsoleLifecycle(t *testing.T) {
	c, out := newConsole(t, "y\n")

	runOK(t, c, "add", "-name", "Laptop A", "-category", "IT", "-price", "1299.00", "-location", "Room 12B")
	runOK(t, c, "checkout", "1", "J.", "Doe")
	if !strings.Contains(out.String(), "Laptop A checked out to J. Doe") {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	runOK(t, c, "list", "checked_out", "room")
	if !strings.Contains(out.String(), "Laptop A") || !strings.Contains(out.String(), "1299.00") {
		t.Fatalf("expected laptop in checked_out list, got %q", out.String())
	}

	runOK(t, c, "checkin", "1")
	out.Reset()
	runOK(t, c, "stats")
	if got := strings.TrimSpace(out.String()); got != "total 1  assigned 0  available 1  maintenance 0" {
		t.Fatalf("unexpected stats %q", got)
	}

	runOK(t, c, "edit", "1", "-qty", "3")
	runOK(t, c, "delete", "1")
	out.Reset()
	runOK(t, c, "categories")
	if out.Len() != 0 {
		t.Fatalf("expected no categories after delete, got %q", out.String())
	}
}

func TestConsoleImportAndSection(t *testing.T) {
	c, out := newConsole(t, "")

	path := filepath.Join(t.TempDir(), "stock.csv")
	data := "Name,Cost,Qty\nToner,$45.50,4\n,1,1\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	runOK(t, c, "import", path)
	if !strings.Contains(out.String(), "item rows: 2 read, 1 imported, 1 skipped, 0 failed") {
		t.Fatalf("unexpected import output %q", out.String())
	}

	out.Reset()
	runOK(t, c, "section")
	if strings.TrimSpace(out.String()) != "dashboard" {
		t.Fatalf("expected default section, got %q", out.String())
	}
	runOK(t, c, "section", "stock")
	out.Reset()
	runOK(t, c, "section")
	if strings.TrimSpace(out.String()) != "stock" {
		t.Fatalf("expected stock section, got %q", out.String())
	}

	if err := c.run(context.Background(), "checkout", nil); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestConsoleContinuesWhenListingFails(t *testing.T) {
	t.Setenv("ASSET_PASSWORD", "pass")

	engine := route.NewEngine(hzconfig.NewOptions(nil))
	router.RegisterAuthRoutes(engine, handler.NewAuthHandler(
		auth.NewStaticVerifier("admin", "pass", ""),
		auth.NewTokenIssuer("secret", time.Hour),
	))
	engine.GET("/api/v1/assets", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusInternalServerError, map[string]any{"code": 500, "msg": "database unavailable"})
	})

	cfg := &config.Config{}
	cfg.Auth.Username = "admin"
	cl := client.New("http://assets.local", client.EngineDoer{Engine: engine})
	out := &bytes.Buffer{}
	c := &console{
		cfg:    cfg,
		client: cl,
		ctrl:   lifecycle.New(cl, cl, &lifecycle.MemoryPreferences{}),
		in:     bufio.NewReader(strings.NewReader("")),
		out:    out,
	}

	runOK(t, c, "stats")
	if got := strings.TrimSpace(out.String()); got != "total 0  assigned 0  available 0  maintenance 0" {
		t.Fatalf("expected empty stats, got %q", got)
	}
	runOK(t, c, "locations")
}
