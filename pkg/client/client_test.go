package client_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/yi-nology/asset_tracker/biz/dal/db"
	"github.com/yi-nology/asset_tracker/biz/handler"
	"github.com/yi-nology/asset_tracker/biz/middleware"
	"github.com/yi-nology/asset_tracker/biz/model/api"
	"github.com/yi-nology/asset_tracker/biz/router"
	"github.com/yi-nology/asset_tracker/biz/service"
	"github.com/yi-nology/asset_tracker/pkg/auth"
	"github.com/yi-nology/asset_tracker/pkg/client"
	"github.com/yi-nology/asset_tracker/pkg/constants"
)

func newTestClient(t *testing.T, enforce bool) *client.Client {
	t.Helper()
	conn := db.SetupTestDB(t)
	t.Cleanup(func() { db.CleanupTestDB(t, conn) })

	issuer := auth.NewTokenIssuer("secret", time.Hour)
	engine := route.NewEngine(config.NewOptions(nil))
	engine.Use(middleware.Auth(issuer))

	opts := router.AssetRouteOptions{}
	if enforce {
		opts.Guard = []app.HandlerFunc{middleware.RequireAuth()}
	}
	router.RegisterAssetRoutes(engine, handler.NewAssetHandler(service.NewService(conn, nil), 0), opts)
	router.RegisterAuthRoutes(engine, handler.NewAuthHandler(auth.NewStaticVerifier("admin", "pass", ""), issuer))
	return client.New("http://assets.local", client.EngineDoer{Engine: engine})
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestClient(t, false)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	qty := 2
	created, err := c.CreateAsset(ctx, &api.CreateAssetRequest{Name: "Tablet", Category: "IT", Quantity: &qty})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	listing, err := c.ListAssets(ctx, "")
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(listing.Assets) != 1 || listing.Revision == 0 {
		t.Fatalf("unexpected listing %+v", listing)
	}

	cached, err := c.ListAssets(ctx, listing.ETag())
	if err != nil {
		t.Fatalf("ListAssets with etag: %v", err)
	}
	if !cached.NotModified || cached.Revision != listing.Revision {
		t.Fatalf("expected not modified at revision %d, got %+v", listing.Revision, cached)
	}

	updated, err := c.UpdateAsset(ctx, created.ID, api.Transition{Status: constants.StatusAssigned, AssignedTo: "Ana"})
	if err != nil {
		t.Fatalf("UpdateAsset: %v", err)
	}
	if updated.AssignedTo != "Ana" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	if err := c.DeleteAsset(ctx, created.ID); err != nil {
		t.Fatalf("DeleteAsset: %v", err)
	}
	if _, err := c.GetAsset(ctx, created.ID); !errors.Is(err, client.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = c.UpdateAsset(ctx, created.ID, api.DetailEdit{})
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 400 {
		t.Fatalf("expected 400 APIError, got %v", err)
	}
}

func TestClientVerifier(t *testing.T) {
	c := newTestClient(t, true)
	ctx := context.Background()

	if _, err := c.ListAssets(ctx, ""); !errors.Is(err, client.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized before login, got %v", err)
	}

	var verifier auth.Verifier = c
	if _, err := verifier.Verify(ctx, auth.Credentials{Username: "admin", Password: "bad"}); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	identity, err := verifier.Verify(ctx, auth.Credentials{Username: "admin", Password: "pass"})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.Username != "admin" || identity.Token == "" {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if _, err := c.ListAssets(ctx, ""); err != nil {
		t.Fatalf("ListAssets after login: %v", err)
	}
}

func TestClientImportCSV(t *testing.T) {
	c := newTestClient(t, false)
	csv := "Item name,Cost,Qty\nHeadset,49.90,3\nBroken,1,0\n"
	summary, err := c.ImportCSV(context.Background(), "items.csv", []byte(csv))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if summary.Shape != "item" || summary.Imported != 1 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

type ctxKey struct{}

func TestEngineDoerPassesContext(t *testing.T) {
	engine := route.NewEngine(config.NewOptions(nil))
	engine.GET("/echo", func(ctx context.Context, c *app.RequestContext) {
		v, _ := ctx.Value(ctxKey{}).(string)
		c.String(200, v)
	})
	engine.GET("/slow", func(ctx context.Context, c *app.RequestContext) {
		<-ctx.Done()
		c.String(503, "gone")
	})
	doer := client.EngineDoer{Engine: engine}

	t.Run("value", func(t *testing.T) {
		req := protocol.NewRequest("GET", "http://assets.local/echo", nil)
		var resp protocol.Response
		ctx := context.WithValue(context.Background(), ctxKey{}, "req-7")
		if err := doer.Do(ctx, req, &resp); err != nil {
			t.Fatalf("Do: %v", err)
		}
		if got := string(resp.Body()); got != "req-7" {
			t.Fatalf("expected handler to see req-7, got %q", got)
		}
	})

	t.Run("deadline", func(t *testing.T) {
		req := protocol.NewRequest("GET", "http://assets.local/slow", nil)
		var resp protocol.Response
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if err := doer.Do(ctx, req, &resp); !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
	})
}
