// Package lifecycle is the client-side controller behind the operator UI:
// the login gate, check-out and check-in, detail edits and bulk import, each
// followed by a refresh of the asset cache.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/yi-nology/asset_tracker/biz/model/api"
	"github.com/yi-nology/asset_tracker/biz/service/importer"
	"github.com/yi-nology/asset_tracker/pkg/assetcache"
	"github.com/yi-nology/asset_tracker/pkg/auth"
	"github.com/yi-nology/asset_tracker/pkg/constants"
)

var (
	ErrNotLoggedIn    = errors.New("login required")
	ErrUnknownAsset   = errors.New("asset not in list")
	ErrNotAvailable   = errors.New("asset is not available")
	ErrNotAssigned    = errors.New("asset is not checked out")
	ErrHolderRequired = errors.New("holder name is required")
	ErrCancelled      = errors.New("cancelled by operator")
)

// Store is the asset store as seen from the client.
type Store interface {
	assetcache.Lister
	CreateAsset(ctx context.Context, req *api.CreateAssetRequest) (*api.Asset, error)
	UpdateAsset(ctx context.Context, id uint, change api.AssetChange) (*api.Asset, error)
	DeleteAsset(ctx context.Context, id uint) error
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) (bool, error)

func (f ConfirmFunc) Confirm(prompt string) (bool, error) { return f(prompt) }

// Controller owns one operator session.
type Controller struct {
	store    Store
	verifier auth.Verifier
	prefs    Preferences
	cache    *assetcache.Cache

	mu       sync.RWMutex
	identity *auth.Identity
}

// New wires a controller. prefs may be nil, in which case the section is
// kept in memory only.
func New(store Store, verifier auth.Verifier, prefs Preferences) *Controller {
	if prefs == nil {
		prefs = &MemoryPreferences{}
	}
	return &Controller{
		store:    store,
		verifier: verifier,
		prefs:    prefs,
		cache:    assetcache.New(store),
	}
}

// Cache exposes the snapshot for list and dashboard views.
func (c *Controller) Cache() *assetcache.Cache { return c.cache }

// Login verifies creds and starts the session. A failed attempt leaves any
// previous session untouched.
func (c *Controller) Login(ctx context.Context, creds auth.Credentials) (*auth.Identity, error) {
	identity, err := c.verifier.Verify(ctx, creds)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.identity = identity
	c.mu.Unlock()
	hlog.CtxInfof(ctx, "session started for %s", identity.Username)
	return identity, nil
}

func (c *Controller) Logout() {
	c.mu.Lock()
	c.identity = nil
	c.mu.Unlock()
	c.cache.Reset()
}

// Identity returns the logged-in operator, or nil.
func (c *Controller) Identity() *auth.Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

func (c *Controller) requireSession() error {
	if c.Identity() == nil {
		return ErrNotLoggedIn
	}
	return nil
}

// Refresh reloads the cache.
func (c *Controller) Refresh(ctx context.Context) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	return c.cache.Refresh(ctx)
}

// afterMutation refetches the list. The cache logs and empties itself on
// failure, so the mutation result still stands.
func (c *Controller) afterMutation(ctx context.Context) {
	_ = c.cache.Refresh(ctx)
}

// lookup finds id in the cache, refreshing once on a miss.
func (c *Controller) lookup(ctx context.Context, id uint) (*api.Asset, error) {
	if a, ok := c.cache.Find(id); ok {
		return a, nil
	}
	if err := c.cache.Refresh(ctx); err != nil {
		return nil, err
	}
	if a, ok := c.cache.Find(id); ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: id %d", ErrUnknownAsset, id)
}

// CheckOut hands an available asset to holder.
func (c *Controller) CheckOut(ctx context.Context, id uint, holder string) (*api.Asset, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	holder = strings.TrimSpace(holder)
	if holder == "" {
		return nil, ErrHolderRequired
	}
	asset, err := c.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.Status != constants.StatusAvailable {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotAvailable, asset.Name, asset.Status)
	}

	updated, err := c.store.UpdateAsset(ctx, id, api.Transition{Status: constants.StatusAssigned, AssignedTo: holder})
	if err != nil {
		return nil, err
	}
	c.afterMutation(ctx)
	return updated, nil
}

// CheckIn returns an assigned asset after the operator confirms.
func (c *Controller) CheckIn(ctx context.Context, id uint, confirm Confirmer) (*api.Asset, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	asset, err := c.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.Status != constants.StatusAssigned {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotAssigned, asset.Name, asset.Status)
	}

	ok, err := confirm.Confirm(fmt.Sprintf("Check in %s from %s?", asset.Name, asset.AssignedTo))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCancelled
	}

	updated, err := c.store.UpdateAsset(ctx, id, api.Transition{Status: constants.StatusAvailable})
	if err != nil {
		return nil, err
	}
	c.afterMutation(ctx)
	return updated, nil
}

// Create adds an asset and refreshes.
func (c *Controller) Create(ctx context.Context, req *api.CreateAssetRequest) (*api.Asset, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	asset, err := c.store.CreateAsset(ctx, req)
	if err != nil {
		return nil, err
	}
	c.afterMutation(ctx)
	return asset, nil
}

// EditDetails changes descriptive fields. Status and holder stay as they are.
func (c *Controller) EditDetails(ctx context.Context, id uint, edit api.DetailEdit) (*api.Asset, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	asset, err := c.store.UpdateAsset(ctx, id, edit)
	if err != nil {
		return nil, err
	}
	c.afterMutation(ctx)
	return asset, nil
}

// Delete removes id and refreshes.
func (c *Controller) Delete(ctx context.Context, id uint) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	if err := c.store.DeleteAsset(ctx, id); err != nil {
		return err
	}
	c.afterMutation(ctx)
	return nil
}

// Import parses data locally and replays each row through create, waiting
// delay between rows. The cache is refreshed once at the end, also when the
// replay was interrupted.
func (c *Controller) Import(ctx context.Context, data []byte, delay time.Duration) (*api.ImportSummary, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	batch, err := importer.Parse(data)
	if err != nil {
		return nil, err
	}
	summary, err := importer.Run(ctx, c.store, batch, delay)
	c.afterMutation(context.WithoutCancel(ctx))
	return summary, err
}

// Section returns the remembered section, defaulting to the dashboard.
func (c *Controller) Section() string {
	section, err := c.prefs.Section()
	if err != nil {
		hlog.Warnf("read preferences: %v", err)
	}
	if !constants.ValidSections[section] {
		return constants.SectionDashboard
	}
	return section
}

// SetSection remembers section across restarts.
func (c *Controller) SetSection(section string) error {
	if !constants.ValidSections[section] {
		return fmt.Errorf("unknown section %q", section)
	}
	return c.prefs.SetSection(section)
}
