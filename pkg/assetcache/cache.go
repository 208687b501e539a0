// Package assetcache holds the client-side snapshot of the asset list and
// the read-only projections served from it.
package assetcache

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/yi-nology/asset_tracker/biz/model/api"
	"github.com/yi-nology/asset_tracker/pkg/constants"
)

// Lister fetches the full asset list. etag is sent as If-None-Match.
type Lister interface {
	ListAssets(ctx context.Context, etag string) (*api.AssetListing, error)
}

// Cache is the last full listing fetched from the store. Projections never
// fetch; callers Refresh after each mutation.
type Cache struct {
	lister Lister

	mu       sync.RWMutex
	assets   []*api.Asset
	etag     string
	revision int64
}

func New(lister Lister) *Cache {
	return &Cache{lister: lister}
}

// Refresh re-reads the list, sending the held ETag. A not-modified reply
// keeps the snapshot. On failure the snapshot is emptied and the error is
// returned.
func (c *Cache) Refresh(ctx context.Context) error {
	c.mu.RLock()
	etag := c.etag
	c.mu.RUnlock()

	listing, err := c.lister.ListAssets(ctx, etag)
	if err != nil {
		hlog.CtxWarnf(ctx, "asset list refresh failed, showing empty list: %v", err)
		c.Reset()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if listing.NotModified {
		c.revision = listing.Revision
		return nil
	}
	c.assets = listing.Assets
	c.revision = listing.Revision
	c.etag = listing.ETag()
	return nil
}

// Reset drops the snapshot and its ETag so the next Refresh is unconditional.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.assets = nil
	c.etag = ""
	c.revision = 0
	c.mu.Unlock()
}

// Revision is the record-set revision of the snapshot.
func (c *Cache) Revision() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.revision
}

// Assets returns the snapshot, newest first.
func (c *Cache) Assets() []*api.Asset {
	return c.filter(func(*api.Asset) bool { return true })
}

// Find returns the cached asset with id.
func (c *Cache) Find(id uint) (*api.Asset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.assets {
		if a.ID == id {
			cp := *a
			return &cp, true
		}
	}
	return nil, false
}

// Search matches term case-insensitively against name, serial number,
// holder and location. A blank term matches everything.
func (c *Cache) Search(term string) []*api.Asset {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return c.Assets()
	}
	return c.filter(func(a *api.Asset) bool {
		for _, field := range []string{a.Name, a.SerialNumber, a.AssignedTo, a.Location} {
			if strings.Contains(strings.ToLower(field), term) {
				return true
			}
		}
		return false
	})
}

// FilterCategory returns assets whose category equals category exactly.
func (c *Cache) FilterCategory(category string) []*api.Asset {
	return c.filter(func(a *api.Asset) bool { return a.Category == category })
}

// FilterTab applies a tab of the list view: all, available or checked_out.
// Unknown tabs behave like all.
func (c *Cache) FilterTab(tab string) []*api.Asset {
	status := TabStatus(tab)
	if status == "" {
		return c.Assets()
	}
	return c.filter(func(a *api.Asset) bool { return a.Status == status })
}

// TabStatus maps a tab name to the status it shows; "" means no filter.
func TabStatus(tab string) string {
	switch tab {
	case constants.TabAvailable:
		return constants.StatusAvailable
	case constants.TabCheckedOut:
		return constants.StatusAssigned
	default:
		return ""
	}
}

// Stats counts the snapshot for the dashboard.
func (c *Cache) Stats() api.Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stats := api.Stats{Total: len(c.assets)}
	for _, a := range c.assets {
		switch a.Status {
		case constants.StatusAssigned:
			stats.Assigned++
		case constants.StatusAvailable:
			stats.Available++
		case constants.StatusMaintenance:
			stats.Maintenance++
		}
	}
	return stats
}

// CategoryCounts groups the snapshot by category, largest group first and
// ties by name.
func (c *Cache) CategoryCounts() []api.CategoryCount {
	c.mu.RLock()
	counts := make(map[string]int)
	for _, a := range c.assets {
		counts[a.Category]++
	}
	c.mu.RUnlock()

	list := make([]api.CategoryCount, 0, len(counts))
	for category, n := range counts {
		list = append(list, api.CategoryCount{Category: category, Count: n})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return list[i].Category < list[j].Category
	})
	return list
}

// Locations lists the distinct non-empty locations in sorted order.
func (c *Cache) Locations() []string {
	c.mu.RLock()
	seen := make(map[string]struct{})
	for _, a := range c.assets {
		if a.Location != "" {
			seen[a.Location] = struct{}{}
		}
	}
	c.mu.RUnlock()

	list := make([]string, 0, len(seen))
	for loc := range seen {
		list = append(list, loc)
	}
	sort.Strings(list)
	return list
}

// filter returns copies so callers cannot mutate the snapshot.
func (c *Cache) filter(keep func(*api.Asset) bool) []*api.Asset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*api.Asset, 0, len(c.assets))
	for _, a := range c.assets {
		if keep(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out
}
