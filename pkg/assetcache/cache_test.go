package assetcache

import (
	"context"
	"errors"
	"testing"

	"github.com/yi-nology/asset_tracker/biz/model/api"
)

type fakeLister struct {
	listing *api.AssetListing
	err     error
	etags   []string
}

func (f *fakeLister) ListAssets(_ context.Context, etag string) (*api.AssetListing, error) {
	f.etags = append(f.etags, etag)
	if f.err != nil {
		return nil, f.err
	}
	if etag != "" && etag == f.listing.ETag() {
		return &api.AssetListing{Revision: f.listing.Revision, NotModified: true}, nil
	}
	return f.listing, nil
}

func sampleAssets() []*api.Asset {
	return []*api.Asset{
		{ID: 4, Name: "Projector", Category: "AV", SerialNumber: "PJ-1", Status: "maintenance", Location: "Workshop"},
		{ID: 3, Name: "Laptop B", Category: "IT", SerialNumber: "LT-2", Status: "assigned", AssignedTo: "J. Doe", Location: "Unassigned"},
		{ID: 2, Name: "Laptop A", Category: "IT", SerialNumber: "LT-1", Status: "available", Location: "Room 12B"},
		{ID: 1, Name: "Cables", Category: "General", Status: "available", Location: "Unassigned"},
	}
}

func loaded(t *testing.T) (*Cache, *fakeLister) {
	t.Helper()
	lister := &fakeLister{listing: &api.AssetListing{Assets: sampleAssets(), Revision: 7}}
	c := New(lister)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return c, lister
}

func TestRefreshUsesETag(t *testing.T) {
	c, lister := loaded(t)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}
	if len(lister.etags) != 2 || lister.etags[0] != "" || lister.etags[1] != `W/"assets-7"` {
		t.Fatalf("unexpected etags sent: %q", lister.etags)
	}
	if got := len(c.Assets()); got != 4 {
		t.Fatalf("expected snapshot kept on not-modified, got %d assets", got)
	}
	if c.Revision() != 7 {
		t.Fatalf("expected revision 7, got %d", c.Revision())
	}
}

func TestRefreshFailureEmptiesSnapshot(t *testing.T) {
	c, lister := loaded(t)
	lister.err = errors.New("connection refused")
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if got := len(c.Assets()); got != 0 {
		t.Fatalf("expected empty snapshot after failure, got %d", got)
	}

	lister.err = nil
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh after recovery: %v", err)
	}
	if lister.etags[len(lister.etags)-1] != "" {
		t.Fatal("expected unconditional fetch after failure")
	}
	if got := len(c.Assets()); got != 4 {
		t.Fatalf("expected 4 assets after recovery, got %d", got)
	}
}

func TestSearch(t *testing.T) {
	c, _ := loaded(t)

	cases := []struct {
		term string
		want []uint
	}{
		{term: "room 12", want: []uint{2}},
		{term: "LAPTOP", want: []uint{3, 2}},
		{term: "doe", want: []uint{3}},
		{term: "pj-", want: []uint{4}},
		{term: "  ", want: []uint{4, 3, 2, 1}},
		{term: "nothing", want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.term, func(t *testing.T) {
			got := c.Search(tc.term)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d results, got %d", len(tc.want), len(got))
			}
			for i, a := range got {
				if a.ID != tc.want[i] {
					t.Fatalf("result %d: expected id %d, got %d", i, tc.want[i], a.ID)
				}
			}
		})
	}
}

func TestFilters(t *testing.T) {
	c, _ := loaded(t)

	if got := c.FilterCategory("IT"); len(got) != 2 {
		t.Fatalf("expected 2 IT assets, got %d", len(got))
	}
	if got := c.FilterCategory("it"); len(got) != 0 {
		t.Fatalf("category filter must be exact, got %d", len(got))
	}
	if got := c.FilterTab("checked_out"); len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("unexpected checked_out tab %+v", got)
	}
	if got := c.FilterTab("available"); len(got) != 2 {
		t.Fatalf("expected 2 available, got %d", len(got))
	}
	if got := c.FilterTab("all"); len(got) != 4 {
		t.Fatalf("expected 4 in all tab, got %d", len(got))
	}
}

func TestProjections(t *testing.T) {
	c, _ := loaded(t)

	want := api.Stats{Total: 4, Assigned: 1, Available: 2, Maintenance: 1}
	if got := c.Stats(); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	counts := c.CategoryCounts()
	if len(counts) != 3 || counts[0].Category != "IT" || counts[0].Count != 2 || counts[1].Category != "AV" {
		t.Fatalf("unexpected category counts %+v", counts)
	}

	locs := c.Locations()
	if len(locs) != 3 || locs[0] != "Room 12B" || locs[1] != "Unassigned" || locs[2] != "Workshop" {
		t.Fatalf("unexpected locations %q", locs)
	}
}

func TestSnapshotIsCopied(t *testing.T) {
	c, _ := loaded(t)
	c.Assets()[0].Name = "changed"
	a, ok := c.Find(4)
	if !ok || a.Name != "Projector" {
		t.Fatalf("snapshot was mutated through a projection: %+v", a)
	}
	if _, ok := c.Find(99); ok {
		t.Fatal("expected miss for unknown id")
	}
}
