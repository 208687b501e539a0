package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yi-nology/asset_tracker/biz/model/api"
)

type fakeCreator struct {
	failOn map[string]bool
	calls  []string
	cancel context.CancelFunc
}

func (f *fakeCreator) CreateAsset(ctx context.Context, req *api.CreateAssetRequest) (*api.Asset, error) {
	f.calls = append(f.calls, req.Name)
	if f.cancel != nil && len(f.calls) == 1 {
		f.cancel()
	}
	if f.failOn[req.Name] {
		return nil, errors.New("store unavailable")
	}
	return &api.Asset{ID: uint(len(f.calls)), Name: req.Name}, nil
}

func batchOf(names ...string) *Batch {
	b := &Batch{Shape: ShapeGroup, Rows: len(names)}
	for i, name := range names {
		qty := 1
		b.Items = append(b.Items, Row{Line: i + 2, Request: &api.CreateAssetRequest{Name: name, Quantity: &qty}})
	}
	return b
}

func TestRunContinuesAfterFailure(t *testing.T) {
	creator := &fakeCreator{failOn: map[string]bool{"b": true}}
	summary, err := Run(context.Background(), creator, batchOf("a", "b", "c"), 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(creator.calls) != 3 {
		t.Fatalf("expected all rows submitted, got %v", creator.calls)
	}
	if summary.Imported != 2 || summary.Failed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].Row != 3 || summary.Failures[0].Name != "b" {
		t.Fatalf("unexpected failures %+v", summary.Failures)
	}
}

func TestRunWaitsBetweenRows(t *testing.T) {
	creator := &fakeCreator{}
	start := time.Now()
	if _, err := Run(context.Background(), creator, batchOf("a", "b", "c"), 20*time.Millisecond); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("expected at least two delays, took %s", elapsed)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	creator := &fakeCreator{cancel: cancel}

	summary, err := Run(ctx, creator, batchOf("a", "b", "c"), time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if summary.Imported != 1 || len(creator.calls) != 1 {
		t.Fatalf("expected one row before cancellation, got %+v calls=%v", summary, creator.calls)
	}
}
