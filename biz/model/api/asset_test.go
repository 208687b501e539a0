package api

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestAssetIDAcceptsNumberAndString(t *testing.T) {
	for _, body := range []string{`{"id":42}`, `{"id":"42"}`, `{"id":" 42 "}`} {
		var req DeleteAssetRequest
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			t.Fatalf("unmarshal %s: %v", body, err)
		}
		if req.ID != 42 {
			t.Fatalf("unmarshal %s: expected id 42, got %d", body, req.ID)
		}
	}

	for _, body := range []string{`{"id":"abc"}`, `{"id":0}`, `{"id":-1}`} {
		var req DeleteAssetRequest
		err := json.Unmarshal([]byte(body), &req)
		if !errors.Is(err, ErrInvalidAssetID) {
			t.Fatalf("unmarshal %s: expected ErrInvalidAssetID, got %v", body, err)
		}
	}
}

func TestUpdateRequestChange(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		check   func(t *testing.T, change AssetChange)
	}{
		{
			name: "tagged transition",
			body: `{"id":1,"transition":{"status":"assigned","assignedTo":"J. Doe"}}`,
			check: func(t *testing.T, change AssetChange) {
				tr, ok := change.(Transition)
				if !ok || tr.Status != "assigned" || tr.AssignedTo != "J. Doe" {
					t.Fatalf("unexpected change %#v", change)
				}
			},
		},
		{
			name: "tagged details",
			body: `{"id":1,"details":{"name":"Laptop B","quantity":3}}`,
			check: func(t *testing.T, change AssetChange) {
				d, ok := change.(DetailEdit)
				if !ok || d.Name == nil || *d.Name != "Laptop B" || d.Quantity == nil || *d.Quantity != 3 {
					t.Fatalf("unexpected change %#v", change)
				}
				if d.Price != nil || d.Location != nil {
					t.Fatalf("absent fields must stay nil: %#v", d)
				}
			},
		},
		{
			name: "flat transition with empty holder",
			body: `{"id":"7","status":"available","assignedTo":""}`,
			check: func(t *testing.T, change AssetChange) {
				tr, ok := change.(Transition)
				if !ok || tr.Status != "available" || tr.AssignedTo != "" {
					t.Fatalf("unexpected change %#v", change)
				}
			},
		},
		{
			name: "flat status without holder is a detail edit",
			body: `{"id":7,"status":"assigned","name":"Renamed"}`,
			check: func(t *testing.T, change AssetChange) {
				d, ok := change.(DetailEdit)
				if !ok || d.Name == nil || *d.Name != "Renamed" {
					t.Fatalf("unexpected change %#v", change)
				}
			},
		},
		{
			name: "flat price",
			body: `{"id":7,"price":"12.50"}`,
			check: func(t *testing.T, change AssetChange) {
				d, ok := change.(DetailEdit)
				if !ok || d.Price == nil || d.Price.String() != "12.5" {
					t.Fatalf("unexpected change %#v", change)
				}
			},
		},
		{
			name:    "both variants",
			body:    `{"id":1,"transition":{"status":"available","assignedTo":""},"details":{"name":"x"}}`,
			wantErr: ErrAmbiguousUpdate,
		},
		{
			name:    "variant mixed with flat fields",
			body:    `{"id":1,"details":{"name":"x"},"status":"available","assignedTo":""}`,
			wantErr: ErrAmbiguousUpdate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateAssetRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			change, err := req.Change()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Change: %v", err)
			}
			tt.check(t, change)
		})
	}
}

func TestDetailEditEmpty(t *testing.T) {
	if !(DetailEdit{}).Empty() {
		t.Fatalf("zero DetailEdit should be empty")
	}
	name := "x"
	if (DetailEdit{Name: &name}).Empty() {
		t.Fatalf("DetailEdit with a name should not be empty")
	}
}

func TestRevisionETag(t *testing.T) {
	listing := &AssetListing{Revision: 12}
	if got := listing.ETag(); got != `W/"assets-12"` {
		t.Fatalf("unexpected etag %s", got)
	}
}
