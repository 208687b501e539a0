// Package api provides API request/response models for the asset store.
package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of purchase dates.
const DateLayout = "2006-01-02"

var (
	ErrInvalidAssetID  = errors.New("id must be a positive integer")
	ErrAmbiguousUpdate = errors.New("update must carry either a transition or details, not both")
)

// Asset is the wire form of a stored asset. Field names follow the
// camelCase convention of the UI; the table uses snake_case columns.
type Asset struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	SerialNumber string          `json:"serialNumber"`
	Status       string          `json:"status"`
	AssignedTo   string          `json:"assignedTo"`
	Price        decimal.Decimal `json:"price"`
	PurchaseDate string          `json:"purchaseDate,omitempty"`
	Location     string          `json:"location"`
	Quantity     int             `json:"quantity"`
	Kind         string          `json:"kind"`
}

// CreateAssetRequest carries the fields accepted by create.
// Status and AssignedTo are decoded for compatibility but never stored.
type CreateAssetRequest struct {
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	SerialNumber string           `json:"serialNumber"`
	Status       string           `json:"status,omitempty"`
	AssignedTo   string           `json:"assignedTo,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	PurchaseDate string           `json:"purchaseDate,omitempty"`
	Location     string           `json:"location,omitempty"`
	Quantity     *int             `json:"quantity,omitempty"`
	Kind         string           `json:"kind,omitempty"`
}

// AssetID accepts a JSON number or a numeric string.
type AssetID uint

func (id *AssetID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*id = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	parsed, err := ParseAssetID(raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseAssetID parses a positive decimal id.
func ParseAssetID(raw string) (AssetID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAssetID, raw)
	}
	return AssetID(n), nil
}

// AssetChange is either a Transition or a DetailEdit.
type AssetChange interface {
	isAssetChange()
}

// Transition writes status and holder together and nothing else.
type Transition struct {
	Status     string `json:"status"`
	AssignedTo string `json:"assignedTo"`
}

// DetailEdit writes the present descriptive fields and never touches
// status or holder.
type DetailEdit struct {
	Name     *string          `json:"name,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Location *string          `json:"location,omitempty"`
	Quantity *int             `json:"quantity,omitempty"`
}

func (Transition) isAssetChange() {}
func (DetailEdit) isAssetChange() {}

// Empty reports whether no field is present.
func (d DetailEdit) Empty() bool {
	return d.Name == nil && d.Price == nil && d.Location == nil && d.Quantity == nil
}

// UpdateAssetRequest is the PUT body. New clients send exactly one of
// Transition or Details; older clients send flat fields.
type UpdateAssetRequest struct {
	ID         AssetID     `json:"id"`
	Transition *Transition `json:"transition,omitempty"`
	Details    *DetailEdit `json:"details,omitempty"`

	Status     *string          `json:"status,omitempty"`
	AssignedTo *string          `json:"assignedTo,omitempty"`
	Name       *string          `json:"name,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	Location   *string          `json:"location,omitempty"`
	Quantity   *int             `json:"quantity,omitempty"`
}

// Change resolves the request into its variant. Flat bodies carrying both
// status and assignedTo (empty string included) are transitions; any other
// flat body is a detail edit.
func (r *UpdateAssetRequest) Change() (AssetChange, error) {
	flat := r.Status != nil || r.AssignedTo != nil || r.Name != nil ||
		r.Price != nil || r.Location != nil || r.Quantity != nil

	switch {
	case r.Transition != nil && r.Details != nil:
		return nil, ErrAmbiguousUpdate
	case (r.Transition != nil || r.Details != nil) && flat:
		return nil, ErrAmbiguousUpdate
	case r.Transition != nil:
		return *r.Transition, nil
	case r.Details != nil:
		return *r.Details, nil
	case r.Status != nil && r.AssignedTo != nil:
		return Transition{Status: *r.Status, AssignedTo: *r.AssignedTo}, nil
	default:
		return DetailEdit{Name: r.Name, Price: r.Price, Location: r.Location, Quantity: r.Quantity}, nil
	}
}

// NewTransitionRequest builds a tagged transition body.
func NewTransitionRequest(id uint, t Transition) *UpdateAssetRequest {
	return &UpdateAssetRequest{ID: AssetID(id), Transition: &t}
}

// NewDetailRequest builds a tagged detail body.
func NewDetailRequest(id uint, d DetailEdit) *UpdateAssetRequest {
	return &UpdateAssetRequest{ID: AssetID(id), Details: &d}
}

// DeleteAssetRequest is the DELETE body.
type DeleteAssetRequest struct {
	ID AssetID `json:"id"`
}

// AssetListing is a full list result together with the record-set revision.
type AssetListing struct {
	Assets      []*Asset
	Revision    int64
	NotModified bool
}

// ETag returns the weak validator for the listing.
func (l *AssetListing) ETag() string {
	return RevisionETag(l.Revision)
}

// RevisionETag formats rev as W/"assets-<rev>".
func RevisionETag(rev int64) string {
	return fmt.Sprintf(`W/"assets-%d"`, rev)
}

// Stats are the dashboard counters.
type Stats struct {
	Total       int `json:"total"`
	Assigned    int `json:"assigned"`
	Available   int `json:"available"`
	Maintenance int `json:"maintenance"`
}

// CategoryCount is one row of the per-category grouping.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
