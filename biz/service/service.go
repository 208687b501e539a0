package service

import (
	"time"

	"github.com/yi-nology/asset_tracker/biz/dal/model"
	"github.com/yi-nology/asset_tracker/biz/model/api"
	"github.com/yi-nology/asset_tracker/pkg/storage"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service orchestrates asset operations using Logic.
type Service struct {
	logic   *Logic
	storage storage.Storage
	now     func() time.Time
}

// NewService wires the service. store may be nil, in which case import
// sources are not archived.
func NewService(db *gorm.DB, store storage.Storage) *Service {
	return &Service{
		logic:   NewLogic(db),
		storage: store,
		now:     time.Now,
	}
}

// --------------------- Model conversion helpers ---------------------

func modelAssetToAPI(asset *model.Asset) *api.Asset {
	if asset == nil {
		return nil
	}
	out := &api.Asset{
		ID:           asset.ID,
		Name:         asset.Name,
		Category:     asset.Category,
		SerialNumber: asset.SerialNumber,
		Status:       asset.Status,
		AssignedTo:   asset.AssignedTo,
		Price:        asset.Price,
		Location:     asset.Location,
		Quantity:     asset.Quantity,
		Kind:         asset.Kind,
	}
	if asset.PurchaseDate != nil {
		out.PurchaseDate = time.Time(*asset.PurchaseDate).Format(api.DateLayout)
	}
	return out
}

func assetSliceToAPI(assets []model.Asset) []*api.Asset {
	out := make([]*api.Asset, 0, len(assets))
	for i := range assets {
		out = append(out, modelAssetToAPI(&assets[i]))
	}
	return out
}

func parsePurchaseDate(raw string) (*datatypes.Date, error) {
	if raw == "" {
		return nil, nil
	}
	// Older clients send full ISO timestamps.
	if len(raw) > len(api.DateLayout) {
		raw = raw[:len(api.DateLayout)]
	}
	t, err := time.Parse(api.DateLayout, raw)
	if err != nil {
		return nil, err
	}
	d := datatypes.Date(t)
	return &d, nil
}
