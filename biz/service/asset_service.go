package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yi-nology/asset_tracker/biz/dal/model"
	"github.com/yi-nology/asset_tracker/biz/model/api"
	"github.com/yi-nology/asset_tracker/pkg/constants"
	"github.com/yi-nology/asset_tracker/pkg/validator"
)

// --------------------- Asset operations ---------------------

// ListAssets returns every asset newest first. When ifNoneMatch equals the
// current revision ETag the listing is marked NotModified and carries no rows.
func (s *Service) ListAssets(ctx context.Context, ifNoneMatch string) (*api.AssetListing, error) {
	if tag := strings.TrimSpace(ifNoneMatch); tag != "" {
		rev, err := s.logic.Revision(ctx)
		if err != nil {
			return nil, err
		}
		if tag == api.RevisionETag(rev) {
			return &api.AssetListing{Revision: rev, NotModified: true}, nil
		}
	}
	assets, rev, err := s.logic.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	return &api.AssetListing{Assets: assetSliceToAPI(assets), Revision: rev}, nil
}

func (s *Service) GetAsset(ctx context.Context, id uint) (*api.Asset, error) {
	asset, err := s.logic.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	return modelAssetToAPI(asset), nil
}

// CreateAsset stores a new asset. Caller supplied status and holder are
// ignored: new assets are always available and unassigned.
func (s *Service) CreateAsset(ctx context.Context, req *api.CreateAssetRequest) (*api.Asset, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request required", ErrInvalidAsset)
	}

	name := validator.CleanText(req.Name)
	if err := validator.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}

	kind := validator.CleanText(req.Kind)
	if kind == "" {
		kind = constants.KindAsset
	}
	if err := validator.ValidateKind(kind); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}

	quantity := constants.DefaultQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if err := validator.ValidateQuantity(quantity); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}

	location := validator.CleanText(req.Location)
	if location == "" {
		location = constants.DefaultLocation
	}

	price := decimal.Zero
	if req.Price != nil {
		price = *req.Price
	}

	purchaseDate, err := parsePurchaseDate(validator.CleanText(req.PurchaseDate))
	if err != nil {
		return nil, fmt.Errorf("%w: purchaseDate must be YYYY-MM-DD", ErrInvalidAsset)
	}

	asset := &model.Asset{
		Name:         name,
		Category:     validator.CleanText(req.Category),
		SerialNumber: validator.CleanText(req.SerialNumber),
		Status:       constants.StatusAvailable,
		AssignedTo:   "",
		PurchaseDate: purchaseDate,
		Price:        price,
		Location:     location,
		Quantity:     quantity,
		Kind:         kind,
	}
	if err := s.logic.CreateAsset(ctx, asset); err != nil {
		return nil, err
	}
	return modelAssetToAPI(asset), nil
}

// UpdateAsset applies exactly one change variant. Transitions write status
// and holder only; detail edits write the present descriptive fields only.
func (s *Service) UpdateAsset(ctx context.Context, id uint, change api.AssetChange) (*api.Asset, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidAsset)
	}

	var columns map[string]interface{}
	switch c := change.(type) {
	case api.Transition:
		status := validator.CleanText(c.Status)
		holder := validator.CleanText(c.AssignedTo)
		if err := validator.ValidateTransition(status, holder); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTransition, err)
		}
		columns = map[string]interface{}{
			"status":      status,
			"assigned_to": holder,
		}
	case api.DetailEdit:
		if c.Empty() {
			return nil, ErrEmptyUpdate
		}
		columns = make(map[string]interface{}, 4)
		if c.Name != nil {
			name := validator.CleanText(*c.Name)
			if err := validator.ValidateName(name); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
			}
			columns["name"] = name
		}
		if c.Price != nil {
			columns["price"] = *c.Price
		}
		if c.Location != nil {
			location := validator.CleanText(*c.Location)
			if location == "" {
				location = constants.DefaultLocation
			}
			columns["location"] = location
		}
		if c.Quantity != nil {
			if err := validator.ValidateQuantity(*c.Quantity); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
			}
			columns["quantity"] = *c.Quantity
		}
	default:
		return nil, ErrEmptyUpdate
	}

	asset, err := s.logic.UpdateAssetColumns(ctx, id, columns)
	if err != nil {
		return nil, err
	}
	return modelAssetToAPI(asset), nil
}

// DeleteAsset removes id. Missing ids are not an error.
func (s *Service) DeleteAsset(ctx context.Context, id uint) error {
	if id == 0 {
		return fmt.Errorf("%w: id is required", ErrInvalidAsset)
	}
	return s.logic.DeleteAsset(ctx, id)
}
