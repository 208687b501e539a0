package service

import (
	"context"
	"errors"

	"github.com/yi-nology/asset_tracker/biz/dal/model"
	"gorm.io/gorm"
)

// --------------------- Asset Operations ---------------------

// ListAssets reads the revision before the rows, so a concurrent write can
// only make the returned rows newer than the revision, never older.
func (l *Logic) ListAssets(ctx context.Context) ([]model.Asset, int64, error) {
	rev, err := l.revisionDAO.Current(ctx, l.db)
	if err != nil {
		return nil, 0, err
	}
	assets, err := l.assetDAO.List(ctx, l.db)
	if err != nil {
		return nil, 0, err
	}
	return assets, rev, nil
}

func (l *Logic) Revision(ctx context.Context) (int64, error) {
	return l.revisionDAO.Current(ctx, l.db)
}

func (l *Logic) GetAsset(ctx context.Context, id uint) (*model.Asset, error) {
	asset, err := l.assetDAO.GetByID(ctx, l.db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssetNotFound
	}
	return asset, err
}

func (l *Logic) CreateAsset(ctx context.Context, asset *model.Asset) error {
	return l.mutate(ctx, func(tx *gorm.DB) (bool, error) {
		if err := l.assetDAO.Create(ctx, tx, asset); err != nil {
			return false, err
		}
		return true, nil
	})
}

// UpdateAssetColumns writes columns on an existing asset and returns the
// stored row afterwards.
func (l *Logic) UpdateAssetColumns(ctx context.Context, id uint, columns map[string]interface{}) (*model.Asset, error) {
	var updated *model.Asset
	err := l.mutate(ctx, func(tx *gorm.DB) (bool, error) {
		exists, err := l.assetDAO.ExistsByID(ctx, tx, id)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, ErrAssetNotFound
		}
		if err := l.assetDAO.UpdateColumns(ctx, tx, id, columns); err != nil {
			return false, err
		}
		asset, err := l.assetDAO.GetByID(ctx, tx, id)
		if err != nil {
			return false, err
		}
		updated = asset
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteAsset leaves the revision untouched when id did not exist.
func (l *Logic) DeleteAsset(ctx context.Context, id uint) error {
	return l.mutate(ctx, func(tx *gorm.DB) (bool, error) {
		removed, err := l.assetDAO.Delete(ctx, tx, id)
		if err != nil {
			return false, err
		}
		return removed > 0, nil
	})
}
