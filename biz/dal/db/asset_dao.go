package db

import (
	"context"
	"errors"

	"github.com/yi-nology/asset_tracker/biz/dal/model"

	"gorm.io/gorm"
)

// AssetDAO handles CRUD operations for tracked assets.
type AssetDAO struct{}

func NewAssetDAO() *AssetDAO { return &AssetDAO{} }

// Create inserts asset and fills in the generated id.
func (dao *AssetDAO) Create(ctx context.Context, db *gorm.DB, asset *model.Asset) error {
	if asset == nil {
		return errors.New("asset must not be nil")
	}
	asset.ID = 0
	return db.WithContext(ctx).Create(asset).Error
}

// List returns every asset, newest id first.
func (dao *AssetDAO) List(ctx context.Context, db *gorm.DB) ([]model.Asset, error) {
	var assets []model.Asset
	if err := db.WithContext(ctx).Order("id DESC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (dao *AssetDAO) GetByID(ctx context.Context, db *gorm.DB, id uint) (*model.Asset, error) {
	var asset model.Asset
	if err := db.WithContext(ctx).Where("id = ?", id).First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// UpdateColumns writes only the given columns. Callers check existence first;
// MySQL reports zero affected rows when the values are unchanged.
func (dao *AssetDAO) UpdateColumns(ctx context.Context, db *gorm.DB, id uint, columns map[string]interface{}) error {
	if len(columns) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Model(&model.Asset{}).
		Where("id = ?", id).
		UpdateColumns(columns).Error
}

// Delete removes the row and reports how many rows went away.
// Deleting a missing id is not an error.
func (dao *AssetDAO) Delete(ctx context.Context, db *gorm.DB, id uint) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&model.Asset{})
	return result.RowsAffected, result.Error
}

// ExistsByID reports whether an asset with id is stored.
func (dao *AssetDAO) ExistsByID(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&model.Asset{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
