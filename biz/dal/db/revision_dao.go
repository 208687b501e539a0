package db

import (
	"context"
	"errors"

	"github.com/yi-nology/asset_tracker/biz/dal/model"

	"gorm.io/gorm"
)

// RevisionDAO maintains the single-row collection revision counter.
type RevisionDAO struct{}

func NewRevisionDAO() *RevisionDAO { return &RevisionDAO{} }

// Bump increments the counter and returns the new value. Run it in the
// same transaction as the mutation it versions.
func (dao *RevisionDAO) Bump(ctx context.Context, db *gorm.DB) (int64, error) {
	result := db.WithContext(ctx).
		Model(&model.AssetRevision{}).
		Where("id = ?", model.AssetRevisionID).
		UpdateColumn("value", gorm.Expr("value + ?", 1))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		row := &model.AssetRevision{ID: model.AssetRevisionID, Value: 1}
		if err := db.WithContext(ctx).Create(row).Error; err != nil {
			return 0, err
		}
		return row.Value, nil
	}
	return dao.Current(ctx, db)
}

// Current returns the counter value, or 0 before the first mutation.
func (dao *RevisionDAO) Current(ctx context.Context, db *gorm.DB) (int64, error) {
	var row model.AssetRevision
	err := db.WithContext(ctx).Where("id = ?", model.AssetRevisionID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Value, nil
}
