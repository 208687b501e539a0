package service

import (
	"context"
	"errors"

	"github.com/yi-nology/asset_tracker/biz/dal/db"
	"gorm.io/gorm"
)

var (
	ErrAssetNotFound     = errors.New("asset not found")
	ErrInvalidAsset      = errors.New("invalid asset")
	ErrEmptyUpdate       = errors.New("update carries no fields")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Logic contains business rules on top of data persistence.
type Logic struct {
	db          *gorm.DB
	assetDAO    *db.AssetDAO
	revisionDAO *db.RevisionDAO
}

func NewLogic(dbConn *gorm.DB) *Logic {
	return &Logic{
		db:          dbConn,
		assetDAO:    db.NewAssetDAO(),
		revisionDAO: db.NewRevisionDAO(),
	}
}

// mutate runs fn and, when fn reports a change, bumps the collection
// revision in the same transaction.
func (l *Logic) mutate(ctx context.Context, fn func(tx *gorm.DB) (bool, error)) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changed, err := fn(tx)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		_, err = l.revisionDAO.Bump(ctx, tx)
		return err
	})
}
