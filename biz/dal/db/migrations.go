package db

import (
	"github.com/shopspring/decimal"
	"github.com/yi-nology/asset_tracker/biz/dal/model"
	"github.com/yi-nology/asset_tracker/pkg/constants"
	"github.com/yi-nology/asset_tracker/pkg/database"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// assetV1 mirrors the table created by earlier deployments, which issued
// CREATE TABLE IF NOT EXISTS on every request.
type assetV1 struct {
	ID           uint            `gorm:"primaryKey"`
	Name         string          `gorm:"type:text;not null"`
	Category     string          `gorm:"type:text"`
	SerialNumber string          `gorm:"type:text"`
	Status       string          `gorm:"type:text;default:available"`
	AssignedTo   string          `gorm:"type:text"`
	PurchaseDate *datatypes.Date `gorm:"column:purchase_date"`
	Price        decimal.Decimal `gorm:"type:numeric"`
}

func (assetV1) TableName() string { return "assets" }

type assetV2 struct {
	Location string `gorm:"type:text;default:Unassigned"`
	Quantity int    `gorm:"default:1"`
	Kind     string `gorm:"type:text;default:asset"`
}

func (assetV2) TableName() string { return "assets" }

// AssetMigrations returns the schema history of the asset store.
func AssetMigrations() []database.Migration {
	return []database.Migration{
		{
			Version: 1,
			Name:    "create assets",
			Up: func(tx *gorm.DB) error {
				if tx.Migrator().HasTable(&assetV1{}) {
					return nil
				}
				return tx.Migrator().CreateTable(&assetV1{})
			},
		},
		{
			Version: 2,
			Name:    "add location, quantity and kind",
			Up: func(tx *gorm.DB) error {
				m := tx.Migrator()
				for _, field := range []string{"Location", "Quantity", "Kind"} {
					if m.HasColumn(&assetV2{}, field) {
						continue
					}
					if err := m.AddColumn(&assetV2{}, field); err != nil {
						return err
					}
				}
				return normalizeLegacyRows(tx)
			},
		},
		{
			Version: 3,
			Name:    "create asset_revision",
			Up: func(tx *gorm.DB) error {
				if !tx.Migrator().HasTable(&model.AssetRevision{}) {
					if err := tx.Migrator().CreateTable(&model.AssetRevision{}); err != nil {
						return err
					}
				}
				var row model.AssetRevision
				return tx.Where(model.AssetRevision{ID: model.AssetRevisionID}).FirstOrCreate(&row).Error
			},
		},
	}
}

// normalizeLegacyRows fills NULLs left by older writers so every row reads
// back with the documented defaults.
func normalizeLegacyRows(tx *gorm.DB) error {
	fills := []struct {
		column string
		value  interface{}
	}{
		{"status", constants.StatusAvailable},
		{"assigned_to", ""},
		{"price", 0},
		{"location", constants.DefaultLocation},
		{"quantity", constants.DefaultQuantity},
		{"kind", constants.KindAsset},
	}
	for _, f := range fills {
		if err := tx.Table("assets").Where(f.column+" IS NULL").Update(f.column, f.value).Error; err != nil {
			return err
		}
	}
	return nil
}
