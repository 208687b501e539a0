package model

// AssetRevisionID is the primary key of the only asset_revision row.
const AssetRevisionID uint = 1

// AssetRevision is the single-row counter bumped by every asset mutation.
type AssetRevision struct {
	ID    uint  `gorm:"primaryKey;autoIncrement:false"`
	Value int64 `gorm:"column:value;not null"`
}

// TableName overrides gorm to use the asset_revision table.
func (AssetRevision) TableName() string {
	return "asset_revision"
}
