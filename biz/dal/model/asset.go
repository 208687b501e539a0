package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Asset is a tracked item or stock line as persisted in the assets table.
// Column names are the flattened snake_case form of the API field names.
type Asset struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"column:name;type:text;not null" json:"name"`
	Category     string          `gorm:"column:category;type:text" json:"category"`
	SerialNumber string          `gorm:"column:serial_number;type:text" json:"serial_number"`
	Status       string          `gorm:"column:status;type:text" json:"status"`
	AssignedTo   string          `gorm:"column:assigned_to;type:text" json:"assigned_to"`
	PurchaseDate *datatypes.Date `gorm:"column:purchase_date" json:"purchase_date"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric" json:"price"`
	Location     string          `gorm:"column:location;type:text" json:"location"`
	Quantity     int             `gorm:"column:quantity" json:"quantity"`
	Kind         string          `gorm:"column:kind;type:text" json:"kind"`
}

// TableName overrides gorm to use the assets table.
func (Asset) TableName() string {
	return "assets"
}
