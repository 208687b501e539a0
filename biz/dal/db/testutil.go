package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yi-nology/asset_tracker/biz/dal/model"
	"github.com/yi-nology/asset_tracker/pkg/constants"
	"github.com/yi-nology/asset_tracker/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a migrated in-memory SQLite database for testing.
// Each call gets its own named database so parallel packages never share state.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db, AssetMigrations()); err != nil {
		t.Fatalf("Failed to migrate tables: %v", err)
	}
	return db
}

// CleanupTestDB closes the database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close DB: %v", err)
	}
}

// CreateTestAsset stores an available asset with the given name.
func CreateTestAsset(t *testing.T, db *gorm.DB, name string) *model.Asset {
	t.Helper()
	asset := &model.Asset{
		Name:         name,
		Category:     "Laptop",
		SerialNumber: "SN-" + name,
		Status:       constants.StatusAvailable,
		Price:        decimal.RequireFromString("999.99"),
		Location:     constants.DefaultLocation,
		Quantity:     constants.DefaultQuantity,
		Kind:         constants.KindAsset,
	}
	if err := NewAssetDAO().Create(context.Background(), db, asset); err != nil {
		t.Fatalf("Failed to create test asset: %v", err)
	}
	return asset
}
