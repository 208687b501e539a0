package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yi-nology/asset_tracker/biz/dal/model"
	"github.com/yi-nology/asset_tracker/pkg/constants"
	"github.com/yi-nology/asset_tracker/pkg/database"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestAssetDAO_CreateAndGet(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewAssetDAO()
	ctx := context.Background()

	purchased := datatypes.Date(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	asset := &model.Asset{
		Name:         "Dell XPS",
		Category:     "Laptop",
		SerialNumber: "DX-1",
		Status:       constants.StatusAvailable,
		PurchaseDate: &purchased,
		Price:        decimal.RequireFromString("1299.50"),
		Location:     "HQ",
		Quantity:     1,
		Kind:         constants.KindAsset,
	}
	if err := dao.Create(ctx, db, asset); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if asset.ID == 0 {
		t.Fatalf("Expected ID to be set after creation")
	}

	found, err := dao.GetByID(ctx, db, asset.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Name != "Dell XPS" || found.Location != "HQ" {
		t.Errorf("Unexpected asset: %+v", found)
	}
	if !found.Price.Equal(decimal.RequireFromString("1299.5")) {
		t.Errorf("Expected price 1299.5, got %s", found.Price)
	}
	if found.PurchaseDate == nil || time.Time(*found.PurchaseDate).Format("2006-01-02") != "2024-03-01" {
		t.Errorf("Unexpected purchase date: %v", found.PurchaseDate)
	}

	t.Run("NilEntity", func(t *testing.T) {
		if err := dao.Create(ctx, db, nil); err == nil {
			t.Error("Expected error for nil asset")
		}
	})

	t.Run("MissingID", func(t *testing.T) {
		_, err := dao.GetByID(ctx, db, 9999)
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Errorf("Expected ErrRecordNotFound, got %v", err)
		}
	})
}

func TestAssetDAO_ListNewestFirst(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewAssetDAO()

	first := CreateTestAsset(t, db, "first")
	second := CreateTestAsset(t, db, "second")
	third := CreateTestAsset(t, db, "third")

	assets, err := dao.List(context.Background(), db)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("Expected 3 assets, got %d", len(assets))
	}
	want := []uint{third.ID, second.ID, first.ID}
	for i, id := range want {
		if assets[i].ID != id {
			t.Fatalf("position %d: expected id %d, got %d", i, id, assets[i].ID)
		}
	}
}

func TestAssetDAO_UpdateColumns(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewAssetDAO()
	ctx := context.Background()

	asset := CreateTestAsset(t, db, "laptop")
	err := dao.UpdateColumns(ctx, db, asset.ID, map[string]interface{}{
		"status":      constants.StatusAssigned,
		"assigned_to": "Jane",
	})
	if err != nil {
		t.Fatalf("UpdateColumns failed: %v", err)
	}

	found, err := dao.GetByID(ctx, db, asset.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Status != constants.StatusAssigned || found.AssignedTo != "Jane" {
		t.Errorf("Unexpected state after update: %+v", found)
	}
	if found.Name != "laptop" || found.SerialNumber != "SN-laptop" {
		t.Errorf("Untouched columns changed: %+v", found)
	}
}

func TestAssetDAO_DeleteIsIdempotent(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewAssetDAO()
	ctx := context.Background()

	asset := CreateTestAsset(t, db, "monitor")
	removed, err := dao.Delete(ctx, db, asset.ID)
	if err != nil || removed != 1 {
		t.Fatalf("Delete failed: removed=%d err=%v", removed, err)
	}
	removed, err = dao.Delete(ctx, db, asset.ID)
	if err != nil || removed != 0 {
		t.Fatalf("Second delete: removed=%d err=%v", removed, err)
	}
	exists, err := dao.ExistsByID(ctx, db, asset.ID)
	if err != nil {
		t.Fatalf("ExistsByID failed: %v", err)
	}
	if exists {
		t.Errorf("Expected asset to be gone")
	}
}

func TestRevisionDAO_Bump(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewRevisionDAO()
	ctx := context.Background()

	start, err := dao.Current(ctx, db)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if start != 0 {
		t.Fatalf("Expected fresh revision 0, got %d", start)
	}

	for want := int64(1); want <= 3; want++ {
		got, err := dao.Bump(ctx, db)
		if err != nil {
			t.Fatalf("Bump failed: %v", err)
		}
		if got != want {
			t.Fatalf("Expected revision %d, got %d", want, got)
		}
	}

	t.Run("RolledBackBumpIsDiscarded", func(t *testing.T) {
		_ = db.Transaction(func(tx *gorm.DB) error {
			if _, err := dao.Bump(ctx, tx); err != nil {
				t.Fatalf("Bump in tx failed: %v", err)
			}
			return errors.New("rollback")
		})
		got, err := dao.Current(ctx, db)
		if err != nil {
			t.Fatalf("Current failed: %v", err)
		}
		if got != 3 {
			t.Errorf("Expected revision 3 after rollback, got %d", got)
		}
	})
}

func TestAssetMigrations_AdoptLegacyTable(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	// Rebuild the pre-versioning layout with a row written by the old code.
	if err := db.Migrator().DropTable("assets", "asset_revision", &database.SchemaMigration{}); err != nil {
		t.Fatalf("drop tables: %v", err)
	}
	legacy := `CREATE TABLE assets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category TEXT,
		serial_number TEXT,
		status TEXT DEFAULT 'available',
		assigned_to TEXT,
		purchase_date DATE,
		price NUMERIC
	)`
	if err := db.Exec(legacy).Error; err != nil {
		t.Fatalf("create legacy table: %v", err)
	}
	if err := db.Exec("INSERT INTO assets (name, category) VALUES (?, ?)", "Old Printer", "Printer").Error; err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}

	if err := database.Migrate(db, AssetMigrations()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	assets, err := NewAssetDAO().List(context.Background(), db)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("Expected legacy row to survive, got %d rows", len(assets))
	}
	got := assets[0]
	if got.Location != constants.DefaultLocation || got.Quantity != constants.DefaultQuantity || got.Kind != constants.KindAsset {
		t.Errorf("Expected defaults on legacy row, got %+v", got)
	}
	if got.Status != constants.StatusAvailable || got.AssignedTo != "" || !got.Price.IsZero() {
		t.Errorf("Expected normalized legacy values, got %+v", got)
	}
}
