package services_test

import (
	"log"
	"os"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tay1862/mefood-tay-sub002/models"
	"github.com/tay1862/mefood-tay-sub002/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// setupTestDB -> in-memory sqlite with the full schema and a seeded owner,
// table and two menu items.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.QRSession{},
		&models.CustomerSession{},
		&models.MenuCategory{},
		&models.Menu{},
		&models.Order{},
		&models.OrderItem{},
		&models.CancelReason{},
		&models.StaffCall{},
		&models.MusicRequest{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	db.Create(&models.User{
		Name:     "Owner",
		Email:    "owner@example.com",
		Password: "x",
		Role:     models.RoleOwner,
	})
	db.Create(&models.Table{
		OwnerID:           1,
		Number:            "A1",
		Capacity:          4,
		IsActive:          true,
		QROrderingEnabled: true,
		Width:             1,
		Height:            1,
	})
	db.Create(&models.MenuCategory{OwnerID: 1, Name: "Mains"})
	db.Create(&models.Menu{
		OwnerID: 1, CategoryID: 1, Name: "Fried Rice", Price: 10, IsAvailable: true,
	})
	db.Create(&models.Menu{
		OwnerID: 1, CategoryID: 1, Name: "Spring Rolls", Price: 5, IsAvailable: true,
	})

	return db
}

// createTable -> extra seeded table for multi-table scenarios
func createTable(db *gorm.DB, ownerID uint, number string) models.Table {
	table := models.Table{
		OwnerID:           ownerID,
		Number:            number,
		Capacity:          4,
		IsActive:          true,
		QROrderingEnabled: true,
		Width:             1,
		Height:            1,
	}
	db.Create(&table)
	return table
}
