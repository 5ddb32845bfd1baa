package repository

import (
	"path/filepath"
	"testing"

	"github.com/shinyyama/mlm-backend/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=10000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Member{},
		&model.ClosureEdge{},
		&model.PointsTransaction{},
		&model.PointsBalance{},
		&model.LevelConfig{},
		&model.Order{},
		&model.Seller{},
		&model.StoreSale{},
		&model.SellerCommission{},
		&model.CodeSequence{},
		&model.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
