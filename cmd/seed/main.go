package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shinyyama/mlm-backend/internal/config"
	"github.com/shinyyama/mlm-backend/internal/db"
	"github.com/shinyyama/mlm-backend/internal/model"
	"gorm.io/gorm"
)

// Default level percentages installed on first run. Level 1 is the buyer;
// levels 2-8 pay the upline. All start inactive except the first three.
var defaultLevels = []model.LevelConfig{
	{Level: 1, Percentage: 50, IsActive: true},
	{Level: 2, Percentage: 20, IsActive: true},
	{Level: 3, Percentage: 10, IsActive: true},
	{Level: 4, Percentage: 5, IsActive: false},
	{Level: 5, Percentage: 5, IsActive: false},
	{Level: 6, Percentage: 4, IsActive: false},
	{Level: 7, Percentage: 3, IsActive: false},
	{Level: 8, Percentage: 3, IsActive: false},
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	force := os.Getenv("FORCE_SEED") == "true"
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&model.LevelConfig{}).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 && !force {
			log.Printf("level configs already exist; skipping seed (set FORCE_SEED=true to override)")
			return nil
		}
		if force {
			if err := tx.Where("1 = 1").Delete(&model.LevelConfig{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&defaultLevels).Error; err != nil {
			return err
		}
		seq := &model.CodeSequence{Name: "reward_code", NextValue: 1}
		if err := tx.FirstOrCreate(seq, &model.CodeSequence{Name: "reward_code"}).Error; err != nil {
			return err
		}
		log.Printf("seeded %d level configs", len(defaultLevels))
		return nil
	})
}
