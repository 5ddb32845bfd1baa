package repository

import (
	"context"

	"github.com/shinyyama/mlm-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LevelConfigRepository interface {
	List(ctx context.Context) ([]model.LevelConfig, error)
	ListActive(ctx context.Context) ([]model.LevelConfig, error)
	Upsert(ctx context.Context, cfg *model.LevelConfig) error
}

type levelConfigRepository struct {
	db *gorm.DB
}

func NewLevelConfigRepository(db *gorm.DB) LevelConfigRepository {
	return &levelConfigRepository{db: db}
}

func (r *levelConfigRepository) List(ctx context.Context) ([]model.LevelConfig, error) {
	var list []model.LevelConfig
	if err := r.db.WithContext(ctx).Order("level ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *levelConfigRepository) ListActive(ctx context.Context) ([]model.LevelConfig, error) {
	var list []model.LevelConfig
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("level ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *levelConfigRepository) Upsert(ctx context.Context, cfg *model.LevelConfig) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "level"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"percentage": cfg.Percentage,
			"is_active":  cfg.IsActive,
		}),
	}).Create(cfg).Error
}
