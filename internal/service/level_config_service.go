package service

import (
	"context"
	"errors"

	"github.com/shinyyama/mlm-backend/internal/model"
	"github.com/shinyyama/mlm-backend/internal/repository"
)

type LevelConfigService interface {
	List(ctx context.Context) ([]model.LevelConfig, error)
	Update(ctx context.Context, level int, percentage float64, isActive bool) (*model.LevelConfig, error)
}

type levelConfigService struct {
	repo repository.LevelConfigRepository
}

func NewLevelConfigService(repo repository.LevelConfigRepository) LevelConfigService {
	return &levelConfigService{repo: repo}
}

func (s *levelConfigService) List(ctx context.Context) ([]model.LevelConfig, error) {
	return s.repo.List(ctx)
}

func (s *levelConfigService) Update(ctx context.Context, level int, percentage float64, isActive bool) (*model.LevelConfig, error) {
	if level < 1 || level > model.MaxLevel {
		return nil, errors.New("level out of range")
	}
	if percentage < 0 {
		return nil, errors.New("percentage must not be negative")
	}
	cfg := &model.LevelConfig{Level: level, Percentage: percentage, IsActive: isActive}
	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
