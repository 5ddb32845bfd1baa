package service

import (
	"context"
	"errors"

	"github.com/shinyyama/mlm-backend/internal/model"
	"github.com/shinyyama/mlm-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not_found")
var ErrInsufficientBalance = errors.New("insufficient_balance")

type PointsService interface {
	Balance(ctx context.Context, uid string) (*model.PointsBalance, error)
	History(ctx context.Context, uid string, limit, offset int) ([]model.PointsTransaction, int64, error)
	Redeem(ctx context.Context, uid string, points float64) (*model.PointsTransaction, error)
}

type pointsService struct {
	repo repository.PointsRepository
}

func NewPointsService(repo repository.PointsRepository) PointsService {
	return &pointsService{repo: repo}
}

func (s *pointsService) Balance(ctx context.Context, uid string) (*model.PointsBalance, error) {
	return s.repo.Balance(ctx, uid)
}

func (s *pointsService) History(ctx context.Context, uid string, limit, offset int) ([]model.PointsTransaction, int64, error) {
	return s.repo.ListTransactions(ctx, uid, limit, offset)
}

func (s *pointsService) Redeem(ctx context.Context, uid string, points float64) (*model.PointsTransaction, error) {
	if points <= 0 {
		return nil, errors.New("points must be positive")
	}
	entry, err := s.repo.Redeem(ctx, uid, points)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}
	return entry, nil
}
