package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shinyyama/mlm-backend/internal/model"
	"github.com/shinyyama/mlm-backend/internal/repository"
)

type OrderService interface {
	// Place persists the order, then fires points distribution in a
	// detached goroutine. The order is durable before distribution starts,
	// so a caller timeout cannot lose either.
	Place(ctx context.Context, buyerUID string, totalAmount float64) (*model.Order, error)
	ListByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error)
}

type orderService struct {
	repo         repository.OrderRepository
	distribution DistributionService
	poolFraction float64
}

func NewOrderService(repo repository.OrderRepository, distribution DistributionService, poolFraction float64) OrderService {
	return &orderService{repo: repo, distribution: distribution, poolFraction: poolFraction}
}

func (s *orderService) Place(ctx context.Context, buyerUID string, totalAmount float64) (*model.Order, error) {
	if buyerUID == "" {
		return nil, errors.New("buyer is required")
	}
	if totalAmount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	o := &model.Order{
		RefID:       uuid.NewString(),
		BuyerUID:    buyerUID,
		TotalAmount: totalAmount,
		Status:      model.OrderStatusPlaced,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	orderID := o.ID
	go s.distribution.DistributeOrderPoints(context.Background(), &orderID, buyerUID, totalAmount, s.poolFraction)
	return o, nil
}

func (s *orderService) ListByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error) {
	if buyerUID == "" {
		return nil, errors.New("buyer is required")
	}
	return s.repo.ListByBuyer(ctx, buyerUID)
}
