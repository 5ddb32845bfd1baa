package service

import (
	"context"
	"errors"

	"github.com/shinyyama/mlm-backend/internal/model"
	"github.com/shinyyama/mlm-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrForbidden = errors.New("forbidden")
var ErrSellerInactive = errors.New("seller_inactive")
var ErrSaleNotPending = errors.New("sale_not_pending")

type StoreSaleService interface {
	RegisterSeller(ctx context.Context, uid, storeName string, commissionPercent float64) (*model.Seller, error)
	// Record stores an offline purchase made at a seller's store by the
	// member owning customerCode. The sale stays pending until an admin
	// approves it.
	Record(ctx context.Context, sellerUID, customerCode string, amount float64) (*model.StoreSale, error)
	// Approve computes the commission split, writes the platform's
	// commission row with the sale flip in one transaction, then fires the
	// upline distribution in a detached goroutine.
	Approve(ctx context.Context, saleID uint64) (*model.StoreSale, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.StoreSale, error)
}

type storeSaleService struct {
	sales        repository.StoreSaleRepository
	sellers      repository.SellerRepository
	members      repository.MemberRepository
	distribution DistributionService
}

func NewStoreSaleService(sales repository.StoreSaleRepository, sellers repository.SellerRepository, members repository.MemberRepository, distribution DistributionService) StoreSaleService {
	return &storeSaleService{sales: sales, sellers: sellers, members: members, distribution: distribution}
}

func (s *storeSaleService) RegisterSeller(ctx context.Context, uid, storeName string, commissionPercent float64) (*model.Seller, error) {
	if uid == "" || storeName == "" {
		return nil, errors.New("uid and store name are required")
	}
	if commissionPercent < 0 || commissionPercent > 100 {
		return nil, errors.New("commission percent out of range")
	}
	seller := &model.Seller{
		UID:               uid,
		StoreName:         storeName,
		CommissionPercent: commissionPercent,
		Active:            true,
	}
	if err := s.sellers.Create(ctx, seller); err != nil {
		return nil, err
	}
	return seller, nil
}

func (s *storeSaleService) Record(ctx context.Context, sellerUID, customerCode string, amount float64) (*model.StoreSale, error) {
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	seller, err := s.sellers.FindByUID(ctx, sellerUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if !seller.Active {
		return nil, ErrSellerInactive
	}
	customer, err := s.members.FindByRewardCode(ctx, customerCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	sale := &model.StoreSale{
		SellerUID:         seller.UID,
		CustomerUID:       customer.UID,
		Amount:            amount,
		CommissionPercent: seller.CommissionPercent,
		Status:            model.StoreSaleStatusPending,
	}
	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *storeSaleService) Approve(ctx context.Context, saleID uint64) (*model.StoreSale, error) {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if sale.Status != model.StoreSaleStatusPending {
		return nil, ErrSaleNotPending
	}

	// Two-stage split: the commission pool comes off the sale, the platform
	// keeps 10% of it, and the remaining 90% is recorded as the sale's PV.
	// The upline walk still receives the full pool as its base.
	pool := sale.Amount * sale.CommissionPercent / 100
	adminShare := pool * adminCommissionShare
	sale.CommissionPool = pool
	sale.TotalPV = pool * (1 - adminCommissionShare)

	commission := &model.SellerCommission{
		SaleID:    sale.ID,
		SellerUID: sale.SellerUID,
		Amount:    adminShare,
		TotalPV:   sale.TotalPV,
	}
	if err := s.sales.Approve(ctx, sale, commission); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotPending
		}
		return nil, err
	}

	saleCopy := *sale
	go s.distribution.DistributeStoreSale(context.Background(), &saleCopy)
	return sale, nil
}

func (s *storeSaleService) ListBySeller(ctx context.Context, sellerUID string) ([]model.StoreSale, error) {
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	return s.sales.ListBySeller(ctx, sellerUID)
}
