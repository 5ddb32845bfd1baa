package repository

import (
	"context"
	"time"

	"github.com/shinyyama/mlm-backend/internal/model"
	"gorm.io/gorm"
)

type SellerRepository interface {
	Create(ctx context.Context, s *model.Seller) error
	FindByUID(ctx context.Context, uid string) (*model.Seller, error)
}

type sellerRepository struct {
	db *gorm.DB
}

func NewSellerRepository(db *gorm.DB) SellerRepository {
	return &sellerRepository{db: db}
}

func (r *sellerRepository) Create(ctx context.Context, s *model.Seller) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sellerRepository) FindByUID(ctx context.Context, uid string) (*model.Seller, error) {
	var s model.Seller
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

type StoreSaleRepository interface {
	Create(ctx context.Context, s *model.StoreSale) error
	FindByID(ctx context.Context, id uint64) (*model.StoreSale, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.StoreSale, error)
	// Approve flips a pending sale to approved and writes the platform's
	// commission row in the same transaction. Returns
	// gorm.ErrRecordNotFound when the sale is not pending anymore.
	Approve(ctx context.Context, sale *model.StoreSale, commission *model.SellerCommission) error
}

type storeSaleRepository struct {
	db *gorm.DB
}

func NewStoreSaleRepository(db *gorm.DB) StoreSaleRepository {
	return &storeSaleRepository{db: db}
}

func (r *storeSaleRepository) Create(ctx context.Context, s *model.StoreSale) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *storeSaleRepository) FindByID(ctx context.Context, id uint64) (*model.StoreSale, error) {
	var s model.StoreSale
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *storeSaleRepository) ListBySeller(ctx context.Context, sellerUID string) ([]model.StoreSale, error) {
	var list []model.StoreSale
	if err := r.db.WithContext(ctx).
		Where("seller_uid = ?", sellerUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *storeSaleRepository) Approve(ctx context.Context, sale *model.StoreSale, commission *model.SellerCommission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&model.StoreSale{}).
			Where("id = ? AND status = ?", sale.ID, model.StoreSaleStatusPending).
			Updates(map[string]interface{}{
				"status":          model.StoreSaleStatusApproved,
				"commission_pool": sale.CommissionPool,
				"total_pv":        sale.TotalPV,
				"approved_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		sale.Status = model.StoreSaleStatusApproved
		sale.ApprovedAt = &now
		return tx.Create(commission).Error
	})
}
