package repository

import (
	"context"
	"errors"

	"github.com/shinyyama/mlm-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PointsRepository interface {
	// Credit applies one earning atomically: the balance row is upserted
	// with atomic increments, then the ledger row is appended carrying the
	// balance as it stands inside the same transaction. The row lock taken
	// by the increment serializes concurrent credits to one member, so
	// BalanceAfter values form a strict per-member order.
	Credit(ctx context.Context, t *model.PointsTransaction) error
	// Redeem debits the balance, guarded so it can never go negative.
	// Returns gorm.ErrRecordNotFound when the balance is insufficient.
	Redeem(ctx context.Context, uid string, points float64) (*model.PointsTransaction, error)
	Balance(ctx context.Context, uid string) (*model.PointsBalance, error)
	ListTransactions(ctx context.Context, uid string, limit, offset int) ([]model.PointsTransaction, int64, error)
}

type pointsRepository struct {
	db *gorm.DB
}

func NewPointsRepository(db *gorm.DB) PointsRepository {
	return &pointsRepository{db: db}
}

func (r *pointsRepository) Credit(ctx context.Context, t *model.PointsTransaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "uid"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_earned":    gorm.Expr("total_earned + ?", t.Amount),
				"current_balance": gorm.Expr("current_balance + ?", t.Amount),
			}),
		}).Create(&model.PointsBalance{
			UID:            t.RecipientUID,
			TotalEarned:    t.Amount,
			CurrentBalance: t.Amount,
		}).Error; err != nil {
			return err
		}
		var bal model.PointsBalance
		if err := tx.Where("uid = ?", t.RecipientUID).First(&bal).Error; err != nil {
			return err
		}
		t.BalanceAfter = bal.CurrentBalance
		return tx.Create(t).Error
	})
}

func (r *pointsRepository) Redeem(ctx context.Context, uid string, points float64) (*model.PointsTransaction, error) {
	var entry *model.PointsTransaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.PointsBalance{}).
			Where("uid = ? AND current_balance >= ?", uid, points).
			Updates(map[string]interface{}{
				"total_redeemed":  gorm.Expr("total_redeemed + ?", points),
				"current_balance": gorm.Expr("current_balance - ?", points),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		var bal model.PointsBalance
		if err := tx.Where("uid = ?", uid).First(&bal).Error; err != nil {
			return err
		}
		entry = &model.PointsTransaction{
			RecipientUID: uid,
			Type:         model.PointsTxRedeemed,
			Amount:       points,
			BalanceAfter: bal.CurrentBalance,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Balance reads the member's balance row. Members that never earned have no
// row yet; they read as all zeros without one being written.
func (r *pointsRepository) Balance(ctx context.Context, uid string) (*model.PointsBalance, error) {
	var bal model.PointsBalance
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&bal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.PointsBalance{UID: uid}, nil
	}
	if err != nil {
		return nil, err
	}
	return &bal, nil
}

func (r *pointsRepository) ListTransactions(ctx context.Context, uid string, limit, offset int) ([]model.PointsTransaction, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var total int64
	q := r.db.WithContext(ctx).Model(&model.PointsTransaction{}).Where("recipient_uid = ?", uid)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.PointsTransaction
	if err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
