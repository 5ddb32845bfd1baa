package model

import "time"

type PointsTransactionType string

const (
	PointsTxEarnedSelf     PointsTransactionType = "EARNED_SELF"
	PointsTxEarnedReferral PointsTransactionType = "EARNED_REFERRAL"
	PointsTxRedeemed       PointsTransactionType = "REDEEMED"
	PointsTxAdjustment     PointsTransactionType = "ADJUSTMENT"
)

// PointsTransaction is one immutable ledger entry. BalanceAfter snapshots the
// recipient's balance immediately after the entry was applied, which makes
// the ledger a verifiable running total per member. OrderID and SaleID tie
// the entry to its online or offline trigger; at most one of them is set.
type PointsTransaction struct {
	ID              uint64                `gorm:"primaryKey;autoIncrement"`
	RecipientUID    string                `gorm:"column:recipient_uid;size:128;index;not null"`
	Type            PointsTransactionType `gorm:"column:type;size:32;not null"`
	Level           *int                  `gorm:"column:level"`
	SourceUID       string                `gorm:"column:source_uid;size:128;index"`
	OrderID         *uint64               `gorm:"column:order_id;index"`
	SaleID          *uint64               `gorm:"column:sale_id;index"`
	OrderAmount     float64               `gorm:"column:order_amount"`
	RewardPoolTotal float64               `gorm:"column:reward_pool_total"`
	Amount          float64               `gorm:"column:amount;not null"`
	BalanceAfter    float64               `gorm:"column:balance_after;not null"`
	CreatedAt       time.Time             `gorm:"autoCreateTime"`
}

func (PointsTransaction) TableName() string {
	return "points_transactions"
}

// PointsBalance is the single mutable row per member. CurrentBalance always
// equals TotalEarned - TotalRedeemed; the row is created lazily on first
// credit.
type PointsBalance struct {
	UID            string    `gorm:"column:uid;primaryKey;size:128"`
	TotalEarned    float64   `gorm:"column:total_earned;not null;default:0"`
	TotalRedeemed  float64   `gorm:"column:total_redeemed;not null;default:0"`
	CurrentBalance float64   `gorm:"column:current_balance;not null;default:0"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (PointsBalance) TableName() string {
	return "points_balances"
}
