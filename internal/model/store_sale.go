package model

import "time"

// Seller is a physical store allowed to record offline sales. Its commission
// percent feeds the offline reward pool.
type Seller struct {
	UID               string    `gorm:"column:uid;primaryKey;size:128"`
	StoreName         string    `gorm:"column:store_name;size:120;not null"`
	CommissionPercent float64   `gorm:"column:commission_percent;not null;default:0"`
	Active            bool      `gorm:"column:active;not null;default:true"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (Seller) TableName() string {
	return "sellers"
}

type StoreSaleStatus string

const (
	StoreSaleStatusPending  StoreSaleStatus = "pending"
	StoreSaleStatusApproved StoreSaleStatus = "approved"
	StoreSaleStatusRejected StoreSaleStatus = "rejected"
)

// StoreSale is an offline (in-store) purchase awaiting admin approval.
// CommissionPercent is snapshot at record time so a later change to the
// seller profile cannot alter an already-recorded sale. TotalPV is the
// informational 90% slice of the commission pool; the credited shares are
// computed against the full pool (see the distribution service).
type StoreSale struct {
	ID                uint64          `gorm:"primaryKey;autoIncrement"`
	SellerUID         string          `gorm:"column:seller_uid;size:128;index;not null"`
	CustomerUID       string          `gorm:"column:customer_uid;size:128;index;not null"`
	Amount            float64         `gorm:"column:amount;not null"`
	CommissionPercent float64         `gorm:"column:commission_percent;not null"`
	CommissionPool    float64         `gorm:"column:commission_pool;not null;default:0"`
	TotalPV           float64         `gorm:"column:total_pv;not null;default:0"`
	Status            StoreSaleStatus `gorm:"column:status;size:32;not null"`
	ApprovedAt        *time.Time      `gorm:"column:approved_at"`
	CreatedAt         time.Time       `gorm:"autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime"`
}

func (StoreSale) TableName() string {
	return "store_sales"
}

// SellerCommission records the platform's share of an approved sale's
// commission pool. It is a bookkeeping row, not a points transaction.
type SellerCommission struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	SaleID    uint64    `gorm:"column:sale_id;uniqueIndex;not null"`
	SellerUID string    `gorm:"column:seller_uid;size:128;index;not null"`
	Amount    float64   `gorm:"column:amount;not null"`
	TotalPV   float64   `gorm:"column:total_pv;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (SellerCommission) TableName() string {
	return "seller_commissions"
}
