package model

import "time"

type OrderStatus string

const (
	OrderStatusPlaced   OrderStatus = "placed"
	OrderStatusCanceled OrderStatus = "canceled"
)

// Order is the thin record of an online purchase. Checkout itself lives
// elsewhere; this row exists so points distribution has a durable trigger.
type Order struct {
	ID          uint64      `gorm:"primaryKey;autoIncrement"`
	RefID       string      `gorm:"column:ref_id;size:36;uniqueIndex;not null"`
	BuyerUID    string      `gorm:"column:buyer_uid;size:128;index;not null"`
	TotalAmount float64     `gorm:"column:total_amount;not null"`
	Status      OrderStatus `gorm:"column:status;size:32;not null"`
	CreatedAt   time.Time   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}
