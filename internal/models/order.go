package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"index;not null" json:"user_id"`
	User      User        `json:"-"`
	Lines     []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderLine is unique per (order, product); a second add of the same
// product merges into the existing row instead of inserting.
type OrderLine struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;uniqueIndex:idx_order_product" json:"order_id"`
	ProductID uint            `gorm:"not null;uniqueIndex:idx_order_product" json:"product_id"`
	Product   Product         `json:"-"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"` // captured at add time, never recomputed
	Quantity  int             `gorm:"not null" json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
}
