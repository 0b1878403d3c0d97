package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CreatedByID uint       `gorm:"uniqueIndex;not null" json:"created_by"` // one cart per user
	CreatedBy   User       `json:"-"`
	Status      string     `gorm:"type:varchar(20);not null" json:"status"`
	Items       []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CartItem carries the same merge rule as OrderLine: unique per
// (cart, product), duplicate adds increment Quantity.
type CartItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CartID    uint            `gorm:"not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint            `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Product   Product         `json:"-"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
}
