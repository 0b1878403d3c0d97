package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Title         string          `gorm:"uniqueIndex;not null" json:"title"`
	CategoryID    *uint           `gorm:"index" json:"category_id"`
	Category      *Category       `json:"category,omitempty"`
	Description   string          `json:"description"`
	Tags          string          `json:"tags"`
	Summary       string          `json:"summary"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_value"`
	CreatedAt     time.Time       `json:"created_at"`
}
