package models

import "time"

// No uniqueness on (user, product): a user may review the same product
// more than once.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      User      `json:"-"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	Product   Product   `json:"-"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comments  string    `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}
