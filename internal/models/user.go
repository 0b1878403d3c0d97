package models

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	OIDCID    string    `gorm:"column:oidc_id;index" json:"-"` // OpenID Connect subject, empty for self-registered users
	CreatedAt time.Time `json:"created_at"`
}
