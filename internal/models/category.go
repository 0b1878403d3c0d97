package models

type Category struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"uniqueIndex;not null" json:"name"`
	Description string     `json:"description"`
	Tags        string     `json:"tags"`
	ParentID    *uint      `gorm:"index" json:"parent_id"` // nullable
	Parent      *Category  `json:"parent,omitempty"`
	Children    []Category `gorm:"foreignKey:ParentID" json:"-"`
}
