package entity

import "github.com/google/uuid"

// NewID returns an opaque stable identifier for any record.
func NewID() string { return uuid.NewString() }

type MenuItem struct {
	ID       string  `gorm:"primaryKey" json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
}

// MenuItemPatch carries a partial update; nil fields are left untouched.
type MenuItemPatch struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Image    *string  `json:"image"`
	Category *string  `json:"category"`
}
