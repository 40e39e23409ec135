package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the storefront's public face shown on the landing page.
type Profile struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	StoreName       string    `gorm:"column:store_name;type:varchar(255);not null" json:"store_name" validate:"required"`
	Description     string    `json:"description"`
	ImageProfile    string    `gorm:"column:image_profile;type:text" json:"image_profile,omitempty"`
	ImageBackground string    `gorm:"column:image_background;type:text" json:"image_background,omitempty"`
	Ratings         float64   `gorm:"default:0" json:"ratings"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
