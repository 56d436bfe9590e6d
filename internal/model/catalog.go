package model

import (
	"time"
)

// Brand groups flavors under a single manufacturer name
type Brand struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Flavors   []Flavor  `gorm:"foreignKey:BrandID" json:"flavors,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Flavor belongs to exactly one brand and carries descriptive attributes
type Flavor struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BrandID     uint      `gorm:"not null;index" json:"brand_id"`
	Brand       *Brand    `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Profile     string    `gorm:"type:varchar(100);index" json:"profile"` // Taste profile tag, e.g. "Minty"
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Stock is a quantity counter tied to a flavor
type Stock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FlavorID  uint      `gorm:"not null;index" json:"flavor_id"`
	Flavor    *Flavor   `gorm:"foreignKey:FlavorID" json:"flavor,omitempty"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
