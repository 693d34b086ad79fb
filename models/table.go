package models

import "time"

type Table struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OwnerID uint   `gorm:"not null;uniqueIndex:idx_owner_table_number" json:"owner_id"`
	Number  string `gorm:"type:varchar(50);not null;uniqueIndex:idx_owner_table_number" json:"number"`
	Name    string `gorm:"type:varchar(255)" json:"name"`
	// Capacity in seats; informational only, seating does not enforce it.
	Capacity          int  `gorm:"not null;default:4" json:"capacity"`
	IsActive          bool `gorm:"not null;default:true" json:"is_active"`
	QROrderingEnabled bool `gorm:"not null;default:true" json:"qr_ordering_enabled"`
	// Floor-plan grid position for the dashboard layout editor.
	PosX      int       `gorm:"not null;default:0" json:"pos_x"`
	PosY      int       `gorm:"not null;default:0" json:"pos_y"`
	Width     int       `gorm:"not null;default:1" json:"width"`
	Height    int       `gorm:"not null;default:1" json:"height"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
