package models

import "time"

// QRSession binds an anonymous customer device to one table. The token is
// the only credential the customer carries; a session is valid while
// is_active is true. When a table is merged into another the losing session
// keeps a forwarding pointer in merged_into_qr_session_id.
type QRSession struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	TableID               uint       `gorm:"not null;index" json:"table_id"`
	Table                 Table      `gorm:"foreignKey:TableID" json:"table"`
	Token                 string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	IsActive              bool       `gorm:"not null;default:true;index" json:"is_active"`
	CustomerName          string     `gorm:"type:varchar(255)" json:"customer_name"`
	GuestCount            int        `gorm:"not null;default:1" json:"guest_count"`
	StartedAt             time.Time  `gorm:"not null" json:"started_at"`
	EndedAt               *time.Time `json:"ended_at,omitempty"`
	MergedIntoQRSessionID *uint      `gorm:"index" json:"merged_into_qr_session_id,omitempty"`
	CreatedAt             time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"not null" json:"updated_at"`
}
