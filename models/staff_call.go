package models

import "time"

const (
	RequestPending      = "pending"
	RequestAcknowledged = "acknowledged"
	RequestCompleted    = "completed"
)

// StaffCall is a customer-raised request (water, bill, cleanup...) tied to
// an active QR session. Calls follow their session when tables are merged.
type StaffCall struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	QRSessionID uint      `gorm:"not null;index" json:"qr_session_id"`
	QRSession   QRSession `gorm:"foreignKey:QRSessionID" json:"-"`
	Type        string    `gorm:"type:varchar(50);not null" json:"type"`
	Message     string    `gorm:"type:text" json:"message"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
