package models

import "time"

// CancelReason is a shared dictionary of cancellation reasons, keyed by
// normalized text. First write wins; later cancels reuse the row.
type CancelReason struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reason    string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"reason"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
