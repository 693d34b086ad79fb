package models

import "time"

type MusicRequest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	QRSessionID uint      `gorm:"not null;index" json:"qr_session_id"`
	QRSession   QRSession `gorm:"foreignKey:QRSessionID" json:"-"`
	SongName    string    `gorm:"type:varchar(255);not null" json:"song_name"`
	Artist      string    `gorm:"type:varchar(255)" json:"artist"`
	Message     string    `gorm:"type:text" json:"message"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
