package models

import "time"

const (
	RoleOwner = "owner"
	RoleStaff = "staff"
	RoleCook  = "cook"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	Role     string `gorm:"type:varchar(50);not null" json:"role"`
	// OwnerID points at the restaurant owner this user works for.
	// Owners themselves have it nil; Scope() resolves either way.
	OwnerID   *uint     `gorm:"index" json:"owner_id,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Scope returns the owner id all of this user's records are filed under.
func (u *User) Scope() uint {
	if u.OwnerID != nil {
		return *u.OwnerID
	}
	return u.ID
}
