package models

import "time"

const (
	SessionWaiting   = "waiting"
	SessionSeated    = "seated"
	SessionOrdering  = "ordering"
	SessionOrdered   = "ordered"
	SessionServing   = "serving"
	SessionDining    = "dining"
	SessionBilling   = "billing"
	SessionCompleted = "completed"
)

// OccupiedSessionStatuses are the statuses in which a party holds a table.
var OccupiedSessionStatuses = []string{
	SessionSeated, SessionOrdering, SessionOrdered,
	SessionServing, SessionDining, SessionBilling,
}

// CustomerSession tracks a walk-in party from the waiting queue to checkout.
// It is independent of QR ordering but may be linked to the same table.
type CustomerSession struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	OwnerID       uint       `gorm:"not null;index" json:"owner_id"`
	TableID       *uint      `gorm:"index" json:"table_id,omitempty"`
	Table         *Table     `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Status        string     `gorm:"type:varchar(20);not null;default:'waiting'" json:"status"`
	PartySize     int        `gorm:"not null;default:1" json:"party_size"`
	CustomerName  string     `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone string     `gorm:"type:varchar(50)" json:"customer_phone"`
	CheckInTime   time.Time  `gorm:"not null" json:"check_in_time"`
	SeatedTime    *time.Time `json:"seated_time,omitempty"`
	CheckOutTime  *time.Time `json:"check_out_time,omitempty"`
	WaiterID      *uint      `gorm:"index" json:"waiter_id,omitempty"`
	Waiter        *User      `gorm:"foreignKey:WaiterID" json:"waiter,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

// IsOccupying reports whether this session currently holds its table.
func (s *CustomerSession) IsOccupying() bool {
	for _, st := range OccupiedSessionStatuses {
		if s.Status == st {
			return true
		}
	}
	return false
}
