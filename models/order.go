package models

import "time"

const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderServing   = "serving"
	OrderDelivered = "delivered"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// AllOrderStatuses is the closed set of statuses AdvanceStatus accepts.
var AllOrderStatuses = []string{
	OrderPending, OrderConfirmed, OrderPreparing, OrderReady,
	OrderServing, OrderDelivered, OrderCompleted, OrderCancelled,
}

// ModifiableOrderStatuses are the statuses during which line items may still
// be added or removed. Delivered, completed and cancelled orders are locked.
var ModifiableOrderStatuses = []string{
	OrderPending, OrderConfirmed, OrderPreparing,
	OrderReady, OrderServing,
}

type Order struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	OwnerID           uint          `gorm:"not null;index" json:"owner_id"`
	TableID           uint          `gorm:"not null;index" json:"table_id"`
	Table             Table         `gorm:"foreignKey:TableID" json:"table"`
	QRSessionID       *uint         `gorm:"index" json:"qr_session_id,omitempty"`
	CustomerSessionID *uint         `gorm:"index" json:"customer_session_id,omitempty"`
	Status            string        `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount       float64       `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	Items             []OrderItem   `gorm:"foreignKey:OrderID" json:"items"`
	PreparingAt       *time.Time    `json:"preparing_at,omitempty"`
	ReadyAt           *time.Time    `json:"ready_at,omitempty"`
	ServedAt          *time.Time    `json:"served_at,omitempty"`
	CookID            *uint         `gorm:"index" json:"cook_id,omitempty"`
	ServedBy          *uint         `gorm:"index" json:"served_by,omitempty"`
	WaiterID          *uint         `gorm:"index" json:"waiter_id,omitempty"`
	CancelReasonID    *uint         `gorm:"index" json:"cancel_reason_id,omitempty"`
	CancelReason      *CancelReason `gorm:"foreignKey:CancelReasonID" json:"cancel_reason,omitempty"`
	Notes             string        `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"not null" json:"updated_at"`
}

// IsValidStatus reports whether s is one of the eight known order statuses.
func IsValidStatus(s string) bool {
	for _, st := range AllOrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsModifiable reports whether line items may still change on this order.
func (o *Order) IsModifiable() bool {
	for _, st := range ModifiableOrderStatuses {
		if o.Status == st {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order has reached a state cancel refuses.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderCancelled || o.Status == OrderDelivered
}
