package models

import "time"

type OrderItem struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	OrderID  uint  `gorm:"not null;index" json:"order_id"`
	Order    Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuID   uint  `gorm:"not null" json:"menu_id"`
	Menu     Menu  `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu"`
	Quantity int   `gorm:"not null" json:"quantity"`
	// Price is the unit price snapshot taken when the item was ordered.
	// Later menu price changes never touch it.
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Options   string    `gorm:"type:text" json:"options"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Subtotal is this line's contribution to the order total.
func (i *OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}
