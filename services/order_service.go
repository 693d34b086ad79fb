package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tay1862/mefood-tay-sub002/models"
	"github.com/tay1862/mefood-tay-sub002/utils"
)

// OrderService owns the order aggregate: totals, line items and the status
// lifecycle. Every mutation that touches more than one row runs in a single
// transaction; the total invariant (total == sum of price*quantity) holds
// after every committed call.
type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

// NewItem describes one requested line when creating an order or appending
// to one. The unit price is snapshotted from the menu inside the transaction.
type NewItem struct {
	MenuID   uint
	Quantity int
	Options  string
	Notes    string
}

// CreateOrder places an order for an active QR session.
func (s *OrderService) CreateOrder(session *models.QRSession, ownerID uint, items []NewItem) (*models.Order, error) {
	var order *models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		o := models.Order{
			OwnerID:     ownerID,
			TableID:     session.TableID,
			QRSessionID: &session.ID,
			Status:      models.OrderPending,
		}
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		for _, it := range items {
			if _, err := appendItem(tx, &o, ownerID, it); err != nil {
				return err
			}
		}
		if err := tx.Save(&o).Error; err != nil {
			return err
		}
		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %d created on table %d, total %s",
		order.ID, order.TableID, utils.FormatCurrency(order.TotalAmount))
	return order, nil
}

// AddItem appends one line to an order and bumps the total by its subtotal.
// Allowed only while the order status is in the modifiable set.
func (s *OrderService) AddItem(ownerID, orderID uint, item NewItem) (*models.Order, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(tx, ownerID, orderID)
		if err != nil {
			return err
		}
		if !o.IsModifiable() {
			return &InvalidStateError{
				Op:      "add item",
				Current: o.Status,
				Allowed: models.ModifiableOrderStatuses,
			}
		}
		if _, err := appendItem(tx, o, ownerID, item); err != nil {
			return err
		}
		return tx.Save(o).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ownerID, orderID)
}

// RemoveItem deletes one line and decrements the total by exactly the
// removed subtotal. Removing the last line cancels the whole order.
func (s *OrderService) RemoveItem(ownerID, orderID, itemID uint) (*models.Order, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(tx, ownerID, orderID)
		if err != nil {
			return err
		}
		if !o.IsModifiable() {
			return &InvalidStateError{
				Op:      "remove item",
				Current: o.Status,
				Allowed: models.ModifiableOrderStatuses,
			}
		}

		var item models.OrderItem
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}
		if item.OrderID != o.ID {
			return ErrItemNotFound
		}

		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		o.TotalAmount -= item.Subtotal()

		var remaining int64
		if err := tx.Model(&models.OrderItem{}).
			Where("order_id = ?", o.ID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			// An order with no lines left has nothing to prepare.
			o.Status = models.OrderCancelled
			o.TotalAmount = 0
			utils.InfoLogger.Printf("Order %d auto-cancelled, last item removed", o.ID)
		}
		return tx.Save(o).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ownerID, orderID)
}

// AdvanceStatus moves an order to newStatus, stamping lifecycle timestamps.
// Stamping is idempotent: a timestamp already set is never overwritten, and
// skipped intermediate statuses get their timestamps backfilled so the trail
// preparing_at <= ready_at <= served_at is always complete and ordered.
func (s *OrderService) AdvanceStatus(ownerID, orderID uint, newStatus string, actorID uint, at *time.Time) (*models.Order, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	if at != nil {
		now = *at
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(tx, ownerID, orderID)
		if err != nil {
			return err
		}
		// Cancellation is terminal. A cancelled order never re-enters the
		// kitchen flow; it would carry its cancel reason into a live status.
		if o.Status == models.OrderCancelled {
			return &InvalidStateError{
				Op:      "advance status",
				Current: o.Status,
				Allowed: []string{
					models.OrderPending, models.OrderConfirmed, models.OrderPreparing,
					models.OrderReady, models.OrderServing, models.OrderDelivered,
					models.OrderCompleted,
				},
			}
		}

		switch newStatus {
		case models.OrderPreparing:
			if o.PreparingAt == nil {
				o.PreparingAt = &now
			}
			o.CookID = &actorID
		case models.OrderReady:
			if o.PreparingAt == nil {
				o.PreparingAt = &now
			}
			if o.ReadyAt == nil {
				o.ReadyAt = &now
			}
		case models.OrderServing:
			o.ServedAt = &now
			o.ServedBy = &actorID
		case models.OrderDelivered, models.OrderCompleted:
			if o.PreparingAt == nil {
				o.PreparingAt = &now
			}
			if o.ReadyAt == nil {
				o.ReadyAt = &now
			}
			if o.ServedAt == nil {
				o.ServedAt = &now
			}
		}

		o.Status = newStatus
		return tx.Save(o).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %d advanced to %s by user %d", orderID, newStatus, actorID)
	return s.GetOrder(ownerID, orderID)
}

// Cancel marks an order cancelled with a named reason. Reasons live in a
// shared dictionary keyed by normalized text; the first writer of a given
// text creates the row and everyone after reuses it.
func (s *OrderService) Cancel(ownerID, orderID uint, reasonText, notes string) (*models.Order, error) {
	reasonText = strings.TrimSpace(reasonText)
	if reasonText == "" {
		return nil, ErrMissingReason
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(tx, ownerID, orderID)
		if err != nil {
			return err
		}
		if o.IsTerminal() {
			return &InvalidStateError{
				Op:      "cancel order",
				Current: o.Status,
				Allowed: []string{
					models.OrderPending, models.OrderConfirmed, models.OrderPreparing,
					models.OrderReady, models.OrderServing, models.OrderCompleted,
				},
			}
		}

		var reason models.CancelReason
		if err := tx.Where(models.CancelReason{Reason: strings.ToLower(reasonText)}).
			FirstOrCreate(&reason).Error; err != nil {
			return err
		}

		o.Status = models.OrderCancelled
		o.CancelReasonID = &reason.ID
		if notes != "" {
			if o.Notes != "" {
				o.Notes += "\n"
			}
			o.Notes += "Cancellation: " + notes
		}
		return tx.Save(o).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %d cancelled (%s)", orderID, reasonText)
	return s.GetOrder(ownerID, orderID)
}

// GetOrder loads an order with its lines, scoped to the owner.
func (s *OrderService) GetOrder(ownerID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.Preload("Items").Preload("CancelReason").
		Where("owner_id = ?", ownerID).
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// lockOrder fetches an order inside tx with the owner filter applied.
// Combining the owner filter with the primary key keeps absent and
// foreign-owned orders indistinguishable to the caller.
func lockOrder(tx *gorm.DB, ownerID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := tx.Where("owner_id = ?", ownerID).First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// appendItem snapshots the menu price, creates the line and bumps the
// in-memory total on o. Caller saves o.
func appendItem(tx *gorm.DB, o *models.Order, ownerID uint, it NewItem) (*models.OrderItem, error) {
	if it.Quantity <= 0 {
		it.Quantity = 1
	}

	var menu models.Menu
	err := tx.Where("owner_id = ?", ownerID).First(&menu, it.MenuID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}

	item := models.OrderItem{
		OrderID:  o.ID,
		MenuID:   menu.ID,
		Quantity: it.Quantity,
		Price:    menu.Price,
		Options:  it.Options,
		Notes:    it.Notes,
	}
	if err := tx.Create(&item).Error; err != nil {
		return nil, err
	}
	o.TotalAmount += item.Subtotal()
	return &item, nil
}
