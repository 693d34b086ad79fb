package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tay1862/mefood-tay-sub002/events"
	"github.com/tay1862/mefood-tay-sub002/middlewares"
	"github.com/tay1862/mefood-tay-sub002/models"
	"github.com/tay1862/mefood-tay-sub002/services"
	"github.com/tay1862/mefood-tay-sub002/utils"
)

type OrderController struct {
	DB       *gorm.DB
	Orders   *services.OrderService
	Sessions *services.QRSessionService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		DB:       db,
		Orders:   services.NewOrderService(db),
		Sessions: services.NewQRSessionService(db),
	}
}

type itemReq struct {
	MenuID   uint   `json:"menu_id" binding:"required"`
	Quantity int    `json:"quantity"`
	Options  string `json:"options"`
	Notes    string `json:"notes"`
}

func (r itemReq) toNewItem() services.NewItem {
	return services.NewItem{
		MenuID:   r.MenuID,
		Quantity: r.Quantity,
		Options:  r.Options,
		Notes:    r.Notes,
	}
}

// CreateOrder -> customer places an order against their session token
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req struct {
		Token string    `json:"token" binding:"required"`
		Items []itemReq `json:"items" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := oc.Sessions.ValidateSession(req.Token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]services.NewItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, it.toNewItem())
	}

	order, err := oc.Orders.CreateOrder(session, session.Table.OwnerID, items)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastOrderUpdate(order)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// AddItem -> append a line to an existing order
func (oc *OrderController) AddItem(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var req itemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ownerID := middlewares.OwnerScope(c)
	order, err := oc.Orders.AddItem(ownerID, uint(orderID), req.toNewItem())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastOrderUpdate(order)
	utils.RespondJSON(c, http.StatusOK, "Item added", order)
}

// RemoveItem -> delete a line; removing the last line cancels the order
func (oc *OrderController) RemoveItem(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("order_id"))
	itemID, _ := strconv.Atoi(c.Param("item_id"))

	ownerID := middlewares.OwnerScope(c)
	order, err := oc.Orders.RemoveItem(ownerID, uint(orderID), uint(itemID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastOrderUpdate(order)
	if order.Status == models.OrderCancelled {
		events.BroadcastStaffNotification(ownerID,
			"Order #"+strconv.Itoa(int(order.ID))+" cancelled, last item removed")
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed", order)
}

// UpdateStatus -> kitchen/service staff advance the order lifecycle
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil || orderID <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errMissingOrderID)
		return
	}

	var req struct {
		Status   string     `json:"status" binding:"required"`
		ServedAt *time.Time `json:"served_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ownerID := middlewares.OwnerScope(c)
	actorID := middlewares.ActorID(c)
	order, err := oc.Orders.AdvanceStatus(ownerID, uint(orderID), req.Status, actorID, req.ServedAt)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastOrderUpdate(order)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// CancelOrder -> terminal cancellation with a named reason
func (oc *OrderController) CancelOrder(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var req struct {
		Reason string `json:"reason" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ownerID := middlewares.OwnerScope(c)
	order, err := oc.Orders.Cancel(ownerID, uint(orderID), req.Reason, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastOrderUpdate(order)
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

// GetAllOrders -> the owner's orders, optionally by status
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	ownerID := middlewares.OwnerScope(c)

	q := oc.DB.Preload("Items").Preload("Items.Menu").
		Where("owner_id = ?", ownerID)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []models.Order
	if err := q.Order("created_at asc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> one order with its lines
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	ownerID := middlewares.OwnerScope(c)
	order, err := oc.Orders.GetOrder(ownerID, uint(orderID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetSessionOrders -> customer lists their own orders by token
func (oc *OrderController) GetSessionOrders(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.RespondError(c, http.StatusBadRequest, errMissingToken)
		return
	}

	session, err := oc.Sessions.ValidateSession(token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var orders []models.Order
	err = oc.DB.Preload("Items").Preload("Items.Menu").
		Where("qr_session_id = ?", session.ID).
		Order("created_at asc").
		Find(&orders).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session orders", orders)
}

// GetKitchenDisplay -> orders the kitchen still has in flight
func (oc *OrderController) GetKitchenDisplay(c *gin.Context) {
	ownerID := middlewares.OwnerScope(c)

	var orders []models.Order
	err := oc.DB.Preload("Items").Preload("Items.Menu").
		Where("owner_id = ? AND status IN ?", ownerID, []string{
			models.OrderPending, models.OrderConfirmed,
			models.OrderPreparing, models.OrderReady,
		}).
		Order("created_at asc").
		Find(&orders).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen display orders", orders)
}

var errMissingOrderID = errors.New("order_id is required")
