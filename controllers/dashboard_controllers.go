package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tay1862/mefood-tay-sub002/middlewares"
	"github.com/tay1862/mefood-tay-sub002/models"
	"github.com/tay1862/mefood-tay-sub002/utils"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// GetDashboardStats -> floor overview for the staff dashboard
func (dc *DashboardController) GetDashboardStats(c *gin.Context) {
	ownerID := middlewares.OwnerScope(c)

	var totalTables, activeTables int64
	dc.DB.Model(&models.Table{}).Where("owner_id = ?", ownerID).Count(&totalTables)
	dc.DB.Model(&models.Table{}).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Count(&activeTables)

	var occupiedTables int64
	dc.DB.Model(&models.CustomerSession{}).
		Where("owner_id = ? AND status IN ? AND table_id IS NOT NULL",
			ownerID, models.OccupiedSessionStatuses).
		Distinct("table_id").
		Count(&occupiedTables)

	var waitingParties int64
	dc.DB.Model(&models.CustomerSession{}).
		Where("owner_id = ? AND status = ?", ownerID, models.SessionWaiting).
		Count(&waitingParties)

	var openOrders int64
	dc.DB.Model(&models.Order{}).
		Where("owner_id = ? AND status IN ?", ownerID, []string{
			models.OrderPending, models.OrderConfirmed,
			models.OrderPreparing, models.OrderReady, models.OrderServing,
		}).
		Count(&openOrders)

	var activeQRSessions int64
	dc.DB.Model(&models.QRSession{}).
		Joins("JOIN tables ON tables.id = qr_sessions.table_id").
		Where("tables.owner_id = ? AND qr_sessions.is_active = ?", ownerID, true).
		Count(&activeQRSessions)

	var pendingCalls int64
	dc.DB.Model(&models.StaffCall{}).
		Joins("JOIN qr_sessions ON qr_sessions.id = staff_calls.qr_session_id").
		Joins("JOIN tables ON tables.id = qr_sessions.table_id").
		Where("tables.owner_id = ? AND staff_calls.status = ?", ownerID, models.RequestPending).
		Count(&pendingCalls)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"tables": gin.H{
			"total":    totalTables,
			"active":   activeTables,
			"occupied": occupiedTables,
		},
		"waiting_parties":     waitingParties,
		"open_orders":         openOrders,
		"active_qr_sessions":  activeQRSessions,
		"pending_staff_calls": pendingCalls,
	})
}
