package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tay1862/mefood-tay-sub002/events"
	"github.com/tay1862/mefood-tay-sub002/middlewares"
	"github.com/tay1862/mefood-tay-sub002/models"
	"github.com/tay1862/mefood-tay-sub002/services"
	"github.com/tay1862/mefood-tay-sub002/utils"
)

type StaffCallController struct {
	DB       *gorm.DB
	Sessions *services.QRSessionService
}

func NewStaffCallController(db *gorm.DB) *StaffCallController {
	return &StaffCallController{
		DB:       db,
		Sessions: services.NewQRSessionService(db),
	}
}

// CreateStaffCall -> customer presses a call button on their session
func (sc *StaffCallController) CreateStaffCall(c *gin.Context) {
	var req struct {
		Token   string `json:"token" binding:"required"`
		Type    string `json:"type" binding:"required"` // water, bill, cleanup, other
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := sc.Sessions.ValidateSession(req.Token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	call := models.StaffCall{
		QRSessionID: session.ID,
		Type:        req.Type,
		Message:     req.Message,
		Status:      models.RequestPending,
	}
	if err := sc.DB.Create(&call).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastStaffCall(session.Table.OwnerID, &call)
	utils.InfoLogger.Printf("Staff call %q from table %d", call.Type, session.TableID)
	utils.RespondJSON(c, http.StatusCreated, "Staff called", call)
}

// GetStaffCalls -> staff list calls for their restaurant, newest first
func (sc *StaffCallController) GetStaffCalls(c *gin.Context) {
	ownerID := middlewares.OwnerScope(c)

	q := sc.DB.Preload("QRSession").Preload("QRSession.Table").
		Joins("JOIN qr_sessions ON qr_sessions.id = staff_calls.qr_session_id").
		Joins("JOIN tables ON tables.id = qr_sessions.table_id").
		Where("tables.owner_id = ?", ownerID)
	if status := c.Query("status"); status != "" {
		q = q.Where("staff_calls.status = ?", status)
	}

	var calls []models.StaffCall
	if err := q.Order("staff_calls.created_at desc").Find(&calls).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of staff calls", calls)
}

// UpdateStaffCall -> acknowledge or complete a call
func (sc *StaffCallController) UpdateStaffCall(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("call_id"))

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Status != models.RequestAcknowledged && req.Status != models.RequestCompleted {
		utils.RespondError(c, http.StatusBadRequest, services.ErrInvalidStatus)
		return
	}

	ownerID := middlewares.OwnerScope(c)

	var call models.StaffCall
	err := sc.DB.Joins("JOIN qr_sessions ON qr_sessions.id = staff_calls.qr_session_id").
		Joins("JOIN tables ON tables.id = qr_sessions.table_id").
		Where("tables.owner_id = ?", ownerID).
		First(&call, "staff_calls.id = ?", id).Error
	if err != nil {
		respondServiceError(c, services.ErrSessionNotFound)
		return
	}

	call.Status = req.Status
	if err := sc.DB.Save(&call).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Staff call updated", call)
}
