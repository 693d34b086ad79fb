package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tay1862/mefood-tay-sub002/services"
	"github.com/tay1862/mefood-tay-sub002/utils"
)

// QRSessionController serves the anonymous customer surface: a device scans
// a table's QR code, gets a session token, and uses it for everything else.
type QRSessionController struct {
	DB       *gorm.DB
	Sessions *services.QRSessionService
}

func NewQRSessionController(db *gorm.DB) *QRSessionController {
	return &QRSessionController{
		DB:       db,
		Sessions: services.NewQRSessionService(db),
	}
}

// ScanTable -> open (or rejoin) the QR session on a table
func (qc *QRSessionController) ScanTable(c *gin.Context) {
	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil || tableID <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errMissingTableID)
		return
	}

	var req struct {
		CustomerName string `json:"customer_name"`
		GuestCount   int    `json:"guest_count"`
	}
	// Body is optional on a plain scan.
	_ = c.ShouldBindJSON(&req)

	session, err := qc.Sessions.OpenSession(uint(tableID), req.CustomerName, req.GuestCount)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Session open", gin.H{
		"token":   session.Token,
		"session": session,
		"table":   session.Table,
	})
}

// GetSession -> validate a customer token and return the session context
func (qc *QRSessionController) GetSession(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.RespondError(c, http.StatusBadRequest, errMissingToken)
		return
	}

	session, err := qc.Sessions.ValidateSession(token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session valid", gin.H{
		"session": session,
		"table":   session.Table,
	})
}

// EndSession -> staff closes a session (customer left without checkout)
func (qc *QRSessionController) EndSession(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := qc.Sessions.EndSession(req.Token, nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session ended", session)
}

var errMissingToken = errors.New("token is required")
