package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tay1862/mefood-tay-sub002/events"
	"github.com/tay1862/mefood-tay-sub002/middlewares"
	"github.com/tay1862/mefood-tay-sub002/services"
	"github.com/tay1862/mefood-tay-sub002/utils"
)

// CustomerSessionController is the front-of-house surface: the waiting
// queue, seating and checkout.
type CustomerSessionController struct {
	DB       *gorm.DB
	Sessions *services.CustomerSessionService
}

func NewCustomerSessionController(db *gorm.DB) *CustomerSessionController {
	return &CustomerSessionController{
		DB:       db,
		Sessions: services.NewCustomerSessionService(db),
	}
}

// CheckIn -> add a walk-in party to the waiting queue
func (cc *CustomerSessionController) CheckIn(c *gin.Context) {
	var req struct {
		CustomerName  string `json:"customer_name"`
		CustomerPhone string `json:"customer_phone"`
		PartySize     int    `json:"party_size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ownerID := middlewares.OwnerScope(c)
	session, err := cc.Sessions.CheckIn(ownerID, req.CustomerName, req.CustomerPhone, req.PartySize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastSessionUpdate(session)
	utils.RespondJSON(c, http.StatusCreated, "Party checked in", session)
}

// GetAllSessions -> the queue and floor, optionally filtered by status
func (cc *CustomerSessionController) GetAllSessions(c *gin.Context) {
	ownerID := middlewares.OwnerScope(c)

	sessions, err := cc.Sessions.List(ownerID, c.Query("status"))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of sessions", sessions)
}

// Seat -> assign a party to a table
func (cc *CustomerSessionController) Seat(c *gin.Context) {
	sessionID, _ := strconv.Atoi(c.Param("session_id"))

	var req struct {
		TableID uint `json:"table_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ownerID := middlewares.OwnerScope(c)
	actorID := middlewares.ActorID(c)
	session, err := cc.Sessions.Seat(ownerID, uint(sessionID), req.TableID, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastSessionUpdate(session)
	utils.RespondJSON(c, http.StatusOK, "Party seated", session)
}

// UpdateStatus -> move the party along the dining lifecycle
func (cc *CustomerSessionController) UpdateStatus(c *gin.Context) {
	sessionID, _ := strconv.Atoi(c.Param("session_id"))

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ownerID := middlewares.OwnerScope(c)
	session, err := cc.Sessions.UpdateStatus(ownerID, uint(sessionID), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastSessionUpdate(session)
	utils.RespondJSON(c, http.StatusOK, "Session status updated", session)
}

// Checkout -> complete the visit; idempotent on repeat calls
func (cc *CustomerSessionController) Checkout(c *gin.Context) {
	sessionID, _ := strconv.Atoi(c.Param("session_id"))

	ownerID := middlewares.OwnerScope(c)
	session, err := cc.Sessions.Checkout(ownerID, uint(sessionID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastSessionUpdate(session)
	utils.RespondJSON(c, http.StatusOK, "Session checked out", session)
}

// Remove -> drop a party from the waiting queue (waiting only)
func (cc *CustomerSessionController) Remove(c *gin.Context) {
	sessionID, _ := strconv.Atoi(c.Param("session_id"))

	ownerID := middlewares.OwnerScope(c)
	if err := cc.Sessions.Remove(ownerID, uint(sessionID)); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session removed", gin.H{
		"session_id": sessionID,
	})
}
