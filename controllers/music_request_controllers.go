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

type MusicRequestController struct {
	DB       *gorm.DB
	Sessions *services.QRSessionService
}

func NewMusicRequestController(db *gorm.DB) *MusicRequestController {
	return &MusicRequestController{
		DB:       db,
		Sessions: services.NewQRSessionService(db),
	}
}

// CreateMusicRequest -> customer requests a song from their session
func (mr *MusicRequestController) CreateMusicRequest(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		SongName string `json:"song_name" binding:"required"`
		Artist   string `json:"artist"`
		Message  string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := mr.Sessions.ValidateSession(req.Token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	request := models.MusicRequest{
		QRSessionID: session.ID,
		SongName:    req.SongName,
		Artist:      req.Artist,
		Message:     req.Message,
		Status:      models.RequestPending,
	}
	if err := mr.DB.Create(&request).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastMusicRequest(session.Table.OwnerID, &request)
	utils.RespondJSON(c, http.StatusCreated, "Music requested", request)
}

// GetMusicRequests -> staff list song requests for their restaurant
func (mr *MusicRequestController) GetMusicRequests(c *gin.Context) {
	ownerID := middlewares.OwnerScope(c)

	q := mr.DB.Preload("QRSession").Preload("QRSession.Table").
		Joins("JOIN qr_sessions ON qr_sessions.id = music_requests.qr_session_id").
		Joins("JOIN tables ON tables.id = qr_sessions.table_id").
		Where("tables.owner_id = ?", ownerID)
	if status := c.Query("status"); status != "" {
		q = q.Where("music_requests.status = ?", status)
	}

	var requests []models.MusicRequest
	if err := q.Order("music_requests.created_at desc").Find(&requests).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of music requests", requests)
}

// UpdateMusicRequest -> staff acknowledge or complete a request
func (mr *MusicRequestController) UpdateMusicRequest(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("request_id"))

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

	var request models.MusicRequest
	err := mr.DB.Joins("JOIN qr_sessions ON qr_sessions.id = music_requests.qr_session_id").
		Joins("JOIN tables ON tables.id = qr_sessions.table_id").
		Where("tables.owner_id = ?", ownerID).
		First(&request, "music_requests.id = ?", id).Error
	if err != nil {
		respondServiceError(c, services.ErrSessionNotFound)
		return
	}

	request.Status = req.Status
	if err := mr.DB.Save(&request).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Music request updated", request)
}
