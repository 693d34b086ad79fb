package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tay1862/mefood-tay-sub002/events"
	"github.com/tay1862/mefood-tay-sub002/middlewares"
	"github.com/tay1862/mefood-tay-sub002/models"
	"github.com/tay1862/mefood-tay-sub002/services"
	"github.com/tay1862/mefood-tay-sub002/utils"
)

type TableController struct {
	DB       *gorm.DB
	TableOps *services.TableOpsService
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{
		DB:       db,
		TableOps: services.NewTableOpsService(db),
	}
}

// CreateTable -> add a table to the floor plan
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Number    string `json:"number" binding:"required"`
		Name      string `json:"name"`
		Capacity  int    `json:"capacity"`
		PosX      int    `json:"pos_x"`
		PosY      int    `json:"pos_y"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		SortOrder int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ownerID := middlewares.OwnerScope(c)

	// Table numbers are unique per restaurant. The unique index is the
	// backstop; this check gives a usable message.
	var count int64
	tc.DB.Model(&models.Table{}).
		Where("owner_id = ? AND number = ?", ownerID, req.Number).
		Count(&count)
	if count > 0 {
		respondServiceError(c, services.ErrDuplicateNumber)
		return
	}

	table := models.Table{
		OwnerID:           ownerID,
		Number:            req.Number,
		Name:              req.Name,
		Capacity:          req.Capacity,
		IsActive:          true,
		QROrderingEnabled: true,
		PosX:              req.PosX,
		PosY:              req.PosY,
		Width:             req.Width,
		Height:            req.Height,
		SortOrder:         req.SortOrder,
	}
	if table.Capacity <= 0 {
		table.Capacity = 4
	}
	if table.Width <= 0 {
		table.Width = 1
	}
	if table.Height <= 0 {
		table.Height = 1
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "Duplicate") {
			respondServiceError(c, services.ErrDuplicateNumber)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableUpdate(&table)
	utils.InfoLogger.Printf("Table %s created for owner %d", table.Number, ownerID)
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

// GetAllTables -> the owner's floor plan, in sort order
func (tc *TableController) GetAllTables(c *gin.Context) {
	ownerID := middlewares.OwnerScope(c)

	var tables []models.Table
	err := tc.DB.Where("owner_id = ?", ownerID).
		Order("sort_order asc, number asc").
		Find(&tables).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> one table
func (tc *TableController) GetTableByID(c *gin.Context) {
	ownerID := middlewares.OwnerScope(c)
	id, _ := strconv.Atoi(c.Param("table_id"))

	var table models.Table
	err := tc.DB.Where("owner_id = ?", ownerID).First(&table, id).Error
	if err != nil {
		respondServiceError(c, services.ErrTableNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable -> name, capacity, layout, flags
func (tc *TableController) UpdateTable(c *gin.Context) {
	ownerID := middlewares.OwnerScope(c)
	id, _ := strconv.Atoi(c.Param("table_id"))

	var req struct {
		Name              *string `json:"name"`
		Capacity          *int    `json:"capacity"`
		IsActive          *bool   `json:"is_active"`
		QROrderingEnabled *bool   `json:"qr_ordering_enabled"`
		PosX              *int    `json:"pos_x"`
		PosY              *int    `json:"pos_y"`
		Width             *int    `json:"width"`
		Height            *int    `json:"height"`
		SortOrder         *int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.Where("owner_id = ?", ownerID).First(&table, id).Error; err != nil {
		respondServiceError(c, services.ErrTableNotFound)
		return
	}

	if req.Name != nil {
		table.Name = *req.Name
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}
	if req.QROrderingEnabled != nil {
		table.QROrderingEnabled = *req.QROrderingEnabled
	}
	if req.PosX != nil {
		table.PosX = *req.PosX
	}
	if req.PosY != nil {
		table.PosY = *req.PosY
	}
	if req.Width != nil {
		table.Width = *req.Width
	}
	if req.Height != nil {
		table.Height = *req.Height
	}
	if req.SortOrder != nil {
		table.SortOrder = *req.SortOrder
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableUpdate(&table)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeactivateTable -> soft delete; sessions and orders keep their references
func (tc *TableController) DeactivateTable(c *gin.Context) {
	ownerID := middlewares.OwnerScope(c)
	id, _ := strconv.Atoi(c.Param("table_id"))

	var table models.Table
	if err := tc.DB.Where("owner_id = ?", ownerID).First(&table, id).Error; err != nil {
		respondServiceError(c, services.ErrTableNotFound)
		return
	}

	table.IsActive = false
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableUpdate(&table)
	utils.InfoLogger.Printf("Table %d deactivated", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deactivated", table)
}

// MergeTables -> fold the source table's session into the target's
func (tc *TableController) MergeTables(c *gin.Context) {
	var req struct {
		SourceTableID uint `json:"source_table_id" binding:"required"`
		TargetTableID uint `json:"target_table_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ownerID := middlewares.OwnerScope(c)
	result, err := tc.TableOps.MergeTables(ownerID, req.SourceTableID, req.TargetTableID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastTablesMerged(ownerID, result)
	utils.RespondJSON(c, http.StatusOK, "Tables merged", result)
}

// MoveTable -> re-point a QR session (and its orders) at another table
func (tc *TableController) MoveTable(c *gin.Context) {
	var req struct {
		QRSessionID uint `json:"qr_session_id" binding:"required"`
		NewTableID  uint `json:"new_table_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ownerID := middlewares.OwnerScope(c)
	session, err := tc.TableOps.MoveTable(ownerID, req.QRSessionID, req.NewTableID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events.BroadcastFloorUpdate(ownerID, session)
	utils.RespondJSON(c, http.StatusOK, "Session moved", session)
}

var errMissingTableID = errors.New("table_id is required")
