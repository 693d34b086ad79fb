package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tay1862/mefood-tay-sub002/middlewares"
	"github.com/tay1862/mefood-tay-sub002/models"
	"github.com/tay1862/mefood-tay-sub002/services"
	"github.com/tay1862/mefood-tay-sub002/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// resolveMenuScope finds whose menu the caller may read: staff get their own
// restaurant from the auth context, anonymous customers get the restaurant
// that owns the table behind their session token.
func resolveMenuScope(c *gin.Context, db *gorm.DB) (uint, bool) {
	if _, authed := c.Get("owner_id"); authed {
		return middlewares.OwnerScope(c), true
	}

	token := c.Query("token")
	if token == "" {
		utils.RespondError(c, http.StatusBadRequest, errMissingToken)
		return 0, false
	}

	session, err := services.NewQRSessionService(db).ValidateSession(token)
	if err != nil {
		respondServiceError(c, err)
		return 0, false
	}
	return session.Table.OwnerID, true
}

// GetAllMenus -> the menu, available items only for customers
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	ownerID, ok := resolveMenuScope(c, mc.DB)
	if !ok {
		return
	}

	q := mc.DB.Preload("Category").Where("owner_id = ?", ownerID)
	if _, authed := c.Get("owner_id"); !authed {
		q = q.Where("is_available = ?", true)
	}
	if catID := c.Query("category_id"); catID != "" {
		q = q.Where("category_id = ?", catID)
	}

	var menus []models.Menu
	if err := q.Order("sort_order asc, name asc").Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// GetMenuByID
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	var menu models.Menu
	err := mc.DB.Preload("Category").
		Where("owner_id = ?", middlewares.OwnerScope(c)).
		First(&menu, id).Error
	if err != nil {
		respondServiceError(c, services.ErrMenuNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

// CreateMenu
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req struct {
		CategoryID  uint    `json:"category_id" binding:"required"`
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"required,gt=0"`
		SortOrder   int     `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ownerID := middlewares.OwnerScope(c)

	var category models.MenuCategory
	err := mc.DB.Where("owner_id = ?", ownerID).First(&category, req.CategoryID).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}

	menu := models.Menu{
		OwnerID:     ownerID,
		CategoryID:  category.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsAvailable: true,
		SortOrder:   req.SortOrder,
	}
	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Menu %q created (owner=%d, price=%s)",
		menu.Name, ownerID, utils.FormatCurrency(menu.Price))
	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// UpdateMenu -> price changes never touch existing order line snapshots
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	var req struct {
		CategoryID  *uint    `json:"category_id"`
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		IsAvailable *bool    `json:"is_available"`
		SortOrder   *int     `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var menu models.Menu
	err := mc.DB.Where("owner_id = ?", middlewares.OwnerScope(c)).First(&menu, id).Error
	if err != nil {
		respondServiceError(c, services.ErrMenuNotFound)
		return
	}

	if req.CategoryID != nil {
		menu.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		menu.Name = *req.Name
	}
	if req.Description != nil {
		menu.Description = *req.Description
	}
	if req.Price != nil {
		menu.Price = *req.Price
	}
	if req.IsAvailable != nil {
		menu.IsAvailable = *req.IsAvailable
	}
	if req.SortOrder != nil {
		menu.SortOrder = *req.SortOrder
	}

	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

// DeleteMenu -> hide rather than break old orders that reference it
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))
	ownerID := middlewares.OwnerScope(c)

	var menu models.Menu
	if err := mc.DB.Where("owner_id = ?", ownerID).First(&menu, id).Error; err != nil {
		respondServiceError(c, services.ErrMenuNotFound)
		return
	}

	var referenced int64
	mc.DB.Model(&models.OrderItem{}).Where("menu_id = ?", menu.ID).Count(&referenced)
	if referenced > 0 {
		menu.IsAvailable = false
		if err := mc.DB.Save(&menu).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Menu hidden (referenced by orders)", menu)
		return
	}

	if err := mc.DB.Delete(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", gin.H{"menu_id": id})
}
