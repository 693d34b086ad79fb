package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tay1862/mefood-tay-sub002/services"
	"github.com/tay1862/mefood-tay-sub002/utils"
)

var errInternal = errors.New("internal server error")

// respondServiceError maps service-layer errors onto HTTP statuses. Unknown
// errors collapse to a generic 500 so store details never leak.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrTableInactive),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrNoActiveSession),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrMenuNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrQRDisabled):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrTableOccupied),
		errors.Is(err, services.ErrDuplicateNumber):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrMissingReason),
		services.IsInvalidState(err):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.ErrorLogger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondError(c, http.StatusInternalServerError, errInternal)
	}
}
