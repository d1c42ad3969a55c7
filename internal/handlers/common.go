package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/venuehub/server/internal/helpers"
	"github.com/venuehub/server/internal/models"
)

// currentClaims pulls the authenticated claims set by the auth middleware.
func currentClaims(c *gin.Context) (*helpers.Claims, bool) {
	value, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("Unauthorized"))
		return nil, false
	}
	claims, ok := value.(*helpers.Claims)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("Invalid user claims"))
		return nil, false
	}
	return claims, true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	claims, ok := currentClaims(c)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("Invalid user ID in token"))
		return uuid.Nil, false
	}
	return id, true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors onto the HTTP boundary: validation,
// conflict and wrong-state failures are 400, auth failures are 401,
// everything else is 500. The error is also recorded on the context so the
// error-handler middleware logs it.
func respondError(c *gin.Context, err error) {
	c.Error(err)
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(err.Error()))
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrInvalidState),
		errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
	}
}
