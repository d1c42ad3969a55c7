package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/venuehub/server/internal/models"
	"github.com/venuehub/server/internal/services"
)

func SaveVenue(ss *services.SavedVenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		venueID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		saved, err := ss.SaveVenue(c.Request.Context(), userID, venueID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(saved, "Venue saved"))
	}
}

func UnsaveVenue(ss *services.SavedVenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		venueID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		if err := ss.UnsaveVenue(c.Request.Context(), userID, venueID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Venue removed from saved list"))
	}
}

func GetSavedVenues(ss *services.SavedVenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		saved, err := ss.GetSavedVenues(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(saved, ""))
	}
}
