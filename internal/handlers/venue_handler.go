package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/venuehub/server/internal/models"
	"github.com/venuehub/server/internal/services"
)

func CreateVenue(vs *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := currentUserID(c)
		if !ok {
			return
		}

		var venue models.Venue
		if err := c.ShouldBindJSON(&venue); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body: "+err.Error()))
			return
		}

		created, err := vs.CreateVenue(c.Request.Context(), &venue, vendorID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Venue submitted for verification"))
	}
}

func SearchVenues(vs *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagination(c)

		filter := models.VenueSearchFilter{
			Region: c.Query("region"),
		}
		if v, err := strconv.Atoi(c.Query("min_capacity")); err == nil {
			filter.MinCapacity = v
		}
		if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
			filter.MaxPrice = v
		}
		lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
		lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
		if latErr == nil && lngErr == nil {
			point := models.NewGeoPoint(lat, lng)
			filter.Near = &point
			if v, err := strconv.ParseFloat(c.Query("max_meters"), 64); err == nil {
				filter.MaxMeters = v
			}
		}

		venues, total, err := vs.SearchVenues(c.Request.Context(), filter, (page-1)*limit, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(venues, page, limit, total))
	}
}

func GetVenue(vs *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		venue, err := vs.GetVenueByID(c.Request.Context(), venueID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(venue, ""))
	}
}

func ListMyVenues(vs *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := currentUserID(c)
		if !ok {
			return
		}
		page, limit := pagination(c)

		venues, total, err := vs.ListVenuesByVendor(c.Request.Context(), vendorID, (page-1)*limit, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(venues, page, limit, total))
	}
}

func UpdateVenue(vs *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := currentUserID(c)
		if !ok {
			return
		}
		venueID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var update map[string]interface{}
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body: "+err.Error()))
			return
		}

		venue, err := vs.UpdateVenue(c.Request.Context(), vendorID, venueID, update)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(venue, "Venue updated"))
	}
}

func DeleteVenue(vs *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := currentUserID(c)
		if !ok {
			return
		}
		venueID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		if err := vs.DeleteVenue(c.Request.Context(), vendorID, venueID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Venue deleted"))
	}
}

func BlockDates(vs *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := currentUserID(c)
		if !ok {
			return
		}
		venueID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var req struct {
			StartDate time.Time `json:"start_date" binding:"required"`
			EndDate   time.Time `json:"end_date" binding:"required"`
			Reason    string    `json:"reason"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body: "+err.Error()))
			return
		}

		blocked, err := vs.BlockDates(c.Request.Context(), vendorID, venueID, req.StartDate, req.EndDate, req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(blocked, "Dates blocked"))
	}
}

func ListBlockedDates(vs *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		blocked, err := vs.ListBlockedDates(c.Request.Context(), venueID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(blocked, ""))
	}
}

func UnblockDates(vs *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := currentUserID(c)
		if !ok {
			return
		}
		venueID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		blockedID, ok := parseIDParam(c, "blockedId")
		if !ok {
			return
		}

		if err := vs.UnblockDates(c.Request.Context(), vendorID, venueID, blockedID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Blocked dates removed"))
	}
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
