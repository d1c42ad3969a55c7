package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/venuehub/server/internal/models"
	"github.com/venuehub/server/internal/services"
)

// Admin moderation and reporting endpoints. All routes using these handlers
// sit behind RequireRole("admin").

func ListPendingVenues(vs *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagination(c)

		venues, total, err := vs.ListPendingVenues(c.Request.Context(), (page-1)*limit, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(venues, page, limit, total))
	}
}

func ModerateVenue(vs *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var req struct {
			Approve *bool `json:"approve" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body: "+err.Error()))
			return
		}

		venue, err := vs.ModerateVenue(c.Request.Context(), venueID, *req.Approve)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(venue, "Venue moderated"))
	}
}

func PlatformRevenue(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := bs.PlatformRevenue(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(rows, ""))
	}
}

func ListPendingReviews(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := rs.ListPendingReviews(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(reviews, ""))
	}
}

func ModerateReview(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, ok := parseObjectIDParam(c, "id")
		if !ok {
			return
		}

		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body: "+err.Error()))
			return
		}

		review, err := rs.ModerateReview(c.Request.Context(), reviewID, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(review, "Review moderated"))
	}
}
