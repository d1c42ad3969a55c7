package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/venuehub/server/internal/models"
	"github.com/venuehub/server/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func CreateReview(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var review models.VenueReview
		if err := c.ShouldBindJSON(&review); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body: "+err.Error()))
			return
		}

		created, err := rs.CreateReview(c.Request.Context(), userID, &review)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Review submitted for approval"))
	}
}

func GetVenueReviews(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		reviews, err := rs.GetReviewsByVenue(c.Request.Context(), venueID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(reviews, ""))
	}
}

func GetMyReviews(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		reviews, err := rs.GetReviewsByUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(reviews, ""))
	}
}

func UpdateReview(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		reviewID, ok := parseObjectIDParam(c, "id")
		if !ok {
			return
		}

		var update map[string]interface{}
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body: "+err.Error()))
			return
		}

		review, err := rs.UpdateReview(c.Request.Context(), userID, reviewID, update)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(review, "Review updated"))
	}
}

func DeleteReview(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		reviewID, ok := parseObjectIDParam(c, "id")
		if !ok {
			return
		}

		if err := rs.DeleteReview(c.Request.Context(), userID, reviewID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Review deleted"))
	}
}

func parseObjectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid "+name))
		return primitive.NilObjectID, false
	}
	return id, true
}
