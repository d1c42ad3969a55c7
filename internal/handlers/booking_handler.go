package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/venuehub/server/internal/models"
	"github.com/venuehub/server/internal/services"
)

func CreateBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var req struct {
			VenueID    string    `json:"venue_id" binding:"required"`
			StartDate  time.Time `json:"start_date" binding:"required"`
			EndDate    time.Time `json:"end_date" binding:"required"`
			TotalPrice float64   `json:"total_price" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body: "+err.Error()))
			return
		}
		venueID, err := uuid.Parse(req.VenueID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid venue_id"))
			return
		}

		booking, order, err := bs.CreateBooking(c.Request.Context(), userID, venueID, req.StartDate, req.EndDate, req.TotalPrice)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(gin.H{
			"booking": booking,
			"order":   order,
		}, "Booking created, advance payment pending"))
	}
}

func VerifyAdvancePayment(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var req struct {
			PaymentID string `json:"payment_id" binding:"required"`
			Signature string `json:"signature" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body: "+err.Error()))
			return
		}

		booking, err := bs.VerifyAdvancePayment(c.Request.Context(), bookingID, req.PaymentID, req.Signature)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Advance payment verified"))
	}
}

func CreateBalanceOrder(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		bookingID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		booking, order, err := bs.CreateBalanceOrder(c.Request.Context(), bookingID, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(gin.H{
			"booking": booking,
			"order":   order,
		}, "Balance order created"))
	}
}

func VerifyBalancePayment(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var req struct {
			PaymentID string `json:"payment_id" binding:"required"`
			Signature string `json:"signature" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body: "+err.Error()))
			return
		}

		booking, err := bs.VerifyBalancePayment(c.Request.Context(), bookingID, req.PaymentID, req.Signature)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Booking fully paid"))
	}
}

func CancelBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		bookingID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		booking, err := bs.CancelByUser(c.Request.Context(), bookingID, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Booking cancelled"))
	}
}

func VendorCancelBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := currentUserID(c)
		if !ok {
			return
		}
		bookingID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var req struct {
			Reason string `json:"reason" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body: "+err.Error()))
			return
		}

		booking, err := bs.CancelByVendor(c.Request.Context(), bookingID, vendorID, req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Booking cancelled, advance refunded"))
	}
}

func GetBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentClaims(c)
		if !ok {
			return
		}
		bookingID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		booking, err := bs.GetBooking(c.Request.Context(), bookingID)
		if err != nil {
			respondError(c, err)
			return
		}
		// Visible to the guest, the vendor, and admins only.
		if !claims.IsAdmin() && !claims.IsOwner(booking.UserID.String()) && !claims.IsOwner(booking.VendorID.String()) {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("Unauthorized"))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(booking, ""))
	}
}

func ListMyBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		bookings, err := bs.ListUserBookings(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(bookings, ""))
	}
}

func ListVendorBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := currentUserID(c)
		if !ok {
			return
		}

		bookings, err := bs.ListVendorBookings(c.Request.Context(), vendorID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(bookings, ""))
	}
}

func GetBookedDates(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		intervals, err := bs.BookedDates(c.Request.Context(), venueID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(intervals, ""))
	}
}

func VendorRevenue(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := currentUserID(c)
		if !ok {
			return
		}

		rows, err := bs.VendorRevenue(c.Request.Context(), vendorID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(rows, ""))
	}
}
