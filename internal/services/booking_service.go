package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/venuehub/server/internal/models"
	"github.com/venuehub/server/internal/payment"
)

const bookingCurrency = "INR"

// BookingService owns the booking lifecycle: creation with conflict checking,
// the two-phase advance/balance payment flow, cancellation and refunds, and
// the availability and revenue queries.
type BookingService struct {
	bookingsRepo  models.BookingsRepo
	blockedRepo   models.BlockedDatesRepo
	venuesRepo    models.VenuesRepo
	gateway       payment.Gateway
	locker        VenueLocker
	notifier      *NotificationService
	gatewaySecret string
}

func NewBookingService(
	bookingsRepo models.BookingsRepo,
	blockedRepo models.BlockedDatesRepo,
	venuesRepo models.VenuesRepo,
	gateway payment.Gateway,
	locker VenueLocker,
	notifier *NotificationService,
	gatewaySecret string,
) *BookingService {
	return &BookingService{
		bookingsRepo:  bookingsRepo,
		blockedRepo:   blockedRepo,
		venuesRepo:    venuesRepo,
		gateway:       gateway,
		locker:        locker,
		notifier:      notifier,
		gatewaySecret: gatewaySecret,
	}
}

// CreateBooking checks the requested range against existing bookings and
// vendor blackout windows, persists the booking in pending state, and creates
// a gateway order for the 20% advance. The per-venue lock makes the
// check-then-insert pair atomic with respect to concurrent requests.
func (bs *BookingService) CreateBooking(ctx context.Context, userID, venueID uuid.UUID, start, end time.Time, totalPrice float64) (*models.Booking, *payment.Order, error) {
	if userID == uuid.Nil || venueID == uuid.Nil {
		return nil, nil, fmt.Errorf("invalid user or venue ID: %w", models.ErrValidation)
	}
	if !end.After(start) {
		return nil, nil, fmt.Errorf("end date must be after start date: %w", models.ErrValidation)
	}
	if totalPrice <= 0 {
		return nil, nil, fmt.Errorf("total price must be positive: %w", models.ErrValidation)
	}

	venue, err := bs.venuesRepo.GetVenueByID(ctx, venueID)
	if err != nil {
		return nil, nil, err
	}
	if !venue.IsBookable() {
		return nil, nil, fmt.Errorf("venue is not open for bookings: %w", models.ErrInvalidState)
	}

	release, err := bs.locker.Acquire(ctx, venueID)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	overlapping, err := bs.bookingsRepo.CountOverlappingBookings(ctx, venueID, start, end)
	if err != nil {
		return nil, nil, err
	}
	if overlapping > 0 {
		return nil, nil, fmt.Errorf("venue already booked for these dates: %w", models.ErrConflict)
	}

	blocked, err := bs.blockedRepo.CountOverlappingBlocks(ctx, venueID, start, end)
	if err != nil {
		return nil, nil, err
	}
	if blocked > 0 {
		return nil, nil, fmt.Errorf("venue is unavailable for these dates: %w", models.ErrConflict)
	}

	advance := models.AdvanceFor(totalPrice)
	booking := &models.Booking{
		UserID:        userID,
		VenueID:       venueID,
		VendorID:      venue.VendorID,
		StartDate:     start,
		EndDate:       end,
		TotalPrice:    totalPrice,
		AdvanceAmount: advance,
		BalanceDue:    totalPrice - advance,
		Status:        models.BookingPending,
	}

	booking, err = bs.bookingsRepo.InsertBooking(ctx, booking)
	if err != nil {
		return nil, nil, err
	}

	order, err := bs.gateway.CreateOrder(ctx, payment.MinorUnits(advance), bookingCurrency, receiptFor(booking.ID, "adv"))
	if err != nil {
		// Booking stays pending without an order; the client may not retry.
		return nil, nil, fmt.Errorf("%w: %v", models.ErrGateway, err)
	}

	booking, err = bs.bookingsRepo.SetAdvanceOrder(ctx, booking.ID, order.ID)
	if err != nil {
		return nil, nil, err
	}

	bs.notifier.Notify(ctx, venue.VendorID, models.NotificationBookingCreated,
		"New booking request",
		fmt.Sprintf("Venue %s booked from %s to %s", venue.Name, start.Format("2006-01-02"), end.Format("2006-01-02")),
		booking.ID.String())

	return booking, order, nil
}

// VerifyAdvancePayment validates the gateway signature for the advance order
// and transitions the booking to advance_paid. The status-filtered update on
// the repo side makes a racing duplicate call fail instead of double-applying.
func (bs *BookingService) VerifyAdvancePayment(ctx context.Context, bookingID uuid.UUID, paymentID, signature string) (*models.Booking, error) {
	booking, err := bs.bookingsRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.AdvanceOrderID == "" {
		return nil, fmt.Errorf("booking has no advance order: %w", models.ErrInvalidState)
	}
	if !payment.VerifySignature(booking.AdvanceOrderID, paymentID, signature, bs.gatewaySecret) {
		return nil, fmt.Errorf("payment signature verification failed: %w", models.ErrValidation)
	}

	booking, err = bs.bookingsRepo.MarkAdvancePaid(ctx, bookingID, paymentID)
	if err != nil {
		return nil, err
	}

	bs.notifier.Notify(ctx, booking.VendorID, models.NotificationAdvancePaid,
		"Advance payment received",
		fmt.Sprintf("Advance of %.2f received for booking", booking.AdvanceAmount),
		booking.ID.String())

	return booking, nil
}

// CreateBalanceOrder opens the second payment phase. Only the booking owner
// can request it and only from advance_paid.
func (bs *BookingService) CreateBalanceOrder(ctx context.Context, bookingID, userID uuid.UUID) (*models.Booking, *payment.Order, error) {
	booking, err := bs.bookingsRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if booking.UserID != userID {
		return nil, nil, fmt.Errorf("booking belongs to another user: %w", models.ErrUnauthorized)
	}
	if booking.Status != models.BookingAdvancePaid {
		return nil, nil, fmt.Errorf("balance order requires advance payment first: %w", models.ErrInvalidState)
	}

	order, err := bs.gateway.CreateOrder(ctx, payment.MinorUnits(booking.BalanceDue), bookingCurrency, receiptFor(booking.ID, "bal"))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", models.ErrGateway, err)
	}

	booking, err = bs.bookingsRepo.SetBalanceOrder(ctx, bookingID, order.ID)
	if err != nil {
		return nil, nil, err
	}
	return booking, order, nil
}

// VerifyBalancePayment settles the booking: on a valid signature it computes
// the 5% commission split, zeroes the balance, and marks the booking
// fully_paid in one conditional update.
func (bs *BookingService) VerifyBalancePayment(ctx context.Context, bookingID uuid.UUID, paymentID, signature string) (*models.Booking, error) {
	booking, err := bs.bookingsRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingBalancePending || booking.BalanceOrderID == "" {
		return nil, fmt.Errorf("booking has no pending balance order: %w", models.ErrInvalidState)
	}
	if !payment.VerifySignature(booking.BalanceOrderID, paymentID, signature, bs.gatewaySecret) {
		return nil, fmt.Errorf("payment signature verification failed: %w", models.ErrValidation)
	}

	commission := models.CommissionFor(booking.TotalPrice)
	vendorReceives := booking.TotalPrice - commission

	booking, err = bs.bookingsRepo.MarkFullyPaid(ctx, bookingID, paymentID, commission, vendorReceives)
	if err != nil {
		return nil, err
	}

	bs.notifier.Notify(ctx, booking.UserID, models.NotificationBookingSettled,
		"Booking confirmed", "Your booking is fully paid", booking.ID.String())
	bs.notifier.Notify(ctx, booking.VendorID, models.NotificationBookingSettled,
		"Booking settled",
		fmt.Sprintf("Settlement of %.2f due after %.2f commission", vendorReceives, commission),
		booking.ID.String())

	return booking, nil
}

// CancelByUser cancels the caller's own booking from pending or advance_paid.
// No refund is issued on this path.
func (bs *BookingService) CancelByUser(ctx context.Context, bookingID, userID uuid.UUID) (*models.Booking, error) {
	booking, err := bs.bookingsRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, fmt.Errorf("booking belongs to another user: %w", models.ErrUnauthorized)
	}

	booking, err = bs.bookingsRepo.CancelByUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}

	bs.notifier.Notify(ctx, booking.VendorID, models.NotificationBookingCancelled,
		"Booking cancelled", "The guest cancelled the booking", booking.ID.String())

	return booking, nil
}

// CancelByVendor cancels an advance_paid booking, refunding the advance
// through the gateway first. A refund failure leaves the booking untouched
// for manual operator follow-up.
func (bs *BookingService) CancelByVendor(ctx context.Context, bookingID, vendorID uuid.UUID, reason string) (*models.Booking, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("cancellation reason is required: %w", models.ErrValidation)
	}

	booking, err := bs.bookingsRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.VendorID != vendorID {
		return nil, fmt.Errorf("booking belongs to another vendor: %w", models.ErrUnauthorized)
	}
	if booking.Status != models.BookingAdvancePaid {
		return nil, fmt.Errorf("vendor can only cancel after advance payment: %w", models.ErrInvalidState)
	}

	refund, err := bs.gateway.Refund(ctx, booking.AdvancePaymentID, payment.MinorUnits(booking.AdvanceAmount))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrGateway, err)
	}

	booking, err = bs.bookingsRepo.CancelByVendor(ctx, bookingID, reason, refund.ID, booking.TotalPrice)
	if err != nil {
		return nil, err
	}

	bs.notifier.Notify(ctx, booking.UserID, models.NotificationBookingCancelled,
		"Booking cancelled by venue",
		fmt.Sprintf("Your advance of %.2f has been refunded. Reason: %s", booking.AdvanceAmount, reason),
		booking.ID.String())

	return booking, nil
}

// BookedDates returns the flat union of non-cancelled booking ranges and
// vendor blackout windows for calendar rendering. Overlapping intervals are
// not merged.
func (bs *BookingService) BookedDates(ctx context.Context, venueID uuid.UUID) ([]models.DateInterval, error) {
	if venueID == uuid.Nil {
		return nil, fmt.Errorf("invalid venue ID: %w", models.ErrValidation)
	}

	intervals, err := bs.bookingsRepo.BookedIntervals(ctx, venueID)
	if err != nil {
		return nil, err
	}

	blocked, err := bs.blockedRepo.ListBlockedDates(ctx, venueID)
	if err != nil {
		return nil, err
	}
	for _, b := range blocked {
		intervals = append(intervals, models.DateInterval{
			Start:  b.StartDate,
			End:    b.EndDate,
			Source: "blocked",
			Reason: b.Reason,
		})
	}
	return intervals, nil
}

func (bs *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	return bs.bookingsRepo.GetBookingByID(ctx, bookingID)
}

func (bs *BookingService) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]*models.Booking, error) {
	return bs.bookingsRepo.ListBookingsByUser(ctx, userID)
}

func (bs *BookingService) ListVendorBookings(ctx context.Context, vendorID uuid.UUID) ([]*models.Booking, error) {
	return bs.bookingsRepo.ListBookingsByVendor(ctx, vendorID)
}

// PlatformRevenue is the admin-wide monthly commission rollup.
func (bs *BookingService) PlatformRevenue(ctx context.Context) ([]models.MonthlyRevenue, error) {
	return bs.bookingsRepo.MonthlyCommission(ctx)
}

// VendorRevenue is the vendor's monthly settlement rollup.
func (bs *BookingService) VendorRevenue(ctx context.Context, vendorID uuid.UUID) ([]models.MonthlyRevenue, error) {
	return bs.bookingsRepo.MonthlyVendorRevenue(ctx, vendorID)
}

func receiptFor(bookingID uuid.UUID, phase string) string {
	// Gateway receipts are capped at 40 chars; the first uuid block is enough
	// to correlate with logs.
	return "bkg_" + phase + "_" + strings.Split(bookingID.String(), "-")[0]
}
