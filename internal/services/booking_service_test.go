package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venuehub/server/internal/models"
	"github.com/venuehub/server/internal/payment"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testGatewaySecret = "test-secret"

// fakeBookingsRepo mirrors the conditional-transition semantics of the Mongo
// implementation: a transition whose status filter does not match fails with
// ErrInvalidState instead of mutating.
type fakeBookingsRepo struct {
	bookings map[uuid.UUID]*models.Booking
}

func newFakeBookingsRepo() *fakeBookingsRepo {
	return &fakeBookingsRepo{bookings: make(map[uuid.UUID]*models.Booking)}
}

func (f *fakeBookingsRepo) InsertBooking(_ context.Context, b *models.Booking) (*models.Booking, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	stored := *b
	f.bookings[b.ID] = &stored
	return b, nil
}

func (f *fakeBookingsRepo) GetBookingByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking not found: %w", models.ErrNotFound)
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingsRepo) transition(id uuid.UUID, allowed []models.BookingStatus, mutate func(*models.Booking)) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if ok {
		for _, s := range allowed {
			if b.Status == s {
				mutate(b)
				b.UpdatedAt = time.Now()
				copied := *b
				return &copied, nil
			}
		}
	}
	return nil, fmt.Errorf("booking missing or already transitioned: %w", models.ErrInvalidState)
}

func (f *fakeBookingsRepo) CountOverlappingBookings(_ context.Context, venueID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	for _, b := range f.bookings {
		if b.VenueID != venueID || b.Status == models.BookingCancelledByUser || b.Status == models.BookingCancelledByVendor {
			continue
		}
		if b.StartDate.Before(end) && b.EndDate.After(start) {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingsRepo) SetAdvanceOrder(_ context.Context, id uuid.UUID, orderID string) (*models.Booking, error) {
	return f.transition(id, []models.BookingStatus{models.BookingPending}, func(b *models.Booking) {
		b.AdvanceOrderID = orderID
	})
}

func (f *fakeBookingsRepo) MarkAdvancePaid(_ context.Context, id uuid.UUID, paymentID string) (*models.Booking, error) {
	return f.transition(id, []models.BookingStatus{models.BookingPending}, func(b *models.Booking) {
		b.Status = models.BookingAdvancePaid
		b.AdvancePaid = true
		b.AdvancePaymentID = paymentID
	})
}

func (f *fakeBookingsRepo) SetBalanceOrder(_ context.Context, id uuid.UUID, orderID string) (*models.Booking, error) {
	return f.transition(id, []models.BookingStatus{models.BookingAdvancePaid}, func(b *models.Booking) {
		b.Status = models.BookingBalancePending
		b.BalanceOrderID = orderID
	})
}

func (f *fakeBookingsRepo) MarkFullyPaid(_ context.Context, id uuid.UUID, paymentID string, commission, vendorReceives float64) (*models.Booking, error) {
	return f.transition(id, []models.BookingStatus{models.BookingBalancePending}, func(b *models.Booking) {
		b.Status = models.BookingFullyPaid
		b.BalancePaymentID = paymentID
		b.BalanceDue = 0
		b.CommissionAmount = commission
		b.VendorReceives = vendorReceives
	})
}

func (f *fakeBookingsRepo) CancelByUser(_ context.Context, id, userID uuid.UUID) (*models.Booking, error) {
	if b, ok := f.bookings[id]; !ok || b.UserID != userID {
		return nil, fmt.Errorf("booking missing or already transitioned: %w", models.ErrInvalidState)
	}
	return f.transition(id, []models.BookingStatus{models.BookingPending, models.BookingAdvancePaid}, func(b *models.Booking) {
		b.Status = models.BookingCancelledByUser
	})
}

func (f *fakeBookingsRepo) CancelByVendor(_ context.Context, id uuid.UUID, reason, refundID string, totalPrice float64) (*models.Booking, error) {
	return f.transition(id, []models.BookingStatus{models.BookingAdvancePaid}, func(b *models.Booking) {
		b.Status = models.BookingCancelledByVendor
		b.CancellationReason = reason
		b.RefundID = refundID
		b.BalanceDue = totalPrice
	})
}

func (f *fakeBookingsRepo) ListBookingsByUser(_ context.Context, userID uuid.UUID) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeBookingsRepo) ListBookingsByVendor(_ context.Context, vendorID uuid.UUID) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, b := range f.bookings {
		if b.VendorID == vendorID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeBookingsRepo) BookedIntervals(_ context.Context, venueID uuid.UUID) ([]models.DateInterval, error) {
	var out []models.DateInterval
	for _, b := range f.bookings {
		if b.VenueID != venueID || b.Status == models.BookingCancelledByUser || b.Status == models.BookingCancelledByVendor {
			continue
		}
		out = append(out, models.DateInterval{Start: b.StartDate, End: b.EndDate, Source: "booking"})
	}
	return out, nil
}

// rollup mirrors the aggregation pipeline: settled statuses only (including
// the legacy "confirmed"), grouped by calendar month of creation.
func (f *fakeBookingsRepo) rollup(vendorID *uuid.UUID) []models.MonthlyRevenue {
	type monthKey struct{ year, month int }
	agg := map[monthKey]*models.MonthlyRevenue{}
	for _, b := range f.bookings {
		if b.Status != models.BookingFullyPaid && b.Status != "confirmed" {
			continue
		}
		if vendorID != nil && b.VendorID != *vendorID {
			continue
		}
		k := monthKey{b.CreatedAt.Year(), int(b.CreatedAt.Month())}
		row := agg[k]
		if row == nil {
			row = &models.MonthlyRevenue{Year: k.year, Month: k.month}
			agg[k] = row
		}
		if vendorID == nil {
			row.Total += b.CommissionAmount
		} else {
			row.Total += b.VendorReceives
		}
		row.Bookings++
	}

	rows := make([]models.MonthlyRevenue, 0, len(agg))
	for _, row := range agg {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Month < rows[j].Month
	})
	return rows
}

func (f *fakeBookingsRepo) MonthlyCommission(context.Context) ([]models.MonthlyRevenue, error) {
	return f.rollup(nil), nil
}

func (f *fakeBookingsRepo) MonthlyVendorRevenue(_ context.Context, vendorID uuid.UUID) ([]models.MonthlyRevenue, error) {
	return f.rollup(&vendorID), nil
}

type fakeBlockedRepo struct {
	blocks []*models.BlockedDate
}

func (f *fakeBlockedRepo) CreateBlockedDate(_ context.Context, b *models.BlockedDate) (*models.BlockedDate, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	f.blocks = append(f.blocks, b)
	return b, nil
}

func (f *fakeBlockedRepo) ListBlockedDates(_ context.Context, venueID uuid.UUID) ([]*models.BlockedDate, error) {
	var out []*models.BlockedDate
	for _, b := range f.blocks {
		if b.VenueID == venueID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBlockedRepo) CountOverlappingBlocks(_ context.Context, venueID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	for _, b := range f.blocks {
		if b.VenueID == venueID && b.StartDate.Before(end) && b.EndDate.After(start) {
			count++
		}
	}
	return count, nil
}

func (f *fakeBlockedRepo) DeleteBlockedDate(_ context.Context, venueID, id uuid.UUID) error {
	for i, b := range f.blocks {
		if b.ID == id && b.VenueID == venueID {
			f.blocks = append(f.blocks[:i], f.blocks[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

type fakeVenuesRepo struct {
	venues map[uuid.UUID]*models.Venue
}

func (f *fakeVenuesRepo) CreateVenue(_ context.Context, v *models.Venue) (*models.Venue, error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	f.venues[v.ID] = v
	return v, nil
}

func (f *fakeVenuesRepo) GetVenueByID(_ context.Context, id uuid.UUID) (*models.Venue, error) {
	v, ok := f.venues[id]
	if !ok {
		return nil, fmt.Errorf("venue not found: %w", models.ErrNotFound)
	}
	return v, nil
}

func (f *fakeVenuesRepo) SearchVenues(context.Context, models.VenueSearchFilter, int, int) ([]*models.Venue, int, error) {
	return nil, 0, nil
}

func (f *fakeVenuesRepo) ListVenuesByVendor(context.Context, uuid.UUID, int, int) ([]*models.Venue, int, error) {
	return nil, 0, nil
}

func (f *fakeVenuesRepo) ListVenuesByVerification(context.Context, models.VerificationStatus, int, int) ([]*models.Venue, int, error) {
	return nil, 0, nil
}

func (f *fakeVenuesRepo) UpdateVenue(context.Context, uuid.UUID, uuid.UUID, map[string]interface{}) (*models.Venue, error) {
	return nil, models.ErrNotFound
}

func (f *fakeVenuesRepo) SetVenueVerification(context.Context, uuid.UUID, models.VerificationStatus) (*models.Venue, error) {
	return nil, models.ErrNotFound
}

func (f *fakeVenuesRepo) DeleteVenue(context.Context, uuid.UUID, uuid.UUID) error {
	return models.ErrNotFound
}

type fakeRefundCall struct {
	paymentID string
	amount    int64
}

type fakeGateway struct {
	orders     int
	failCreate bool
	failRefund bool
	refunds    []fakeRefundCall
}

func (g *fakeGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string) (*payment.Order, error) {
	if g.failCreate {
		return nil, errors.New("gateway unreachable")
	}
	g.orders++
	return &payment.Order{
		ID:       fmt.Sprintf("order_%d", g.orders),
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}

func (g *fakeGateway) Refund(_ context.Context, paymentID string, amountMinor int64) (*payment.Refund, error) {
	if g.failRefund {
		return nil, errors.New("refund rejected")
	}
	g.refunds = append(g.refunds, fakeRefundCall{paymentID: paymentID, amount: amountMinor})
	return &payment.Refund{ID: fmt.Sprintf("rfnd_%d", len(g.refunds)), Amount: amountMinor}, nil
}

type noopLocker struct{}

func (noopLocker) Acquire(context.Context, uuid.UUID) (func(), error) {
	return func() {}, nil
}

type fakeNotificationsRepo struct {
	inserted []*models.Notification
}

func (f *fakeNotificationsRepo) InsertNotification(_ context.Context, n *models.Notification) (*models.Notification, error) {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	n.CreatedAt = time.Now()
	f.inserted = append(f.inserted, n)
	return n, nil
}

func (f *fakeNotificationsRepo) ListNotificationsByUser(_ context.Context, userID uuid.UUID, _ int) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range f.inserted {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationsRepo) MarkNotificationRead(context.Context, uuid.UUID, primitive.ObjectID) error {
	return nil
}

type bookingFixture struct {
	svc      *BookingService
	bookings *fakeBookingsRepo
	blocked  *fakeBlockedRepo
	gateway  *fakeGateway
	notifs   *fakeNotificationsRepo

	userID   uuid.UUID
	vendorID uuid.UUID
	venueID  uuid.UUID
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	f := &bookingFixture{
		bookings: newFakeBookingsRepo(),
		blocked:  &fakeBlockedRepo{},
		gateway:  &fakeGateway{},
		notifs:   &fakeNotificationsRepo{},
		userID:   uuid.New(),
		vendorID: uuid.New(),
		venueID:  uuid.New(),
	}

	venues := &fakeVenuesRepo{venues: map[uuid.UUID]*models.Venue{
		f.venueID: {
			ID:           f.venueID,
			VendorID:     f.vendorID,
			Name:         "Riverside Hall",
			Status:       models.VenueOpen,
			Verification: models.VerificationApproved,
		},
	}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := NewNotificationService(f.notifs, nil, logger)
	f.svc = NewBookingService(f.bookings, f.blocked, venues, f.gateway, noopLocker{}, notifier, testGatewaySecret)
	return f
}

func signFor(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testGatewaySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func day(d int) time.Time {
	return time.Date(2026, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateBookingSplitsAdvanceAndBalance(t *testing.T) {
	f := newBookingFixture(t)

	booking, order, err := f.svc.CreateBooking(context.Background(), f.userID, f.venueID, day(10), day(12), 1000)
	require.NoError(t, err)

	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, 200.0, booking.AdvanceAmount)
	assert.Equal(t, 800.0, booking.BalanceDue)
	assert.Equal(t, booking.TotalPrice, booking.AdvanceAmount+booking.BalanceDue)
	assert.False(t, booking.AdvancePaid)
	assert.Equal(t, f.vendorID, booking.VendorID)

	require.NotNil(t, order)
	assert.Equal(t, int64(20000), order.Amount)
	assert.Equal(t, order.ID, booking.AdvanceOrderID)

	// Vendor is told about the new request.
	require.Len(t, f.notifs.inserted, 1)
	assert.Equal(t, f.vendorID, f.notifs.inserted[0].UserID)
	assert.Equal(t, models.NotificationBookingCreated, f.notifs.inserted[0].Type)
}

func TestCreateBookingValidation(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(12), day(10), 1000)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, _, err = f.svc.CreateBooking(ctx, f.userID, f.venueID, day(10), day(12), 0)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, _, err = f.svc.CreateBooking(ctx, uuid.Nil, f.venueID, day(10), day(12), 1000)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(10), day(12), 1000)
	require.NoError(t, err)

	_, _, err = f.svc.CreateBooking(ctx, uuid.New(), f.venueID, day(11), day(13), 500)
	assert.ErrorIs(t, err, models.ErrConflict)

	// Back-to-back is allowed: ranges are half-open.
	_, _, err = f.svc.CreateBooking(ctx, uuid.New(), f.venueID, day(12), day(14), 500)
	assert.NoError(t, err)
}

func TestCreateBookingIgnoresCancelledOverlap(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, _, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(10), day(12), 1000)
	require.NoError(t, err)

	_, err = f.svc.CancelByUser(ctx, booking.ID, f.userID)
	require.NoError(t, err)

	_, _, err = f.svc.CreateBooking(ctx, uuid.New(), f.venueID, day(10), day(12), 1000)
	assert.NoError(t, err)
}

func TestCreateBookingRejectsBlockedDates(t *testing.T) {
	f := newBookingFixture(t)
	f.blocked.blocks = append(f.blocked.blocks, &models.BlockedDate{
		ID:        uuid.New(),
		VenueID:   f.venueID,
		StartDate: day(11),
		EndDate:   day(13),
		Reason:    "maintenance",
	})

	_, _, err := f.svc.CreateBooking(context.Background(), f.userID, f.venueID, day(10), day(12), 1000)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestCreateBookingRejectsUnbookableVenue(t *testing.T) {
	f := newBookingFixture(t)
	closedVenue := uuid.New()
	venues := &fakeVenuesRepo{venues: map[uuid.UUID]*models.Venue{
		closedVenue: {
			ID:           closedVenue,
			VendorID:     f.vendorID,
			Status:       models.VenueClosed,
			Verification: models.VerificationApproved,
		},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewBookingService(f.bookings, f.blocked, venues, f.gateway, noopLocker{},
		NewNotificationService(f.notifs, nil, logger), testGatewaySecret)

	_, _, err := svc.CreateBooking(context.Background(), f.userID, closedVenue, day(10), day(12), 1000)
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestCreateBookingGatewayFailureLeavesPending(t *testing.T) {
	f := newBookingFixture(t)
	f.gateway.failCreate = true

	_, _, err := f.svc.CreateBooking(context.Background(), f.userID, f.venueID, day(10), day(12), 1000)
	require.ErrorIs(t, err, models.ErrGateway)

	// The booking was persisted before the gateway call and stays pending.
	require.Len(t, f.bookings.bookings, 1)
	for _, b := range f.bookings.bookings {
		assert.Equal(t, models.BookingPending, b.Status)
		assert.Empty(t, b.AdvanceOrderID)
	}
}

func TestVerifyAdvancePayment(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, order, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(10), day(12), 1000)
	require.NoError(t, err)

	paymentID := "pay_adv_1"
	updated, err := f.svc.VerifyAdvancePayment(ctx, booking.ID, paymentID, signFor(order.ID, paymentID))
	require.NoError(t, err)

	assert.Equal(t, models.BookingAdvancePaid, updated.Status)
	assert.True(t, updated.AdvancePaid)
	assert.Equal(t, paymentID, updated.AdvancePaymentID)
	assert.Equal(t, 800.0, updated.BalanceDue)
}

func TestVerifyAdvancePaymentRejectsBadSignature(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, _, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(10), day(12), 1000)
	require.NoError(t, err)

	_, err = f.svc.VerifyAdvancePayment(ctx, booking.ID, "pay_adv_1", "deadbeef")
	require.ErrorIs(t, err, models.ErrValidation)

	// A rejected signature must not move the state machine.
	stored, err := f.svc.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, stored.Status)
	assert.False(t, stored.AdvancePaid)
}

func TestVerifyAdvancePaymentIsNotReplayable(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, order, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(10), day(12), 1000)
	require.NoError(t, err)

	paymentID := "pay_adv_1"
	sig := signFor(order.ID, paymentID)
	_, err = f.svc.VerifyAdvancePayment(ctx, booking.ID, paymentID, sig)
	require.NoError(t, err)

	_, err = f.svc.VerifyAdvancePayment(ctx, booking.ID, paymentID, sig)
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestCreateBalanceOrderGating(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, order, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(10), day(12), 1000)
	require.NoError(t, err)

	// Balance phase cannot open before the advance is paid.
	_, _, err = f.svc.CreateBalanceOrder(ctx, booking.ID, f.userID)
	assert.ErrorIs(t, err, models.ErrInvalidState)

	paymentID := "pay_adv_1"
	_, err = f.svc.VerifyAdvancePayment(ctx, booking.ID, paymentID, signFor(order.ID, paymentID))
	require.NoError(t, err)

	// Only the booking owner can open it.
	_, _, err = f.svc.CreateBalanceOrder(ctx, booking.ID, uuid.New())
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	updated, balOrder, err := f.svc.CreateBalanceOrder(ctx, booking.ID, f.userID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingBalancePending, updated.Status)
	assert.Equal(t, int64(80000), balOrder.Amount)
	assert.Equal(t, balOrder.ID, updated.BalanceOrderID)
}

func TestVerifyBalancePaymentSettles(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, advOrder, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(10), day(12), 1000)
	require.NoError(t, err)
	_, err = f.svc.VerifyAdvancePayment(ctx, booking.ID, "pay_adv_1", signFor(advOrder.ID, "pay_adv_1"))
	require.NoError(t, err)
	_, balOrder, err := f.svc.CreateBalanceOrder(ctx, booking.ID, f.userID)
	require.NoError(t, err)

	settled, err := f.svc.VerifyBalancePayment(ctx, booking.ID, "pay_bal_1", signFor(balOrder.ID, "pay_bal_1"))
	require.NoError(t, err)

	assert.Equal(t, models.BookingFullyPaid, settled.Status)
	assert.Equal(t, 0.0, settled.BalanceDue)
	assert.Equal(t, 50.0, settled.CommissionAmount)
	assert.Equal(t, 950.0, settled.VendorReceives)
	assert.Equal(t, settled.TotalPrice, settled.CommissionAmount+settled.VendorReceives)

	// Both sides get a settlement notification.
	var userNotified, vendorNotified bool
	for _, n := range f.notifs.inserted {
		if n.Type == models.NotificationBookingSettled {
			if n.UserID == f.userID {
				userNotified = true
			}
			if n.UserID == f.vendorID {
				vendorNotified = true
			}
		}
	}
	assert.True(t, userNotified)
	assert.True(t, vendorNotified)
}

func TestVerifyBalancePaymentRequiresBalancePending(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, _, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(10), day(12), 1000)
	require.NoError(t, err)

	_, err = f.svc.VerifyBalancePayment(ctx, booking.ID, "pay_bal_1", "sig")
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestCancelByUserIssuesNoRefund(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, advOrder, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(10), day(12), 1000)
	require.NoError(t, err)
	_, err = f.svc.VerifyAdvancePayment(ctx, booking.ID, "pay_adv_1", signFor(advOrder.ID, "pay_adv_1"))
	require.NoError(t, err)

	cancelled, err := f.svc.CancelByUser(ctx, booking.ID, f.userID)
	require.NoError(t, err)

	assert.Equal(t, models.BookingCancelledByUser, cancelled.Status)
	assert.Empty(t, f.gateway.refunds)
	assert.Empty(t, cancelled.RefundID)
}

func TestCancelByUserRejectsOtherUsers(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, _, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(10), day(12), 1000)
	require.NoError(t, err)

	_, err = f.svc.CancelByUser(ctx, booking.ID, uuid.New())
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	// An unauthorized attempt must not move the state machine.
	stored, err := f.svc.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, stored.Status)
}

func TestCancelByUserOnlyBeforeSettlement(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, advOrder, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(10), day(12), 1000)
	require.NoError(t, err)
	_, err = f.svc.VerifyAdvancePayment(ctx, booking.ID, "pay_adv_1", signFor(advOrder.ID, "pay_adv_1"))
	require.NoError(t, err)
	_, balOrder, err := f.svc.CreateBalanceOrder(ctx, booking.ID, f.userID)
	require.NoError(t, err)
	_, err = f.svc.VerifyBalancePayment(ctx, booking.ID, "pay_bal_1", signFor(balOrder.ID, "pay_bal_1"))
	require.NoError(t, err)

	_, err = f.svc.CancelByUser(ctx, booking.ID, f.userID)
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestCancelByVendorRefundsAdvance(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, advOrder, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(10), day(12), 1000)
	require.NoError(t, err)
	_, err = f.svc.VerifyAdvancePayment(ctx, booking.ID, "pay_adv_1", signFor(advOrder.ID, "pay_adv_1"))
	require.NoError(t, err)

	cancelled, err := f.svc.CancelByVendor(ctx, booking.ID, f.vendorID, "double booked offline")
	require.NoError(t, err)

	assert.Equal(t, models.BookingCancelledByVendor, cancelled.Status)
	assert.Equal(t, "double booked offline", cancelled.CancellationReason)
	assert.NotEmpty(t, cancelled.RefundID)
	// Balance due resets to the full total once the advance is given back.
	assert.Equal(t, 1000.0, cancelled.BalanceDue)

	require.Len(t, f.gateway.refunds, 1)
	assert.Equal(t, "pay_adv_1", f.gateway.refunds[0].paymentID)
	assert.Equal(t, int64(20000), f.gateway.refunds[0].amount)
}

func TestCancelByVendorRequiresReason(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.CancelByVendor(context.Background(), uuid.New(), f.vendorID, "  ")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCancelByVendorOnlyFromAdvancePaid(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, _, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(10), day(12), 1000)
	require.NoError(t, err)

	_, err = f.svc.CancelByVendor(ctx, booking.ID, f.vendorID, "no longer available")
	assert.ErrorIs(t, err, models.ErrInvalidState)
	assert.Empty(t, f.gateway.refunds)
}

func TestCancelByVendorRefundFailureLeavesBookingUntouched(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, advOrder, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(10), day(12), 1000)
	require.NoError(t, err)
	_, err = f.svc.VerifyAdvancePayment(ctx, booking.ID, "pay_adv_1", signFor(advOrder.ID, "pay_adv_1"))
	require.NoError(t, err)

	f.gateway.failRefund = true
	_, err = f.svc.CancelByVendor(ctx, booking.ID, f.vendorID, "flooded")
	require.ErrorIs(t, err, models.ErrGateway)

	stored, err := f.svc.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingAdvancePaid, stored.Status)
	assert.Empty(t, stored.RefundID)
}

func TestBookedDatesMergesBookingsAndBlocks(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(10), day(12), 1000)
	require.NoError(t, err)
	f.blocked.blocks = append(f.blocked.blocks, &models.BlockedDate{
		ID:        uuid.New(),
		VenueID:   f.venueID,
		StartDate: day(20),
		EndDate:   day(22),
		Reason:    "maintenance",
	})

	intervals, err := f.svc.BookedDates(ctx, f.venueID)
	require.NoError(t, err)
	require.Len(t, intervals, 2)

	sources := map[string]int{}
	for _, iv := range intervals {
		sources[iv.Source]++
	}
	assert.Equal(t, 1, sources["booking"])
	assert.Equal(t, 1, sources["blocked"])
}

func TestRevenueRollups(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	otherVendor := uuid.New()

	seed := func(vendorID uuid.UUID, status models.BookingStatus, created time.Time, commission, vendorReceives float64) {
		id := uuid.New()
		f.bookings.bookings[id] = &models.Booking{
			ID:               id,
			UserID:           uuid.New(),
			VenueID:          f.venueID,
			VendorID:         vendorID,
			Status:           status,
			CreatedAt:        created,
			CommissionAmount: commission,
			VendorReceives:   vendorReceives,
		}
	}

	jan := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)

	seed(f.vendorID, models.BookingFullyPaid, jan, 50, 950)
	seed(f.vendorID, "confirmed", jan, 25, 475) // settled under the old flow
	seed(f.vendorID, models.BookingFullyPaid, feb, 100, 1900)
	seed(otherVendor, models.BookingFullyPaid, feb, 10, 190)
	seed(f.vendorID, models.BookingCancelledByUser, jan, 99, 99) // never counted

	platform, err := f.svc.PlatformRevenue(ctx)
	require.NoError(t, err)
	require.Len(t, platform, 2)
	assert.Equal(t, models.MonthlyRevenue{Year: 2026, Month: 1, Total: 75, Bookings: 2}, platform[0])
	assert.Equal(t, models.MonthlyRevenue{Year: 2026, Month: 2, Total: 110, Bookings: 2}, platform[1])

	vendor, err := f.svc.VendorRevenue(ctx, f.vendorID)
	require.NoError(t, err)
	require.Len(t, vendor, 2)
	assert.Equal(t, models.MonthlyRevenue{Year: 2026, Month: 1, Total: 1425, Bookings: 2}, vendor[0])
	assert.Equal(t, models.MonthlyRevenue{Year: 2026, Month: 2, Total: 1900, Bookings: 1}, vendor[1])
}

// Full lifecycle. A 2500 booking goes request, advance, balance, settlement,
// with the money splits checked at each step.
func TestBookingLifecycle(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, advOrder, err := f.svc.CreateBooking(ctx, f.userID, f.venueID, day(1), day(4), 2500)
	require.NoError(t, err)
	assert.Equal(t, 500.0, booking.AdvanceAmount)
	assert.Equal(t, 2000.0, booking.BalanceDue)
	assert.Equal(t, int64(50000), advOrder.Amount)

	booking, err = f.svc.VerifyAdvancePayment(ctx, booking.ID, "pay_a", signFor(advOrder.ID, "pay_a"))
	require.NoError(t, err)
	assert.Equal(t, models.BookingAdvancePaid, booking.Status)

	booking, balOrder, err := f.svc.CreateBalanceOrder(ctx, booking.ID, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(200000), balOrder.Amount)

	booking, err = f.svc.VerifyBalancePayment(ctx, booking.ID, "pay_b", signFor(balOrder.ID, "pay_b"))
	require.NoError(t, err)
	assert.Equal(t, models.BookingFullyPaid, booking.Status)
	assert.Equal(t, 0.0, booking.BalanceDue)
	assert.Equal(t, 125.0, booking.CommissionAmount)
	assert.Equal(t, 2375.0, booking.VendorReceives)
	assert.Equal(t, booking.TotalPrice, booking.CommissionAmount+booking.VendorReceives)
}
