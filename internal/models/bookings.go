package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending           BookingStatus = "pending"
	BookingAdvancePaid       BookingStatus = "advance_paid"
	BookingBalancePending    BookingStatus = "balance_pending"
	BookingFullyPaid         BookingStatus = "fully_paid"
	BookingCancelledByUser   BookingStatus = "cancelled_by_user"
	BookingCancelledByVendor BookingStatus = "cancelled_by_vendor"
)

const (
	// AdvanceRate is the upfront share of the total price collected when a
	// booking is created.
	AdvanceRate = 0.20
	// CommissionRate is the platform cut of the total price, deducted from the
	// vendor settlement when the balance clears.
	CommissionRate = 0.05
)

// CancelledStatuses lists the statuses excluded from conflict checks and
// availability queries.
var CancelledStatuses = []BookingStatus{BookingCancelledByUser, BookingCancelledByVendor}

type Booking struct {
	ID       uuid.UUID `bson:"_id" json:"id"`
	UserID   uuid.UUID `bson:"user_id" json:"user_id"`
	VenueID  uuid.UUID `bson:"venue_id" json:"venue_id"`
	VendorID uuid.UUID `bson:"vendor_id" json:"vendor_id"`

	// Half-open range: the booking occupies [StartDate, EndDate).
	StartDate time.Time `bson:"start_date" json:"start_date"`
	EndDate   time.Time `bson:"end_date" json:"end_date"`

	TotalPrice    float64 `bson:"total_price" json:"total_price"`
	AdvanceAmount float64 `bson:"advance_amount" json:"advance_amount"`
	BalanceDue    float64 `bson:"balance_due" json:"balance_due"`
	AdvancePaid   bool    `bson:"advance_paid" json:"advance_paid"`

	Status BookingStatus `bson:"status" json:"status"`

	AdvanceOrderID   string `bson:"advance_order_id,omitempty" json:"advance_order_id,omitempty"`
	BalanceOrderID   string `bson:"balance_order_id,omitempty" json:"balance_order_id,omitempty"`
	AdvancePaymentID string `bson:"advance_payment_id,omitempty" json:"advance_payment_id,omitempty"`
	BalancePaymentID string `bson:"balance_payment_id,omitempty" json:"balance_payment_id,omitempty"`

	CommissionAmount float64 `bson:"commission_amount" json:"commission_amount"`
	VendorReceives   float64 `bson:"vendor_receives" json:"vendor_receives"`

	RefundID           string `bson:"refund_id,omitempty" json:"refund_id,omitempty"`
	CancellationReason string `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AdvanceFor computes the 20% advance for a total, rounded to cents so that
// advance + balance always reconstructs the total exactly.
func AdvanceFor(total float64) float64 {
	return math.Round(total*AdvanceRate*100) / 100
}

// CommissionFor computes the 5% platform commission on a total, rounded to
// cents.
func CommissionFor(total float64) float64 {
	return math.Round(total*CommissionRate*100) / 100
}

// DateInterval is one unavailability window returned by the availability
// query. Intervals are reported raw, without merging overlaps; calendar
// rendering is the caller's concern.
type DateInterval struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Source string    `json:"source"` // "booking" or "blocked"
	Reason string    `json:"reason,omitempty"`
}

// MonthlyRevenue is one row of the monthly settlement rollup.
type MonthlyRevenue struct {
	Year     int     `bson:"year" json:"year"`
	Month    int     `bson:"month" json:"month"`
	Total    float64 `bson:"total" json:"total"`
	Bookings int     `bson:"bookings" json:"bookings"`
}
