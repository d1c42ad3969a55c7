package models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const BookingsColName = "bookings"

type BookingsRepo interface {
	InsertBooking(ctx context.Context, booking *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	CountOverlappingBookings(ctx context.Context, venueID uuid.UUID, start, end time.Time) (int64, error)
	SetAdvanceOrder(ctx context.Context, id uuid.UUID, orderID string) (*Booking, error)
	MarkAdvancePaid(ctx context.Context, id uuid.UUID, paymentID string) (*Booking, error)
	SetBalanceOrder(ctx context.Context, id uuid.UUID, orderID string) (*Booking, error)
	MarkFullyPaid(ctx context.Context, id uuid.UUID, paymentID string, commission, vendorReceives float64) (*Booking, error)
	CancelByUser(ctx context.Context, id, userID uuid.UUID) (*Booking, error)
	CancelByVendor(ctx context.Context, id uuid.UUID, reason, refundID string, totalPrice float64) (*Booking, error)
	ListBookingsByUser(ctx context.Context, userID uuid.UUID) ([]*Booking, error)
	ListBookingsByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Booking, error)
	BookedIntervals(ctx context.Context, venueID uuid.UUID) ([]DateInterval, error)
	MonthlyCommission(ctx context.Context) ([]MonthlyRevenue, error)
	MonthlyVendorRevenue(ctx context.Context, vendorID uuid.UUID) ([]MonthlyRevenue, error)
}

func (mdb *MongodbRepo) bookingsCol(ctx context.Context) (*mongo.Collection, error) {
	col, err := mdb.GetCollection(ctx, DbName, BookingsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	return col, nil
}

func (mdb *MongodbRepo) InsertBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	col, err := mdb.bookingsCol(ctx)
	if err != nil {
		return nil, err
	}

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := col.InsertOne(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to insert booking: %v", err)
	}
	return booking, nil
}

func (mdb *MongodbRepo) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	col, err := mdb.bookingsCol(ctx)
	if err != nil {
		return nil, err
	}

	var booking Booking
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("booking not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find booking: %v", err)
	}
	return &booking, nil
}

// CountOverlappingBookings counts non-cancelled bookings on the venue whose
// half-open [start_date, end_date) intersects [start, end).
func (mdb *MongodbRepo) CountOverlappingBookings(ctx context.Context, venueID uuid.UUID, start, end time.Time) (int64, error) {
	col, err := mdb.bookingsCol(ctx)
	if err != nil {
		return 0, err
	}

	count, err := col.CountDocuments(ctx, bson.M{
		"venue_id":   venueID,
		"status":     bson.M{"$nin": CancelledStatuses},
		"start_date": bson.M{"$lt": end},
		"end_date":   bson.M{"$gt": start},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %v", err)
	}
	return count, nil
}

// transitionBooking applies update to the booking only while it still matches
// filter. The status filter is the idempotency guard: a racing duplicate call
// finds no matching document and gets ErrInvalidState instead of a second
// mutation.
func (mdb *MongodbRepo) transitionBooking(ctx context.Context, filter, update bson.M) (*Booking, error) {
	col, err := mdb.bookingsCol(ctx)
	if err != nil {
		return nil, err
	}

	update["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking Booking
	err = col.FindOneAndUpdate(ctx, filter, bson.M{"$set": update}, opts).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("booking missing or already transitioned: %w", ErrInvalidState)
		}
		return nil, fmt.Errorf("failed to update booking: %v", err)
	}
	return &booking, nil
}

func (mdb *MongodbRepo) SetAdvanceOrder(ctx context.Context, id uuid.UUID, orderID string) (*Booking, error) {
	return mdb.transitionBooking(ctx,
		bson.M{"_id": id, "status": BookingPending},
		bson.M{"advance_order_id": orderID},
	)
}

func (mdb *MongodbRepo) MarkAdvancePaid(ctx context.Context, id uuid.UUID, paymentID string) (*Booking, error) {
	return mdb.transitionBooking(ctx,
		bson.M{"_id": id, "status": BookingPending},
		bson.M{
			"status":             BookingAdvancePaid,
			"advance_paid":       true,
			"advance_payment_id": paymentID,
		},
	)
}

func (mdb *MongodbRepo) SetBalanceOrder(ctx context.Context, id uuid.UUID, orderID string) (*Booking, error) {
	return mdb.transitionBooking(ctx,
		bson.M{"_id": id, "status": BookingAdvancePaid},
		bson.M{
			"status":           BookingBalancePending,
			"balance_order_id": orderID,
		},
	)
}

func (mdb *MongodbRepo) MarkFullyPaid(ctx context.Context, id uuid.UUID, paymentID string, commission, vendorReceives float64) (*Booking, error) {
	return mdb.transitionBooking(ctx,
		bson.M{"_id": id, "status": BookingBalancePending},
		bson.M{
			"status":             BookingFullyPaid,
			"balance_payment_id": paymentID,
			"balance_due":        float64(0),
			"commission_amount":  commission,
			"vendor_receives":    vendorReceives,
		},
	)
}

func (mdb *MongodbRepo) CancelByUser(ctx context.Context, id, userID uuid.UUID) (*Booking, error) {
	return mdb.transitionBooking(ctx,
		bson.M{
			"_id":     id,
			"user_id": userID,
			"status":  bson.M{"$in": []BookingStatus{BookingPending, BookingAdvancePaid}},
		},
		bson.M{"status": BookingCancelledByUser},
	)
}

func (mdb *MongodbRepo) CancelByVendor(ctx context.Context, id uuid.UUID, reason, refundID string, totalPrice float64) (*Booking, error) {
	return mdb.transitionBooking(ctx,
		bson.M{"_id": id, "status": BookingAdvancePaid},
		bson.M{
			"status":              BookingCancelledByVendor,
			"cancellation_reason": reason,
			"refund_id":           refundID,
			"balance_due":         totalPrice,
		},
	)
}

func (mdb *MongodbRepo) ListBookingsByUser(ctx context.Context, userID uuid.UUID) ([]*Booking, error) {
	return mdb.findBookings(ctx, bson.M{"user_id": userID})
}

func (mdb *MongodbRepo) ListBookingsByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Booking, error) {
	return mdb.findBookings(ctx, bson.M{"vendor_id": vendorID})
}

func (mdb *MongodbRepo) findBookings(ctx context.Context, filter bson.M) ([]*Booking, error) {
	col, err := mdb.bookingsCol(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %v", err)
	}
	defer cursor.Close(ctx)

	var bookings []*Booking
	for cursor.Next(ctx) {
		var b Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %v", err)
		}
		bookings = append(bookings, &b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return bookings, nil
}

// BookedIntervals returns the raw date ranges of every non-cancelled booking
// on the venue.
func (mdb *MongodbRepo) BookedIntervals(ctx context.Context, venueID uuid.UUID) ([]DateInterval, error) {
	bookings, err := mdb.findBookings(ctx, bson.M{
		"venue_id": venueID,
		"status":   bson.M{"$nin": CancelledStatuses},
	})
	if err != nil {
		return nil, err
	}

	intervals := make([]DateInterval, 0, len(bookings))
	for _, b := range bookings {
		intervals = append(intervals, DateInterval{
			Start:  b.StartDate,
			End:    b.EndDate,
			Source: "booking",
		})
	}
	return intervals, nil
}

// settledStatuses matches the reporting population. "confirmed" survives from
// bookings written before the two-phase flow was introduced.
var settledStatuses = []string{string(BookingFullyPaid), "confirmed"}

func settledMatch() bson.M {
	return bson.M{"status": bson.M{"$in": settledStatuses}}
}

func vendorSettledMatch(vendorID uuid.UUID) bson.M {
	match := settledMatch()
	match["vendor_id"] = vendorID
	return match
}

// monthlyRollupPipeline groups the matched bookings by calendar month of
// creation and sums sumField per month.
func monthlyRollupPipeline(match bson.M, sumField string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$created_at"},
				"month": bson.M{"$month": "$created_at"},
			},
			"total":    bson.M{"$sum": sumField},
			"bookings": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
	}
}

func (mdb *MongodbRepo) MonthlyCommission(ctx context.Context) ([]MonthlyRevenue, error) {
	return mdb.monthlyRollup(ctx, monthlyRollupPipeline(settledMatch(), "$commission_amount"))
}

func (mdb *MongodbRepo) MonthlyVendorRevenue(ctx context.Context, vendorID uuid.UUID) ([]MonthlyRevenue, error) {
	return mdb.monthlyRollup(ctx, monthlyRollupPipeline(vendorSettledMatch(vendorID), "$vendor_receives"))
}

func (mdb *MongodbRepo) monthlyRollup(ctx context.Context, pipeline mongo.Pipeline) ([]MonthlyRevenue, error) {
	col, err := mdb.bookingsCol(ctx)
	if err != nil {
		return nil, err
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %v", err)
	}
	defer cursor.Close(ctx)

	var rows []MonthlyRevenue
	for cursor.Next(ctx) {
		var row struct {
			ID struct {
				Year  int `bson:"year"`
				Month int `bson:"month"`
			} `bson:"_id"`
			Total    float64 `bson:"total"`
			Bookings int     `bson:"bookings"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode revenue row: %v", err)
		}
		rows = append(rows, MonthlyRevenue{
			Year:     row.ID.Year,
			Month:    row.ID.Month,
			Total:    row.Total,
			Bookings: row.Bookings,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return rows, nil
}
