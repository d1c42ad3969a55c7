package models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

const BlockedDatesColName = "blocked_dates"

// BlockedDate is a vendor-declared unavailability window for a venue,
// independent of any booking. Half-open range like bookings.
type BlockedDate struct {
	ID        uuid.UUID `bson:"_id" json:"id"`
	VenueID   uuid.UUID `bson:"venue_id" json:"venue_id"`
	StartDate time.Time `bson:"start_date" json:"start_date"`
	EndDate   time.Time `bson:"end_date" json:"end_date"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type BlockedDatesRepo interface {
	CreateBlockedDate(ctx context.Context, blocked *BlockedDate) (*BlockedDate, error)
	ListBlockedDates(ctx context.Context, venueID uuid.UUID) ([]*BlockedDate, error)
	CountOverlappingBlocks(ctx context.Context, venueID uuid.UUID, start, end time.Time) (int64, error)
	DeleteBlockedDate(ctx context.Context, venueID, id uuid.UUID) error
}

func (mdb *MongodbRepo) CreateBlockedDate(ctx context.Context, blocked *BlockedDate) (*BlockedDate, error) {
	col, err := mdb.GetCollection(ctx, DbName, BlockedDatesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if blocked.ID == uuid.Nil {
		blocked.ID = uuid.New()
	}
	blocked.CreatedAt = time.Now()

	if _, err := col.InsertOne(ctx, blocked); err != nil {
		return nil, fmt.Errorf("failed to insert blocked date: %v", err)
	}
	return blocked, nil
}

func (mdb *MongodbRepo) ListBlockedDates(ctx context.Context, venueID uuid.UUID) ([]*BlockedDate, error) {
	col, err := mdb.GetCollection(ctx, DbName, BlockedDatesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	cursor, err := col.Find(ctx, bson.M{"venue_id": venueID})
	if err != nil {
		return nil, fmt.Errorf("failed to find blocked dates: %v", err)
	}
	defer cursor.Close(ctx)

	var blocked []*BlockedDate
	for cursor.Next(ctx) {
		var b BlockedDate
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode blocked date: %v", err)
		}
		blocked = append(blocked, &b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return blocked, nil
}

func (mdb *MongodbRepo) CountOverlappingBlocks(ctx context.Context, venueID uuid.UUID, start, end time.Time) (int64, error) {
	col, err := mdb.GetCollection(ctx, DbName, BlockedDatesColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}

	count, err := col.CountDocuments(ctx, bson.M{
		"venue_id":   venueID,
		"start_date": bson.M{"$lt": end},
		"end_date":   bson.M{"$gt": start},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count blocked dates: %v", err)
	}
	return count, nil
}

func (mdb *MongodbRepo) DeleteBlockedDate(ctx context.Context, venueID, id uuid.UUID) error {
	col, err := mdb.GetCollection(ctx, DbName, BlockedDatesColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id, "venue_id": venueID})
	if err != nil {
		return fmt.Errorf("failed to delete blocked date: %v", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("blocked date not found: %w", ErrNotFound)
	}
	return nil
}
