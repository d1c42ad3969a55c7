package models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const SavedVenuesColName = "saved_venues"

type SavedVenueItem struct {
	VenueID string    `bson:"venue_id" json:"venue_id"`
	AddedAt time.Time `bson:"added_at" json:"added_at"`
}

// SavedVenues is a per-user map of saved venue ids, keyed by venue id so that
// adds are single upserts and removes are single unsets.
type SavedVenues struct {
	ID        primitive.ObjectID        `bson:"_id,omitempty" json:"id"`
	UserID    uuid.UUID                 `bson:"user_id" json:"user_id"`
	Items     map[string]SavedVenueItem `bson:"items" json:"items"`
	CreatedAt time.Time                 `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time                 `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

type SavedVenuesRepo interface {
	SaveVenue(ctx context.Context, userID, venueID uuid.UUID) (*SavedVenues, error)
	UnsaveVenue(ctx context.Context, userID, venueID uuid.UUID) error
	GetSavedVenues(ctx context.Context, userID uuid.UUID) (*SavedVenues, error)
}

func (mdb *MongodbRepo) SaveVenue(ctx context.Context, userID, venueID uuid.UUID) (*SavedVenues, error) {
	col, err := mdb.GetCollection(ctx, DbName, SavedVenuesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"updated_at": now,
			fmt.Sprintf("items.%s", venueID): SavedVenueItem{
				VenueID: venueID.String(),
				AddedAt: now,
			},
		},
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result SavedVenues
	if err := col.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&result); err != nil {
		return nil, fmt.Errorf("error upserting saved venue: %v", err)
	}
	return &result, nil
}

func (mdb *MongodbRepo) UnsaveVenue(ctx context.Context, userID, venueID uuid.UUID) error {
	col, err := mdb.GetCollection(ctx, DbName, SavedVenuesColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	update := bson.M{
		"$unset": bson.M{fmt.Sprintf("items.%s", venueID): ""},
		"$set":   bson.M{"updated_at": time.Now()},
	}
	_, err = col.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	return err
}

func (mdb *MongodbRepo) GetSavedVenues(ctx context.Context, userID uuid.UUID) (*SavedVenues, error) {
	col, err := mdb.GetCollection(ctx, DbName, SavedVenuesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var saved SavedVenues
	if err := col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&saved); err != nil {
		if err == mongo.ErrNoDocuments {
			// An empty list, not an error.
			return &SavedVenues{UserID: userID, Items: map[string]SavedVenueItem{}}, nil
		}
		return nil, fmt.Errorf("error finding saved venues: %v", err)
	}
	return &saved, nil
}
