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

const VenuesColName = "venues"

type VenuesRepo interface {
	CreateVenue(ctx context.Context, venue *Venue) (*Venue, error)
	GetVenueByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	SearchVenues(ctx context.Context, filter VenueSearchFilter, offset, limit int) ([]*Venue, int, error)
	ListVenuesByVendor(ctx context.Context, vendorID uuid.UUID, offset, limit int) ([]*Venue, int, error)
	ListVenuesByVerification(ctx context.Context, status VerificationStatus, offset, limit int) ([]*Venue, int, error)
	UpdateVenue(ctx context.Context, vendorID, venueID uuid.UUID, update map[string]interface{}) (*Venue, error)
	SetVenueVerification(ctx context.Context, venueID uuid.UUID, status VerificationStatus) (*Venue, error)
	DeleteVenue(ctx context.Context, vendorID, venueID uuid.UUID) error
}

func (mdb *MongodbRepo) CreateVenue(ctx context.Context, venue *Venue) (*Venue, error) {
	col, err := mdb.GetCollection(ctx, DbName, VenuesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if venue.ID == uuid.Nil {
		venue.ID = uuid.New()
	}
	now := time.Now()
	venue.CreatedAt = now
	venue.UpdatedAt = now

	if _, err := col.InsertOne(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to insert venue: %v", err)
	}
	return venue, nil
}

func (mdb *MongodbRepo) GetVenueByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	col, err := mdb.GetCollection(ctx, DbName, VenuesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var venue Venue
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&venue); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("venue not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find venue: %v", err)
	}
	return &venue, nil
}

// SearchVenues is the public listing: only approved, open venues are visible.
func (mdb *MongodbRepo) SearchVenues(ctx context.Context, filter VenueSearchFilter, offset, limit int) ([]*Venue, int, error) {
	col, err := mdb.GetCollection(ctx, DbName, VenuesColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}

	query := bson.M{
		"verification": VerificationApproved,
		"status":       VenueOpen,
	}
	if filter.Region != "" {
		query["location"] = bson.M{"$regex": filter.Region, "$options": "i"}
	}
	if filter.MinCapacity > 0 {
		query["capacity"] = bson.M{"$gte": filter.MinCapacity}
	}
	if filter.MaxPrice > 0 {
		query["price_per_day"] = bson.M{"$lte": filter.MaxPrice}
	}
	if filter.Near != nil {
		near := bson.M{
			"$geometry": bson.M{
				"type":        "Point",
				"coordinates": filter.Near.Coordinates,
			},
		}
		if filter.MaxMeters > 0 {
			near["$maxDistance"] = filter.MaxMeters
		}
		query["coordinates"] = bson.M{"$near": near}
	}

	return mdb.findVenues(ctx, col, query, offset, limit, filter.Near != nil)
}

func (mdb *MongodbRepo) ListVenuesByVendor(ctx context.Context, vendorID uuid.UUID, offset, limit int) ([]*Venue, int, error) {
	col, err := mdb.GetCollection(ctx, DbName, VenuesColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}
	return mdb.findVenues(ctx, col, bson.M{"vendor_id": vendorID}, offset, limit, false)
}

func (mdb *MongodbRepo) ListVenuesByVerification(ctx context.Context, status VerificationStatus, offset, limit int) ([]*Venue, int, error) {
	col, err := mdb.GetCollection(ctx, DbName, VenuesColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}
	return mdb.findVenues(ctx, col, bson.M{"verification": status}, offset, limit, false)
}

// findVenues runs a paged find. $near queries already sort by distance and
// reject a count with the same filter, so those skip the total count.
func (mdb *MongodbRepo) findVenues(ctx context.Context, col *mongo.Collection, query bson.M, offset, limit int, geo bool) ([]*Venue, int, error) {
	total := 0
	opts := options.Find().SetSkip(int64(offset)).SetLimit(int64(limit))
	if !geo {
		count, err := col.CountDocuments(ctx, query)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to count venues: %v", err)
		}
		total = int(count)
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}

	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find venues: %v", err)
	}
	defer cursor.Close(ctx)

	var venues []*Venue
	for cursor.Next(ctx) {
		var v Venue
		if err := cursor.Decode(&v); err != nil {
			return nil, 0, fmt.Errorf("failed to decode venue: %v", err)
		}
		venues = append(venues, &v)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %v", err)
	}
	if geo {
		total = len(venues)
	}
	return venues, total, nil
}

func (mdb *MongodbRepo) UpdateVenue(ctx context.Context, vendorID, venueID uuid.UUID, update map[string]interface{}) (*Venue, error) {
	col, err := mdb.GetCollection(ctx, DbName, VenuesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	update["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var venue Venue
	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": venueID, "vendor_id": vendorID},
		bson.M{"$set": update}, opts).Decode(&venue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("venue not found for this vendor: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update venue: %v", err)
	}
	return &venue, nil
}

func (mdb *MongodbRepo) SetVenueVerification(ctx context.Context, venueID uuid.UUID, status VerificationStatus) (*Venue, error) {
	col, err := mdb.GetCollection(ctx, DbName, VenuesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var venue Venue
	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": venueID},
		bson.M{"$set": bson.M{"verification": status, "updated_at": time.Now()}},
		opts).Decode(&venue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("venue not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update venue verification: %v", err)
	}
	return &venue, nil
}

func (mdb *MongodbRepo) DeleteVenue(ctx context.Context, vendorID, venueID uuid.UUID) error {
	col, err := mdb.GetCollection(ctx, DbName, VenuesColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": venueID, "vendor_id": vendorID})
	if err != nil {
		return fmt.Errorf("failed to delete venue: %v", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("venue not found for this vendor: %w", ErrNotFound)
	}
	return nil
}
