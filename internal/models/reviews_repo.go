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

const ReviewsColName = "venue_reviews"

type ReviewsRepo interface {
	CreateReview(ctx context.Context, review *VenueReview) (*VenueReview, error)
	GetReviewsByVenue(ctx context.Context, venueID uuid.UUID) ([]*VenueReview, error)
	GetReviewsByUser(ctx context.Context, userID uuid.UUID) ([]*VenueReview, error)
	UpdateReview(ctx context.Context, userID uuid.UUID, reviewID primitive.ObjectID, update map[string]interface{}) (*VenueReview, error)
	DeleteReview(ctx context.Context, userID uuid.UUID, reviewID primitive.ObjectID) error
	ListReviewsByStatus(ctx context.Context, status string) ([]*VenueReview, error)
	SetReviewStatus(ctx context.Context, reviewID primitive.ObjectID, status string) (*VenueReview, error)
}

func (mdb *MongodbRepo) CreateReview(ctx context.Context, review *VenueReview) (*VenueReview, error) {
	if err := review.ValidateReview(); err != nil {
		return nil, fmt.Errorf("invalid review data: %w", err)
	}
	if err := review.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare review for creation: %w", err)
	}

	col, err := mdb.GetCollection(ctx, DbName, ReviewsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now
	review.Status = ReviewStatusPending

	if _, err := col.InsertOne(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to insert review into database: %w", err)
	}
	return review, nil
}

func (mdb *MongodbRepo) GetReviewsByVenue(ctx context.Context, venueID uuid.UUID) ([]*VenueReview, error) {
	// Public listing only shows reviews that cleared moderation.
	return mdb.findReviews(ctx, bson.M{"venue_id": venueID, "status": ReviewStatusApproved})
}

func (mdb *MongodbRepo) GetReviewsByUser(ctx context.Context, userID uuid.UUID) ([]*VenueReview, error) {
	return mdb.findReviews(ctx, bson.M{"user_id": userID})
}

func (mdb *MongodbRepo) ListReviewsByStatus(ctx context.Context, status string) ([]*VenueReview, error) {
	return mdb.findReviews(ctx, bson.M{"status": status})
}

func (mdb *MongodbRepo) findReviews(ctx context.Context, filter bson.M) ([]*VenueReview, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %v", err)
	}
	defer cursor.Close(ctx)

	var reviews []*VenueReview
	for cursor.Next(ctx) {
		var r VenueReview
		if err := cursor.Decode(&r); err != nil {
			return nil, fmt.Errorf("failed to decode review: %v", err)
		}
		reviews = append(reviews, &r)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return reviews, nil
}

func (mdb *MongodbRepo) UpdateReview(ctx context.Context, userID uuid.UUID, reviewID primitive.ObjectID, update map[string]interface{}) (*VenueReview, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	// Edits re-enter moderation.
	update["status"] = ReviewStatusPending
	update["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var review VenueReview
	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": reviewID, "user_id": userID},
		bson.M{"$set": update}, opts).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("review not found for this user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update review: %v", err)
	}
	return &review, nil
}

func (mdb *MongodbRepo) DeleteReview(ctx context.Context, userID uuid.UUID, reviewID primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DbName, ReviewsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": reviewID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete review: %v", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("review not found for this user: %w", ErrNotFound)
	}
	return nil
}

func (mdb *MongodbRepo) SetReviewStatus(ctx context.Context, reviewID primitive.ObjectID, status string) (*VenueReview, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var review VenueReview
	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": reviewID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
		opts).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("review not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update review status: %v", err)
	}
	return &review, nil
}
