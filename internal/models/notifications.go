package models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const NotificationsColName = "notifications"

const (
	NotificationBookingCreated   = "booking_created"
	NotificationAdvancePaid      = "advance_paid"
	NotificationBookingSettled   = "booking_settled"
	NotificationBookingCancelled = "booking_cancelled"
	NotificationVenueModerated   = "venue_moderated"
)

type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    uuid.UUID          `bson:"user_id" json:"user_id"`
	Type      string             `bson:"type" json:"type"`
	Title     string             `bson:"title" json:"title"`
	Body      string             `bson:"body,omitempty" json:"body,omitempty"`
	BookingID string             `bson:"booking_id,omitempty" json:"booking_id,omitempty"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type NotificationsRepo interface {
	InsertNotification(ctx context.Context, n *Notification) (*Notification, error)
	ListNotificationsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Notification, error)
	MarkNotificationRead(ctx context.Context, userID uuid.UUID, id primitive.ObjectID) error
}

func (mdb *MongodbRepo) InsertNotification(ctx context.Context, n *Notification) (*Notification, error) {
	col, err := mdb.GetCollection(ctx, DbName, NotificationsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	n.CreatedAt = time.Now()

	if _, err := col.InsertOne(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to insert notification: %v", err)
	}
	return n, nil
}

func (mdb *MongodbRepo) ListNotificationsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Notification, error) {
	col, err := mdb.GetCollection(ctx, DbName, NotificationsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find notifications: %v", err)
	}
	defer cursor.Close(ctx)

	var notifications []*Notification
	for cursor.Next(ctx) {
		var n Notification
		if err := cursor.Decode(&n); err != nil {
			return nil, fmt.Errorf("failed to decode notification: %v", err)
		}
		notifications = append(notifications, &n)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return notifications, nil
}

func (mdb *MongodbRepo) MarkNotificationRead(ctx context.Context, userID uuid.UUID, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DbName, NotificationsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %v", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("notification not found: %w", ErrNotFound)
	}
	return nil
}
