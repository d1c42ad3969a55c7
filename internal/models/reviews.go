package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ReviewStatusPending  = "pending_approval"
	ReviewStatusApproved = "approved"
	ReviewStatusFlagged  = "flagged"
)

type VenueReview struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        uuid.UUID          `bson:"user_id" json:"user_id"`
	VenueID       uuid.UUID          `bson:"venue_id" json:"venue_id"`
	Rating        int                `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Title         string             `bson:"title,omitempty" json:"title,omitempty"`
	Comment       string             `bson:"comment,omitempty" json:"comment,omitempty"`
	LikedFeatures []string           `bson:"liked_features,omitempty" json:"liked_features,omitempty"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

func (r *VenueReview) BeforeCreate() error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	return nil
}

func (r VenueReview) ValidateReview() error {
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5: %w", ErrValidation)
	}
	if r.UserID == uuid.Nil {
		return fmt.Errorf("invalid user ID: %w", ErrValidation)
	}
	if r.VenueID == uuid.Nil {
		return fmt.Errorf("invalid venue ID: %w", ErrValidation)
	}
	return nil
}

func (r *VenueReview) Sanitize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Comment = strings.TrimSpace(r.Comment)

	seen := make(map[string]bool, len(r.LikedFeatures))
	features := r.LikedFeatures[:0]
	for _, f := range r.LikedFeatures {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		features = append(features, f)
	}
	r.LikedFeatures = features
}
