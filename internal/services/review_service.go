package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/venuehub/server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewService struct {
	reviewsRepo models.ReviewsRepo
	venuesRepo  models.VenuesRepo
}

func NewReviewService(reviewsRepo models.ReviewsRepo, venuesRepo models.VenuesRepo) *ReviewService {
	return &ReviewService{
		reviewsRepo: reviewsRepo,
		venuesRepo:  venuesRepo,
	}
}

func (rs *ReviewService) CreateReview(ctx context.Context, userID uuid.UUID, review *models.VenueReview) (*models.VenueReview, error) {
	review.UserID = userID
	review.Sanitize()

	// The venue must exist before accepting a review against it.
	if _, err := rs.venuesRepo.GetVenueByID(ctx, review.VenueID); err != nil {
		return nil, err
	}
	return rs.reviewsRepo.CreateReview(ctx, review)
}

func (rs *ReviewService) GetReviewsByVenue(ctx context.Context, venueID uuid.UUID) ([]*models.VenueReview, error) {
	if venueID == uuid.Nil {
		return nil, fmt.Errorf("invalid venue ID: %w", models.ErrValidation)
	}
	return rs.reviewsRepo.GetReviewsByVenue(ctx, venueID)
}

func (rs *ReviewService) GetReviewsByUser(ctx context.Context, userID uuid.UUID) ([]*models.VenueReview, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID: %w", models.ErrValidation)
	}
	return rs.reviewsRepo.GetReviewsByUser(ctx, userID)
}

func (rs *ReviewService) UpdateReview(ctx context.Context, userID uuid.UUID, reviewID primitive.ObjectID, update map[string]interface{}) (*models.VenueReview, error) {
	allowed := map[string]bool{"rating": true, "title": true, "comment": true, "liked_features": true}
	filtered := make(map[string]interface{}, len(update))
	for k, v := range update {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no editable fields in update: %w", models.ErrValidation)
	}
	if rating, ok := filtered["rating"].(float64); ok {
		if rating < 1 || rating > 5 {
			return nil, fmt.Errorf("rating must be between 1 and 5: %w", models.ErrValidation)
		}
	}
	return rs.reviewsRepo.UpdateReview(ctx, userID, reviewID, filtered)
}

func (rs *ReviewService) DeleteReview(ctx context.Context, userID uuid.UUID, reviewID primitive.ObjectID) error {
	return rs.reviewsRepo.DeleteReview(ctx, userID, reviewID)
}

// ListPendingReviews is the admin moderation queue.
func (rs *ReviewService) ListPendingReviews(ctx context.Context) ([]*models.VenueReview, error) {
	return rs.reviewsRepo.ListReviewsByStatus(ctx, models.ReviewStatusPending)
}

func (rs *ReviewService) ModerateReview(ctx context.Context, reviewID primitive.ObjectID, status string) (*models.VenueReview, error) {
	if status != models.ReviewStatusApproved && status != models.ReviewStatusFlagged {
		return nil, fmt.Errorf("status must be %s or %s: %w", models.ReviewStatusApproved, models.ReviewStatusFlagged, models.ErrValidation)
	}
	return rs.reviewsRepo.SetReviewStatus(ctx, reviewID, status)
}
