package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/venuehub/server/internal/models"
)

type SavedVenuesService struct {
	savedRepo models.SavedVenuesRepo
}

func NewSavedVenuesService(savedRepo models.SavedVenuesRepo) *SavedVenuesService {
	return &SavedVenuesService{
		savedRepo: savedRepo,
	}
}

func (ss *SavedVenuesService) SaveVenue(ctx context.Context, userID, venueID uuid.UUID) (*models.SavedVenues, error) {
	if userID == uuid.Nil || venueID == uuid.Nil {
		return nil, fmt.Errorf("invalid user or venue ID: %w", models.ErrValidation)
	}
	return ss.savedRepo.SaveVenue(ctx, userID, venueID)
}

func (ss *SavedVenuesService) UnsaveVenue(ctx context.Context, userID, venueID uuid.UUID) error {
	if userID == uuid.Nil || venueID == uuid.Nil {
		return fmt.Errorf("invalid user or venue ID: %w", models.ErrValidation)
	}
	return ss.savedRepo.UnsaveVenue(ctx, userID, venueID)
}

func (ss *SavedVenuesService) GetSavedVenues(ctx context.Context, userID uuid.UUID) (*models.SavedVenues, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID: %w", models.ErrValidation)
	}
	return ss.savedRepo.GetSavedVenues(ctx, userID)
}
