package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/google/uuid"
	"github.com/venuehub/server/internal/helpers"
	"github.com/venuehub/server/internal/models"
)

type VenuesService struct {
	venuesRepo  models.VenuesRepo
	blockedRepo models.BlockedDatesRepo
	cld         *cloudinary.Cloudinary
	notifier    *NotificationService
}

func NewVenuesService(venuesRepo models.VenuesRepo, blockedRepo models.BlockedDatesRepo, cld *cloudinary.Cloudinary, notifier *NotificationService) *VenuesService {
	return &VenuesService{
		venuesRepo:  venuesRepo,
		blockedRepo: blockedRepo,
		cld:         cld,
		notifier:    notifier,
	}
}

// CreateVenue uploads images, then persists the venue in pending verification.
// A venue is invisible to public search until an admin approves it.
func (vs *VenuesService) CreateVenue(ctx context.Context, venue *models.Venue, vendorID uuid.UUID) (*models.Venue, error) {
	if err := models.Validate.Struct(venue); err != nil {
		return nil, fmt.Errorf("invalid venue data: %v: %w", err, models.ErrValidation)
	}

	venue.VendorID = vendorID
	venue.Slug = helpers.GenerateSlug(venue.Name, venue.Location)
	venue.Status = models.VenueOpen
	venue.Verification = models.VerificationPending
	if venue.Coordinates.Type == "" {
		venue.Coordinates.Type = "Point"
	}

	var uploadedIDs []string
	if len(venue.Images) > 0 && vs.cld != nil {
		uploadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		urls, publicIDs, err := helpers.UploadImages(uploadCtx, vs.cld, venue.Images, helpers.VenueFolder)
		if err != nil {
			return nil, fmt.Errorf("failed to upload images: %v", err)
		}
		venue.Images = urls
		uploadedIDs = publicIDs
	}

	created, err := vs.venuesRepo.CreateVenue(ctx, venue)
	if err != nil {
		if len(uploadedIDs) > 0 {
			helpers.DeleteImages(ctx, vs.cld, uploadedIDs)
		}
		return nil, err
	}
	return created, nil
}

func (vs *VenuesService) GetVenueByID(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid venue ID: %w", models.ErrValidation)
	}
	return vs.venuesRepo.GetVenueByID(ctx, id)
}

func (vs *VenuesService) SearchVenues(ctx context.Context, filter models.VenueSearchFilter, offset, limit int) ([]*models.Venue, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit: %w", models.ErrValidation)
	}
	return vs.venuesRepo.SearchVenues(ctx, filter, offset, limit)
}

func (vs *VenuesService) ListVenuesByVendor(ctx context.Context, vendorID uuid.UUID, offset, limit int) ([]*models.Venue, int, error) {
	if vendorID == uuid.Nil {
		return nil, 0, fmt.Errorf("invalid vendor ID: %w", models.ErrValidation)
	}
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit: %w", models.ErrValidation)
	}
	return vs.venuesRepo.ListVenuesByVendor(ctx, vendorID, offset, limit)
}

// UpdateVenue applies a whitelist of vendor-editable fields. Verification is
// admin-only and never editable here.
func (vs *VenuesService) UpdateVenue(ctx context.Context, vendorID, venueID uuid.UUID, update map[string]interface{}) (*models.Venue, error) {
	allowed := map[string]bool{
		"name": true, "description": true, "capacity": true,
		"price_per_day": true, "location": true, "tags": true, "status": true,
	}
	filtered := make(map[string]interface{}, len(update))
	for k, v := range update {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no editable fields in update: %w", models.ErrValidation)
	}
	if status, ok := filtered["status"].(string); ok {
		if status != string(models.VenueOpen) && status != string(models.VenueClosed) {
			return nil, fmt.Errorf("status must be open or closed: %w", models.ErrValidation)
		}
	}

	return vs.venuesRepo.UpdateVenue(ctx, vendorID, venueID, filtered)
}

func (vs *VenuesService) DeleteVenue(ctx context.Context, vendorID, venueID uuid.UUID) error {
	if vendorID == uuid.Nil || venueID == uuid.Nil {
		return fmt.Errorf("invalid vendor or venue ID: %w", models.ErrValidation)
	}
	return vs.venuesRepo.DeleteVenue(ctx, vendorID, venueID)
}

// ListPendingVenues is the admin moderation queue.
func (vs *VenuesService) ListPendingVenues(ctx context.Context, offset, limit int) ([]*models.Venue, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit: %w", models.ErrValidation)
	}
	return vs.venuesRepo.ListVenuesByVerification(ctx, models.VerificationPending, offset, limit)
}

// ModerateVenue applies an admin verification decision and notifies the
// vendor.
func (vs *VenuesService) ModerateVenue(ctx context.Context, venueID uuid.UUID, approve bool) (*models.Venue, error) {
	status := models.VerificationRejected
	if approve {
		status = models.VerificationApproved
	}

	venue, err := vs.venuesRepo.SetVenueVerification(ctx, venueID, status)
	if err != nil {
		return nil, err
	}

	vs.notifier.Notify(ctx, venue.VendorID, models.NotificationVenueModerated,
		fmt.Sprintf("Venue %s", status),
		fmt.Sprintf("Your venue %q is now %s", venue.Name, status), "")

	return venue, nil
}

// BlockDates records a vendor blackout window for one of their venues.
func (vs *VenuesService) BlockDates(ctx context.Context, vendorID, venueID uuid.UUID, start, end time.Time, reason string) (*models.BlockedDate, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("end date must be after start date: %w", models.ErrValidation)
	}

	venue, err := vs.venuesRepo.GetVenueByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if venue.VendorID != vendorID {
		return nil, fmt.Errorf("venue belongs to another vendor: %w", models.ErrUnauthorized)
	}

	return vs.blockedRepo.CreateBlockedDate(ctx, &models.BlockedDate{
		VenueID:   venueID,
		StartDate: start,
		EndDate:   end,
		Reason:    reason,
	})
}

func (vs *VenuesService) ListBlockedDates(ctx context.Context, venueID uuid.UUID) ([]*models.BlockedDate, error) {
	if venueID == uuid.Nil {
		return nil, fmt.Errorf("invalid venue ID: %w", models.ErrValidation)
	}
	return vs.blockedRepo.ListBlockedDates(ctx, venueID)
}

func (vs *VenuesService) UnblockDates(ctx context.Context, vendorID, venueID, blockedID uuid.UUID) error {
	venue, err := vs.venuesRepo.GetVenueByID(ctx, venueID)
	if err != nil {
		return err
	}
	if venue.VendorID != vendorID {
		return fmt.Errorf("venue belongs to another vendor: %w", models.ErrUnauthorized)
	}
	return vs.blockedRepo.DeleteBlockedDate(ctx, venueID, blockedID)
}
