package models

import (
	"time"

	"github.com/google/uuid"
)

type VenueStatus string

const (
	VenueOpen   VenueStatus = "open"
	VenueClosed VenueStatus = "closed"
)

// VerificationStatus is the admin moderation state of a venue, distinct from
// the operational open/closed status.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// GeoPoint is a GeoJSON point, coordinates ordered [longitude, latitude] as
// Mongo's 2dsphere index expects.
type GeoPoint struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

func (p GeoPoint) Latitude() float64  { return p.Coordinates[1] }
func (p GeoPoint) Longitude() float64 { return p.Coordinates[0] }

type Venue struct {
	ID          uuid.UUID `bson:"_id" json:"id"`
	VendorID    uuid.UUID `bson:"vendor_id" json:"vendor_id"`
	Name        string    `bson:"name" json:"name" validate:"required"`
	Slug        string    `bson:"slug" json:"slug,omitempty"`
	Description string    `bson:"description" json:"description,omitempty"`
	Images      []string  `bson:"images" json:"images,omitempty"`
	Tags        []string  `bson:"tags" json:"tags,omitempty"`

	Location    string   `bson:"location" json:"location" validate:"required"`
	Coordinates GeoPoint `bson:"coordinates" json:"coordinates"`

	Capacity    int     `bson:"capacity" json:"capacity" validate:"required,gt=0"`
	PricePerDay float64 `bson:"price_per_day" json:"price_per_day" validate:"required,gt=0"`

	Status       VenueStatus        `bson:"status" json:"status"`
	Verification VerificationStatus `bson:"verification" json:"verification"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsBookable reports whether the venue can accept new bookings: it must have
// passed admin moderation and be operationally open.
func (v *Venue) IsBookable() bool {
	return v.Verification == VerificationApproved && v.Status == VenueOpen
}

// VenueSearchFilter narrows the public venue search. Zero values mean the
// corresponding filter is not applied.
type VenueSearchFilter struct {
	Region      string
	MinCapacity int
	MaxPrice    float64
	Near        *GeoPoint
	MaxMeters   float64
}
