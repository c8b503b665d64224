package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"accessrating-backend/internal/domains/access"
)

// BusinessType is the closed set of categories a listing can have.
type BusinessType string

const (
	TypeCafe          BusinessType = "cafe"
	TypeRestaurant    BusinessType = "restaurant"
	TypeShop          BusinessType = "shop"
	TypePub           BusinessType = "pub"
	TypeHotel         BusinessType = "hotel"
	TypeOffice        BusinessType = "office"
	TypeHealthcare    BusinessType = "healthcare"
	TypeEntertainment BusinessType = "entertainment"
	TypeEducation     BusinessType = "education"
	TypeTransport     BusinessType = "transport"
	TypeOther         BusinessType = "other"
)

var typeLabels = map[BusinessType]string{
	TypeCafe:          "Cafe",
	TypeRestaurant:    "Restaurant",
	TypeShop:          "Shop",
	TypePub:           "Pub",
	TypeHotel:         "Hotel",
	TypeOffice:        "Office",
	TypeHealthcare:    "Healthcare",
	TypeEntertainment: "Entertainment",
	TypeEducation:     "Education",
	TypeTransport:     "Transport",
	TypeOther:         "Other",
}

// BusinessTypes lists every valid type, used by validators.
func BusinessTypes() []interface{} {
	out := make([]interface{}, 0, len(typeLabels))
	for _, t := range []BusinessType{
		TypeCafe, TypeRestaurant, TypeShop, TypePub, TypeHotel, TypeOffice,
		TypeHealthcare, TypeEntertainment, TypeEducation, TypeTransport, TypeOther,
	} {
		out = append(out, string(t))
	}
	return out
}

func (t BusinessType) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return typeLabels[TypeOther]
}

type StickerType string

const (
	StickerNone          StickerType = ""
	StickerWindowInside  StickerType = "window_inside"
	StickerWindowOutside StickerType = "window_outside"
)

var ratingLabels = map[int]string{
	1: "Rating 1: Accessible to individuals with limited mobility",
	2: "Rating 2: Accessible to wheelchair users with step-free entry",
	3: "Rating 3: Includes wheelchair-accessible bathroom with grab bars",
	4: `Rating 4: Includes "Changing Places" bathroom with hoist system`,
	5: "Rating 5: Fully accessible for multiple users with diverse needs",
}

// RatingLabel describes a rating on the 1-5 scheme.
func RatingLabel(rating *int) string {
	if rating == nil {
		return "Not rated"
	}
	if l, ok := ratingLabels[*rating]; ok {
		return l
	}
	return "Not rated"
}

// OpeningPeriod is one weekday's opening window in 24h HH:MM.
type OpeningPeriod struct {
	Day    string `json:"day"`
	Opens  string `json:"opens,omitempty"`
	Closes string `json:"closes,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

// Business is the aggregate root of the directory.
//
// CurrentRating, RatingApprovedAt, FirstAssessedDate and NextAssessmentDue
// are written only through RatingWriter.ApplyApprovedRating.
type Business struct {
	ID             uuid.UUID
	Name           string
	Description    string
	Address        string
	Postcode       string
	City           string
	Latitude       decimal.NullDecimal
	Longitude      decimal.NullDecimal
	BusinessType   BusinessType
	Specialisation string
	Email          *string
	Phone          *string
	Website        *string
	OpeningHours   []OpeningPeriod

	AccessibilityFeatures string
	AccessibilityBarriers string
	BusinessNotes         string
	SpecialMentions       string

	StickerRequested bool
	StickerType      StickerType
	FeePaid          bool
	IsVerified       bool

	CurrentRating     *int
	RatingApprovedAt  *time.Time
	FirstAssessedDate *time.Time
	NextAssessmentDue *time.Time

	ClaimedBy *uuid.UUID
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Resource is the access-control view of this business.
func (b *Business) Resource() access.Resource {
	return access.Business(b.ClaimedBy)
}

func (b *Business) IsClaimed() bool {
	return b.ClaimedBy != nil
}

// FullType renders e.g. "Italian Restaurant".
func (b *Business) FullType() string {
	if s := strings.TrimSpace(b.Specialisation); s != "" {
		return s + " " + b.BusinessType.Label()
	}
	return b.BusinessType.Label()
}

func (b *Business) HasLocation() bool {
	return b.Latitude.Valid && b.Longitude.Valid
}

// MapsURL links to the coordinates, or "" when none are stored.
func (b *Business) MapsURL() string {
	if !b.HasLocation() {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/maps?q=%s,%s", b.Latitude.Decimal.String(), b.Longitude.Decimal.String())
}

// NeedsReassessment reports whether the re-assessment date has been reached.
func (b *Business) NeedsReassessment(now time.Time) bool {
	if b.NextAssessmentDue == nil {
		return false
	}
	return !now.Before(*b.NextAssessmentDue)
}

// Photo is a reference to an image stored elsewhere.
type Photo struct {
	ID         uuid.UUID
	BusinessID uuid.UUID
	URL        string
	PhotoType  PhotoType
	Caption    string
	IsPrimary  bool
	UploadedBy uuid.UUID
	CreatedAt  time.Time
}

type PhotoType string

const (
	PhotoExterior      PhotoType = "exterior"
	PhotoInterior      PhotoType = "interior"
	PhotoAccessibility PhotoType = "accessibility"
	PhotoEntrance      PhotoType = "entrance"
	PhotoFacilities    PhotoType = "facilities"
)

func PhotoTypes() []interface{} {
	return []interface{}{
		string(PhotoExterior), string(PhotoInterior), string(PhotoAccessibility),
		string(PhotoEntrance), string(PhotoFacilities),
	}
}

// RatingUpdate is the set of denormalized fields an approval writes.
type RatingUpdate struct {
	BusinessID        uuid.UUID  `json:"business_id"`
	CurrentRating     int        `json:"current_rating"`
	FirstAssessedDate time.Time  `json:"first_assessed_date"`
	NextAssessmentDue time.Time  `json:"next_assessment_due"`
	Applied           bool       `json:"applied"`
	SupersededBy      *time.Time `json:"superseded_by,omitempty"`
}
