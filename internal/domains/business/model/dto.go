package model

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	postcodePattern = regexp.MustCompile(`^[A-Z]{1,2}[0-9R][0-9A-Z]? [0-9][A-Z]{2}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9 ()-]{7,19}$`)
	clockPattern    = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

	weekdays = []interface{}{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
)

const (
	MaxDescriptionWords = 100
	MaxDescriptionChars = 600

	// maxContactChars matches the VARCHAR(255) email and website columns.
	maxContactChars = 255
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateBusinessRequest lists a new, unclaimed business.
type CreateBusinessRequest struct {
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Address        string           `json:"address"`
	Postcode       string           `json:"postcode"`
	City           string           `json:"city"`
	Latitude       *decimal.Decimal `json:"latitude"`
	Longitude      *decimal.Decimal `json:"longitude"`
	BusinessType   string           `json:"business_type"`
	Specialisation string           `json:"specialisation"`
	Email          *string          `json:"email"`
	Phone          *string          `json:"phone"`
	Website        *string          `json:"website"`
	OpeningHours   []OpeningPeriod  `json:"opening_hours"`

	AccessibilityFeatures string `json:"accessibility_features"`
	AccessibilityBarriers string `json:"accessibility_barriers"`
	BusinessNotes         string `json:"business_notes"`
	SpecialMentions       string `json:"special_mentions"`

	StickerRequested bool   `json:"sticker_requested"`
	StickerType      string `json:"sticker_type"`
}

// Normalize trims input and upper-cases the postcode before validation.
func (r *CreateBusinessRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	r.Postcode = NormalizePostcode(r.Postcode)
	r.City = strings.TrimSpace(r.City)
	r.Email = trimOptional(r.Email)
	r.Phone = trimOptional(r.Phone)
	r.Website = trimOptional(r.Website)
	if r.BusinessType == "" {
		r.BusinessType = string(TypeOther)
	}
}

func (r CreateBusinessRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.By(descriptionRule)),
		validation.Field(&r.Address, validation.Required),
		validation.Field(&r.Postcode,
			validation.Required,
			validation.Match(postcodePattern).Error("must be a valid postcode, e.g. SW1A 1AA"),
		),
		validation.Field(&r.City, validation.Length(0, 100)),
		validation.Field(&r.Latitude,
			validation.When(r.Longitude != nil, validation.NotNil.Error("is required when longitude is set")),
			validation.By(coordinateRule(90)),
		),
		validation.Field(&r.Longitude,
			validation.When(r.Latitude != nil, validation.NotNil.Error("is required when latitude is set")),
			validation.By(coordinateRule(180)),
		),
		validation.Field(&r.BusinessType, validation.Required, validation.In(BusinessTypes()...)),
		validation.Field(&r.Specialisation, validation.Length(0, 100)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, validation.Length(0, maxContactChars), is.EmailFormat),
		validation.Field(&r.Phone, validation.NilOrNotEmpty, validation.Match(phonePattern)),
		validation.Field(&r.Website, validation.NilOrNotEmpty, validation.Length(0, maxContactChars), is.URL),
		validation.Field(&r.OpeningHours),
		validation.Field(&r.StickerType, validation.By(stickerRule(r.StickerRequested))),
	)
}

// ToBusiness builds the unclaimed record the request describes.
func (r CreateBusinessRequest) ToBusiness(id, createdBy uuid.UUID, now time.Time) *Business {
	b := &Business{
		ID:                    id,
		Name:                  r.Name,
		Description:           strings.TrimSpace(r.Description),
		Address:               r.Address,
		Postcode:              r.Postcode,
		City:                  r.City,
		BusinessType:          BusinessType(r.BusinessType),
		Specialisation:        strings.TrimSpace(r.Specialisation),
		Email:                 r.Email,
		Phone:                 r.Phone,
		Website:               r.Website,
		OpeningHours:          r.OpeningHours,
		AccessibilityFeatures: r.AccessibilityFeatures,
		AccessibilityBarriers: r.AccessibilityBarriers,
		BusinessNotes:         r.BusinessNotes,
		SpecialMentions:       r.SpecialMentions,
		StickerRequested:      r.StickerRequested,
		StickerType:           StickerType(r.StickerType),
		CreatedBy:             createdBy,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if r.Latitude != nil {
		b.Latitude = decimal.NewNullDecimal(*r.Latitude)
	}
	if r.Longitude != nil {
		b.Longitude = decimal.NewNullDecimal(*r.Longitude)
	}
	return b
}

// UpdateBusinessRequest is a partial update; nil fields are left unchanged.
// IsVerified and FeePaid are reserved for administrators.
type UpdateBusinessRequest struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Address        *string          `json:"address"`
	Postcode       *string          `json:"postcode"`
	City           *string          `json:"city"`
	Latitude       *decimal.Decimal `json:"latitude"`
	Longitude      *decimal.Decimal `json:"longitude"`
	BusinessType   *string          `json:"business_type"`
	Specialisation *string          `json:"specialisation"`
	Email          *string          `json:"email"`
	Phone          *string          `json:"phone"`
	Website        *string          `json:"website"`
	OpeningHours   *[]OpeningPeriod `json:"opening_hours"`

	AccessibilityFeatures *string `json:"accessibility_features"`
	AccessibilityBarriers *string `json:"accessibility_barriers"`
	BusinessNotes         *string `json:"business_notes"`
	SpecialMentions       *string `json:"special_mentions"`

	StickerRequested *bool   `json:"sticker_requested"`
	StickerType      *string `json:"sticker_type"`

	FeePaid    *bool `json:"fee_paid"`
	IsVerified *bool `json:"is_verified"`

	// ClearLocation drops the stored coordinates before any new ones apply.
	ClearLocation bool `json:"clear_location"`
}

// AdminOnlyField names the first admin-reserved field present, or "".
func (r UpdateBusinessRequest) AdminOnlyField() string {
	switch {
	case r.IsVerified != nil:
		return "is_verified"
	case r.FeePaid != nil:
		return "fee_paid"
	}
	return ""
}

// ApplyTo merges the request into b. Contact fields set to "" are cleared.
func (r UpdateBusinessRequest) ApplyTo(b *Business) {
	setString(&b.Name, r.Name)
	setString(&b.Description, r.Description)
	setString(&b.Address, r.Address)
	if r.Postcode != nil {
		b.Postcode = NormalizePostcode(*r.Postcode)
	}
	setString(&b.City, r.City)
	if r.ClearLocation {
		b.Latitude = decimal.NullDecimal{}
		b.Longitude = decimal.NullDecimal{}
	}
	if r.Latitude != nil {
		b.Latitude = decimal.NewNullDecimal(*r.Latitude)
	}
	if r.Longitude != nil {
		b.Longitude = decimal.NewNullDecimal(*r.Longitude)
	}
	if r.BusinessType != nil {
		b.BusinessType = BusinessType(*r.BusinessType)
	}
	setString(&b.Specialisation, r.Specialisation)
	if r.Email != nil {
		b.Email = trimOptional(r.Email)
	}
	if r.Phone != nil {
		b.Phone = trimOptional(r.Phone)
	}
	if r.Website != nil {
		b.Website = trimOptional(r.Website)
	}
	if r.OpeningHours != nil {
		b.OpeningHours = *r.OpeningHours
	}
	setString(&b.AccessibilityFeatures, r.AccessibilityFeatures)
	setString(&b.AccessibilityBarriers, r.AccessibilityBarriers)
	setString(&b.BusinessNotes, r.BusinessNotes)
	setString(&b.SpecialMentions, r.SpecialMentions)
	if r.StickerRequested != nil {
		b.StickerRequested = *r.StickerRequested
	}
	if r.StickerType != nil {
		b.StickerType = StickerType(*r.StickerType)
	}
	if r.FeePaid != nil {
		b.FeePaid = *r.FeePaid
	}
	if r.IsVerified != nil {
		b.IsVerified = *r.IsVerified
	}
}

// ValidateBusiness checks a fully merged record, so partial updates are
// validated against the state they would produce.
func ValidateBusiness(b *Business) error {
	var lat, lng *decimal.Decimal
	if b.Latitude.Valid {
		lat = &b.Latitude.Decimal
	}
	if b.Longitude.Valid {
		lng = &b.Longitude.Decimal
	}
	req := CreateBusinessRequest{
		Name:             b.Name,
		Description:      b.Description,
		Address:          b.Address,
		Postcode:         b.Postcode,
		City:             b.City,
		Latitude:         lat,
		Longitude:        lng,
		BusinessType:     string(b.BusinessType),
		Specialisation:   b.Specialisation,
		Email:            b.Email,
		Phone:            b.Phone,
		Website:          b.Website,
		OpeningHours:     b.OpeningHours,
		StickerRequested: b.StickerRequested,
		StickerType:      string(b.StickerType),
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return validateContact(b.Email, b.Phone)
}

// validateContact requires at least one of email or phone.
func validateContact(email, phone *string) error {
	if email == nil && phone == nil {
		return validation.Errors{
			"email": errors.New("email or phone is required"),
			"phone": errors.New("email or phone is required"),
		}
	}
	return nil
}

// AddPhotoRequest attaches a photo reference to a business.
type AddPhotoRequest struct {
	URL       string `json:"url"`
	PhotoType string `json:"photo_type"`
	Caption   string `json:"caption"`
	IsPrimary bool   `json:"is_primary"`
}

func (r AddPhotoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required, is.URL),
		validation.Field(&r.PhotoType, validation.Required, validation.In(PhotoTypes()...)),
		validation.Field(&r.Caption, validation.Length(0, 200)),
	)
}

// Validate implements validation.Validatable so slices of periods are
// checked element by element.
func (p OpeningPeriod) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Day, validation.Required, validation.In(weekdays...)),
		validation.Field(&p.Opens,
			validation.When(!p.Closed, validation.Required, validation.Match(clockPattern)),
		),
		validation.Field(&p.Closes,
			validation.When(!p.Closed, validation.Required, validation.Match(clockPattern)),
		),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type BusinessResponse struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Address        string           `json:"address"`
	Postcode       string           `json:"postcode"`
	City           string           `json:"city"`
	Latitude       *decimal.Decimal `json:"latitude,omitempty"`
	Longitude      *decimal.Decimal `json:"longitude,omitempty"`
	MapsURL        string           `json:"maps_url,omitempty"`
	BusinessType   BusinessType     `json:"business_type"`
	Specialisation string           `json:"specialisation,omitempty"`
	FullType       string           `json:"full_type"`
	Email          *string          `json:"email,omitempty"`
	Phone          *string          `json:"phone,omitempty"`
	Website        *string          `json:"website,omitempty"`
	OpeningHours   []OpeningPeriod  `json:"opening_hours"`

	AccessibilityFeatures string `json:"accessibility_features"`
	AccessibilityBarriers string `json:"accessibility_barriers"`
	BusinessNotes         string `json:"business_notes"`
	SpecialMentions       string `json:"special_mentions"`

	StickerRequested bool        `json:"sticker_requested"`
	StickerType      StickerType `json:"sticker_type,omitempty"`
	FeePaid          bool        `json:"fee_paid"`
	IsVerified       bool        `json:"is_verified"`

	CurrentRating     *int       `json:"current_rating"`
	RatingLabel       string     `json:"rating_label"`
	FirstAssessedDate *time.Time `json:"first_assessed_date"`
	NextAssessmentDue *time.Time `json:"next_assessment_due"`
	NeedsReassessment bool       `json:"needs_reassessment"`

	ClaimedBy *uuid.UUID `json:"claimed_by"`
	IsClaimed bool       `json:"is_claimed"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BusinessSummary is the listing shape used by search results.
type BusinessSummary struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Postcode      string       `json:"postcode"`
	City          string       `json:"city"`
	BusinessType  BusinessType `json:"business_type"`
	FullType      string       `json:"full_type"`
	CurrentRating *int         `json:"current_rating"`
	RatingLabel   string       `json:"rating_label"`
	IsClaimed     bool         `json:"is_claimed"`
}

type PhotoResponse struct {
	ID         uuid.UUID `json:"id"`
	BusinessID uuid.UUID `json:"business_id"`
	URL        string    `json:"url"`
	PhotoType  PhotoType `json:"photo_type"`
	Caption    string    `json:"caption,omitempty"`
	IsPrimary  bool      `json:"is_primary"`
	CreatedAt  time.Time `json:"created_at"`
}

func (b *Business) ToResponse(now time.Time) *BusinessResponse {
	resp := &BusinessResponse{
		ID:                    b.ID,
		Name:                  b.Name,
		Description:           b.Description,
		Address:               b.Address,
		Postcode:              b.Postcode,
		City:                  b.City,
		MapsURL:               b.MapsURL(),
		BusinessType:          b.BusinessType,
		Specialisation:        b.Specialisation,
		FullType:              b.FullType(),
		Email:                 b.Email,
		Phone:                 b.Phone,
		Website:               b.Website,
		OpeningHours:          b.OpeningHours,
		AccessibilityFeatures: b.AccessibilityFeatures,
		AccessibilityBarriers: b.AccessibilityBarriers,
		BusinessNotes:         b.BusinessNotes,
		SpecialMentions:       b.SpecialMentions,
		StickerRequested:      b.StickerRequested,
		StickerType:           b.StickerType,
		FeePaid:               b.FeePaid,
		IsVerified:            b.IsVerified,
		CurrentRating:         b.CurrentRating,
		RatingLabel:           RatingLabel(b.CurrentRating),
		FirstAssessedDate:     b.FirstAssessedDate,
		NextAssessmentDue:     b.NextAssessmentDue,
		NeedsReassessment:     b.NeedsReassessment(now),
		ClaimedBy:             b.ClaimedBy,
		IsClaimed:             b.IsClaimed(),
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}
	if b.Latitude.Valid {
		lat := b.Latitude.Decimal
		resp.Latitude = &lat
	}
	if b.Longitude.Valid {
		lng := b.Longitude.Decimal
		resp.Longitude = &lng
	}
	if resp.OpeningHours == nil {
		resp.OpeningHours = []OpeningPeriod{}
	}
	return resp
}

func (b *Business) ToSummary() BusinessSummary {
	return BusinessSummary{
		ID:            b.ID,
		Name:          b.Name,
		Postcode:      b.Postcode,
		City:          b.City,
		BusinessType:  b.BusinessType,
		FullType:      b.FullType(),
		CurrentRating: b.CurrentRating,
		RatingLabel:   RatingLabel(b.CurrentRating),
		IsClaimed:     b.IsClaimed(),
	}
}

func (p *Photo) ToResponse() PhotoResponse {
	return PhotoResponse{
		ID:         p.ID,
		BusinessID: p.BusinessID,
		URL:        p.URL,
		PhotoType:  p.PhotoType,
		Caption:    p.Caption,
		IsPrimary:  p.IsPrimary,
		CreatedAt:  p.CreatedAt,
	}
}

// =====================================================
// HELPERS
// =====================================================

// NormalizePostcode upper-cases and collapses inner whitespace.
func NormalizePostcode(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func descriptionRule(value interface{}) error {
	s, _ := value.(string)
	if utf8.RuneCountInString(s) > MaxDescriptionChars {
		return errors.New("must be at most 600 characters")
	}
	if len(strings.Fields(s)) > MaxDescriptionWords {
		return errors.New("must be at most 100 words")
	}
	return nil
}

func coordinateRule(limit int64) validation.RuleFunc {
	bound := decimal.NewFromInt(limit)
	return func(value interface{}) error {
		d, _ := value.(*decimal.Decimal)
		if d == nil {
			return nil
		}
		if d.Abs().GreaterThan(bound) {
			return errors.New("is out of range")
		}
		return nil
	}
}

func stickerRule(requested bool) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		switch StickerType(s) {
		case StickerWindowInside, StickerWindowOutside:
			return nil
		case StickerNone:
			if requested {
				return errors.New("is required when a sticker is requested")
			}
			return nil
		}
		return errors.New("must be window_inside or window_outside")
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
