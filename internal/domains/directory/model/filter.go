package model

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	bizmodel "accessrating-backend/internal/domains/business/model"
)

const (
	OwnerMe       = "me"
	MaxTextLength = 200
	MaxCityLength = 100
)

// SearchRequest is the raw query string of a directory search.
type SearchRequest struct {
	AccessibilityLevel string `form:"accessibility_level"`
	BusinessType       string `form:"business_type"`
	City               string `form:"city"`
	Text               string `form:"text"`
	Owner              string `form:"owner"`
}

func (r *SearchRequest) Normalize() {
	r.AccessibilityLevel = strings.TrimSpace(r.AccessibilityLevel)
	r.BusinessType = strings.ToLower(strings.TrimSpace(r.BusinessType))
	r.City = strings.Join(strings.Fields(r.City), " ")
	r.Text = strings.TrimSpace(r.Text)
	r.Owner = strings.ToLower(strings.TrimSpace(r.Owner))
}

func (r SearchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AccessibilityLevel, validation.By(levelRule)),
		validation.Field(&r.BusinessType, validation.In(bizmodel.BusinessTypes()...).Error("unknown business type")),
		validation.Field(&r.City, validation.RuneLength(0, MaxCityLength)),
		validation.Field(&r.Text, validation.RuneLength(0, MaxTextLength)),
		validation.Field(&r.Owner, validation.In(OwnerMe).Error("owner only accepts \"me\"")),
	)
}

func levelRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 5 {
		return validation.NewError("validation_level_range", "must be an integer between 1 and 5")
	}
	return nil
}

// HasFilters reports whether any filter was supplied.
func (r SearchRequest) HasFilters() bool {
	return r.AccessibilityLevel != "" || r.BusinessType != "" || r.City != "" || r.Text != "" || r.Owner != ""
}

// Encode renders the request as a canonical query string.
func (r SearchRequest) Encode() string {
	v := url.Values{}
	if r.AccessibilityLevel != "" {
		v.Set("accessibility_level", r.AccessibilityLevel)
	}
	if r.BusinessType != "" {
		v.Set("business_type", r.BusinessType)
	}
	if r.City != "" {
		v.Set("city", r.City)
	}
	if r.Text != "" {
		v.Set("text", r.Text)
	}
	if r.Owner != "" {
		v.Set("owner", r.Owner)
	}
	return v.Encode()
}

// Filter is a validated search. Every set field narrows the result (AND).
type Filter struct {
	AccessibilityLevel *int
	BusinessType       bizmodel.BusinessType
	City               string // exact match, ignoring case
	Text               string
	OwnerID            *uuid.UUID
	Page               int
	Limit              int
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ToFilter assumes Validate passed. ownerID is the caller when owner=me.
func (r SearchRequest) ToFilter(ownerID *uuid.UUID, page, limit int) Filter {
	f := Filter{
		BusinessType: bizmodel.BusinessType(r.BusinessType),
		City:         r.City,
		Text:         r.Text,
		Page:         page,
		Limit:        limit,
	}
	if r.AccessibilityLevel != "" {
		n, _ := strconv.Atoi(r.AccessibilityLevel)
		f.AccessibilityLevel = &n
	}
	if r.Owner == OwnerMe {
		f.OwnerID = ownerID
	}
	return f
}

// SearchEntry is one remembered search.
type SearchEntry struct {
	Query      string    `json:"query"`
	SearchedAt time.Time `json:"searched_at"`
}
