package model

import (
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validBusiness() *Business {
	return &Business{
		ID:           uuid.New(),
		Name:         "The Ramp Cafe",
		Address:      "1 High Street",
		Postcode:     "SW1A 1AA",
		BusinessType: TypeCafe,
		Email:        strPtr("hello@ramp.example"),
	}
}

func fieldErrors(t *testing.T, err error) validation.Errors {
	t.Helper()
	require.Error(t, err)
	errs, ok := err.(validation.Errors)
	require.True(t, ok, "expected validation.Errors, got %T", err)
	return errs
}

func TestValidateBusiness_Valid(t *testing.T) {
	assert.NoError(t, ValidateBusiness(validBusiness()))
}

func TestValidateBusiness_ContactLengthsFitColumns(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *Business)
		field  string
		ok     bool
	}{
		{"phone at 20 chars", func(b *Business) { b.Phone = strPtr("+" + strings.Repeat("1", 19)) }, "phone", true},
		{"phone at 21 chars", func(b *Business) { b.Phone = strPtr("+" + strings.Repeat("1", 20)) }, "phone", false},
		{"phone without plus at 20 chars", func(b *Business) { b.Phone = strPtr(strings.Repeat("1", 20)) }, "phone", false},
		{"email at 255 chars", func(b *Business) {
			b.Email = strPtr(strings.Repeat("a", 64) + "@" + strings.Repeat("b", 63) + "." + strings.Repeat("c", 63) + "." + strings.Repeat("d", 54) + ".example")
		}, "email", true},
		{"email at 315 chars", func(b *Business) { b.Email = strPtr(strings.Repeat("a", 302) + "@ramp.example") }, "email", false},
		{"website at 255 chars", func(b *Business) { b.Website = strPtr("https://ramp.example/" + strings.Repeat("p", 234)) }, "website", true},
		{"website at 320 chars", func(b *Business) { b.Website = strPtr("https://ramp.example/" + strings.Repeat("p", 299)) }, "website", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBusiness()
			tt.mutate(b)

			err := ValidateBusiness(b)

			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldErrors(t, err), tt.field)
		})
	}
}

func TestValidateBusiness_DescriptionCountsCharacters(t *testing.T) {
	b := validBusiness()
	b.Description = strings.Repeat("é", 400)
	assert.NoError(t, ValidateBusiness(b))

	b.Description = strings.Repeat("é", 600)
	assert.NoError(t, ValidateBusiness(b))

	b.Description = strings.Repeat("é", 601)
	assert.Contains(t, fieldErrors(t, ValidateBusiness(b)), "description")
}

func TestValidateBusiness_CoordinatesArePaired(t *testing.T) {
	tests := []struct {
		name    string
		lat     *decimal.Decimal
		lng     *decimal.Decimal
		invalid string
	}{
		{"both set", decPtr("51.5014"), decPtr("-0.1419"), ""},
		{"neither set", nil, nil, ""},
		{"latitude only", decPtr("51.5014"), nil, "longitude"},
		{"longitude only", nil, decPtr("-0.1419"), "latitude"},
		{"latitude out of range", decPtr("91"), decPtr("0"), "latitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBusiness()
			if tt.lat != nil {
				b.Latitude = decimal.NewNullDecimal(*tt.lat)
			}
			if tt.lng != nil {
				b.Longitude = decimal.NewNullDecimal(*tt.lng)
			}

			err := ValidateBusiness(b)

			if tt.invalid == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldErrors(t, err), tt.invalid)
		})
	}
}

func TestUpdateApplyTo_ClearLocation(t *testing.T) {
	b := validBusiness()
	b.Latitude = decimal.NewNullDecimal(decimal.RequireFromString("51.5014"))
	b.Longitude = decimal.NewNullDecimal(decimal.RequireFromString("-0.1419"))

	UpdateBusinessRequest{ClearLocation: true}.ApplyTo(b)

	assert.False(t, b.Latitude.Valid)
	assert.False(t, b.Longitude.Valid)
	assert.NoError(t, ValidateBusiness(b))
}

func TestUpdateApplyTo_ClearThenReplaceLocation(t *testing.T) {
	b := validBusiness()
	b.Latitude = decimal.NewNullDecimal(decimal.RequireFromString("51.5014"))
	b.Longitude = decimal.NewNullDecimal(decimal.RequireFromString("-0.1419"))

	UpdateBusinessRequest{ClearLocation: true, Latitude: decPtr("53.4808")}.ApplyTo(b)

	assert.True(t, b.Latitude.Valid)
	assert.False(t, b.Longitude.Valid)
	assert.Contains(t, fieldErrors(t, ValidateBusiness(b)), "longitude")
}
