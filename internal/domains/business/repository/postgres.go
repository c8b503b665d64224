package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"accessrating-backend/internal/domains/business/model"
	"accessrating-backend/pkg/database"
)

// Columns is the canonical select list; ScanBusiness expects this order.
const Columns = `id, name, description, address, postcode, city, latitude, longitude,
	business_type, specialisation, email, phone, website, opening_hours,
	accessibility_features, accessibility_barriers, business_notes, special_mentions,
	sticker_requested, sticker_type, fee_paid, is_verified,
	current_rating, rating_approved_at, first_assessed_date, next_assessment_due,
	claimed_by, created_by, created_at, updated_at`

// ColumnNames is Columns as identifiers for query builders.
var ColumnNames = []interface{}{
	"id", "name", "description", "address", "postcode", "city", "latitude", "longitude",
	"business_type", "specialisation", "email", "phone", "website", "opening_hours",
	"accessibility_features", "accessibility_barriers", "business_notes", "special_mentions",
	"sticker_requested", "sticker_type", "fee_paid", "is_verified",
	"current_rating", "rating_approved_at", "first_assessed_date", "next_assessment_due",
	"claimed_by", "created_by", "created_at", "updated_at",
}

// PostgresRepository implements both Repository and RatingWriter.
type PostgresRepository struct {
	db database.DB
}

func NewPostgresRepository(db database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var (
	_ Repository   = (*PostgresRepository)(nil)
	_ RatingWriter = (*PostgresRepository)(nil)
)

// =====================================================
// CREATE
// =====================================================

func (r *PostgresRepository) Create(ctx context.Context, b *model.Business) error {
	query := `
		INSERT INTO businesses (
			id, name, description, address, postcode, city, latitude, longitude,
			business_type, specialisation, email, phone, website, opening_hours,
			accessibility_features, accessibility_barriers, business_notes, special_mentions,
			sticker_requested, sticker_type, fee_paid, is_verified,
			created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18,
			$19, $20, $21, $22,
			$23, $24, $25
		)
	`

	_, err := r.db.Exec(ctx, query,
		b.ID, b.Name, b.Description, b.Address, b.Postcode, b.City, b.Latitude, b.Longitude,
		string(b.BusinessType), b.Specialisation, b.Email, b.Phone, b.Website, openingHours(b),
		b.AccessibilityFeatures, b.AccessibilityBarriers, b.BusinessNotes, b.SpecialMentions,
		b.StickerRequested, string(b.StickerType), b.FeePaid, b.IsVerified,
		b.CreatedBy, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create business: %w", err)
	}
	return nil
}

// =====================================================
// READ
// =====================================================

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	query := `SELECT ` + Columns + ` FROM businesses WHERE id = $1`

	b, err := ScanBusiness(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get business: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM businesses WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check business: %w", err)
	}
	return exists, nil
}

// =====================================================
// UPDATE
// =====================================================

func (r *PostgresRepository) Update(ctx context.Context, b *model.Business) error {
	query := `
		UPDATE businesses SET
			name = $2, description = $3, address = $4, postcode = $5, city = $6,
			latitude = $7, longitude = $8, business_type = $9, specialisation = $10,
			email = $11, phone = $12, website = $13, opening_hours = $14,
			accessibility_features = $15, accessibility_barriers = $16,
			business_notes = $17, special_mentions = $18,
			sticker_requested = $19, sticker_type = $20, fee_paid = $21, is_verified = $22,
			updated_at = $23
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		b.ID, b.Name, b.Description, b.Address, b.Postcode, b.City,
		b.Latitude, b.Longitude, string(b.BusinessType), b.Specialisation,
		b.Email, b.Phone, b.Website, openingHours(b),
		b.AccessibilityFeatures, b.AccessibilityBarriers,
		b.BusinessNotes, b.SpecialMentions,
		b.StickerRequested, string(b.StickerType), b.FeePaid, b.IsVerified,
		b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update business: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// =====================================================
// CLAIM (compare-and-swap on claimed_by)
// =====================================================

func (r *PostgresRepository) Claim(ctx context.Context, id, ownerID uuid.UUID, now time.Time) (*model.Business, error) {
	query := `
		UPDATE businesses
		SET claimed_by = $2, updated_at = $3
		WHERE id = $1 AND claimed_by IS NULL
		RETURNING ` + Columns

	b, err := ScanBusiness(r.db.QueryRow(ctx, query, id, ownerID, now))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to claim business: %w", err)
	}

	// Step 2: nothing updated, either missing or someone else holds it
	exists, err := r.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrNotFound
	}
	return nil, model.ErrAlreadyClaimed
}

// =====================================================
// DELETE
// =====================================================

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete business: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// =====================================================
// RATING (approval side effect)
// =====================================================

// ApplyApprovedRating overwrites the denormalized rating unless a later
// approval has already been applied. The UPDATE row lock serializes
// concurrent approvals for the same business.
func (r *PostgresRepository) ApplyApprovedRating(
	ctx context.Context,
	tx pgx.Tx,
	businessID uuid.UUID,
	rating int,
	approvedAt, nextDue time.Time,
) (*model.RatingUpdate, error) {
	query := `
		UPDATE businesses SET
			current_rating = $2,
			rating_approved_at = $3,
			first_assessed_date = COALESCE(first_assessed_date, $3),
			next_assessment_due = $4,
			updated_at = $3
		WHERE id = $1
		  AND (rating_approved_at IS NULL OR rating_approved_at <= $3)
		RETURNING current_rating, first_assessed_date, next_assessment_due
	`

	res := &model.RatingUpdate{BusinessID: businessID, Applied: true}
	err := tx.QueryRow(ctx, query, businessID, rating, approvedAt, nextDue).
		Scan(&res.CurrentRating, &res.FirstAssessedDate, &res.NextAssessmentDue)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to apply rating: %w", err)
	}

	// A newer approval already owns the rating; report what is stored.
	var current *int
	var supersededBy, firstAssessed, nextAssessment *time.Time
	err = tx.QueryRow(ctx, `
		SELECT current_rating, rating_approved_at, first_assessed_date, next_assessment_due
		FROM businesses WHERE id = $1
	`, businessID).Scan(&current, &supersededBy, &firstAssessed, &nextAssessment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read rating: %w", err)
	}

	res.Applied = false
	res.SupersededBy = supersededBy
	if current != nil {
		res.CurrentRating = *current
	}
	if firstAssessed != nil {
		res.FirstAssessedDate = *firstAssessed
	}
	if nextAssessment != nil {
		res.NextAssessmentDue = *nextAssessment
	}
	return res, nil
}

// =====================================================
// PHOTOS
// =====================================================

func (r *PostgresRepository) AddPhoto(ctx context.Context, p *model.Photo) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if p.IsPrimary {
			if _, err := tx.Exec(ctx,
				`UPDATE business_photos SET is_primary = FALSE WHERE business_id = $1 AND is_primary`,
				p.BusinessID,
			); err != nil {
				return fmt.Errorf("failed to reset primary photo: %w", err)
			}
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO business_photos (id, business_id, url, photo_type, caption, is_primary, uploaded_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, p.ID, p.BusinessID, p.URL, string(p.PhotoType), p.Caption, p.IsPrimary, p.UploadedBy, p.CreatedAt)
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return model.ErrNotFound
			}
			return fmt.Errorf("failed to add photo: %w", err)
		}
		return nil
	})
}

func (r *PostgresRepository) ListPhotos(ctx context.Context, businessID uuid.UUID) ([]*model.Photo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, business_id, url, photo_type, caption, is_primary, uploaded_by, created_at
		FROM business_photos
		WHERE business_id = $1
		ORDER BY is_primary DESC, created_at DESC
	`, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	photos := make([]*model.Photo, 0)
	for rows.Next() {
		p := &model.Photo{}
		var photoType string
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.URL, &photoType, &p.Caption, &p.IsPrimary, &p.UploadedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		p.PhotoType = model.PhotoType(photoType)
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// =====================================================
// SCANNING
// =====================================================

// ScanBusiness reads one row selected with Columns.
func ScanBusiness(row pgx.Row) (*model.Business, error) {
	b := &model.Business{}
	var (
		businessType, stickerType string
		rating                    *int16
	)

	err := row.Scan(
		&b.ID, &b.Name, &b.Description, &b.Address, &b.Postcode, &b.City, &b.Latitude, &b.Longitude,
		&businessType, &b.Specialisation, &b.Email, &b.Phone, &b.Website, &b.OpeningHours,
		&b.AccessibilityFeatures, &b.AccessibilityBarriers, &b.BusinessNotes, &b.SpecialMentions,
		&b.StickerRequested, &stickerType, &b.FeePaid, &b.IsVerified,
		&rating, &b.RatingApprovedAt, &b.FirstAssessedDate, &b.NextAssessmentDue,
		&b.ClaimedBy, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.BusinessType = model.BusinessType(businessType)
	b.StickerType = model.StickerType(stickerType)
	if rating != nil {
		v := int(*rating)
		b.CurrentRating = &v
	}
	return b, nil
}

func openingHours(b *model.Business) []model.OpeningPeriod {
	if b.OpeningHours == nil {
		return []model.OpeningPeriod{}
	}
	return b.OpeningHours
}
