package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"accessrating-backend/internal/domains/review/model"
	"accessrating-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresReviewRepository struct {
	db database.DB
}

func NewPostgresReviewRepository(db database.DB) ReviewRepository {
	return &postgresReviewRepository{db: db}
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (id, business_id, author_id, sentiment, comment, photos, helpful_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
	`

	photos := review.Photos
	if photos == nil {
		photos = []string{}
	}

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.BusinessID,
		review.AuthorID,
		string(review.Sentiment),
		review.Comment,
		pq.Array(photos),
		review.CreatedAt,
	)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err):
			return model.ErrAlreadyReviewed
		case database.IsForeignKeyViolation(err):
			return model.ErrBusinessNotFound
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// =====================================================
// HELPFUL VOTES
// =====================================================

// ToggleVote relies on the (review_id, user_id) primary key: an insert that
// hits the existing row inserts nothing, which means "delete instead". The
// review row lock serializes toggles so the recount never drifts.
func (r *postgresReviewRepository) ToggleVote(ctx context.Context, reviewID, userID uuid.UUID) (*model.VoteResult, error) {
	return database.WithTransactionResult(ctx, r.db, func(tx pgx.Tx) (*model.VoteResult, error) {
		// Step 1: lock the review (doubles as the existence check)
		var locked uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM reviews WHERE id = $1 FOR UPDATE`, reviewID).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, model.ErrReviewNotFound
			}
			return nil, fmt.Errorf("failed to lock review: %w", err)
		}

		// Step 2: try to create the vote
		tag, err := tx.Exec(ctx, `
			INSERT INTO review_votes (review_id, user_id) VALUES ($1, $2)
			ON CONFLICT (review_id, user_id) DO NOTHING
		`, reviewID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert vote: %w", err)
		}

		voted := tag.RowsAffected() == 1
		if !voted {
			// Step 3: it existed, so this toggle removes it
			if _, err := tx.Exec(ctx,
				`DELETE FROM review_votes WHERE review_id = $1 AND user_id = $2`,
				reviewID, userID,
			); err != nil {
				return nil, fmt.Errorf("failed to delete vote: %w", err)
			}
		}

		// Step 4: recount from live rows
		res := &model.VoteResult{ReviewID: reviewID, UserHasVoted: voted}
		err = tx.QueryRow(ctx, `
			UPDATE reviews
			SET helpful_count = (SELECT COUNT(*) FROM review_votes WHERE review_id = $1)
			WHERE id = $1
			RETURNING helpful_count
		`, reviewID).Scan(&res.HelpfulCount)
		if err != nil {
			return nil, fmt.Errorf("failed to recount votes: %w", err)
		}

		return res, nil
	})
}

// =====================================================
// LIST
// =====================================================

func (r *postgresReviewRepository) ListByBusiness(
	ctx context.Context,
	businessID uuid.UUID,
	viewerID *uuid.UUID,
	page, limit int,
) ([]*model.Review, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE business_id = $1`, businessID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	query := `
		SELECT
			r.id, r.business_id, r.author_id, r.sentiment, r.comment, r.photos,
			r.helpful_count, r.created_at,
			EXISTS (
				SELECT 1 FROM review_votes v
				WHERE v.review_id = r.id AND v.user_id = $2
			) AS viewer_voted
		FROM reviews r
		WHERE r.business_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, businessID, viewerID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*model.Review, 0)
	for rows.Next() {
		review := &model.Review{}
		var sentiment string
		var photos []string
		if err := rows.Scan(
			&review.ID,
			&review.BusinessID,
			&review.AuthorID,
			&sentiment,
			&review.Comment,
			pq.Array(&photos),
			&review.HelpfulCount,
			&review.CreatedAt,
			&review.ViewerVoted,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		review.Sentiment = model.Sentiment(sentiment)
		review.Photos = photos
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}
