package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"accessrating-backend/pkg/database"
)

type Repository interface {
	// Add is a no-op when the pair already exists
	Add(ctx context.Context, userID, businessID uuid.UUID) error
	// Remove is a no-op when absent
	Remove(ctx context.Context, userID, businessID uuid.UUID) error
	// Toggle flips membership and reports the new state
	Toggle(ctx context.Context, userID, businessID uuid.UUID) (bool, error)
	List(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// ErrBusinessNotFound is returned when the favorited business is gone.
var ErrBusinessNotFound = errors.New("business not found")

type postgresRepository struct {
	db database.DB
}

func NewPostgresRepository(db database.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Add(ctx context.Context, userID, businessID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO favorites (user_id, business_id) VALUES ($1, $2)
		ON CONFLICT (user_id, business_id) DO NOTHING
	`, userID, businessID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrBusinessNotFound
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *postgresRepository) Remove(ctx context.Context, userID, businessID uuid.UUID) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND business_id = $2`,
		userID, businessID,
	); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (r *postgresRepository) Toggle(ctx context.Context, userID, businessID uuid.UUID) (bool, error) {
	return database.WithTransactionResult(ctx, r.db, func(tx pgx.Tx) (bool, error) {
		tag, err := tx.Exec(ctx, `
			INSERT INTO favorites (user_id, business_id) VALUES ($1, $2)
			ON CONFLICT (user_id, business_id) DO NOTHING
		`, userID, businessID)
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return false, ErrBusinessNotFound
			}
			return false, fmt.Errorf("failed to toggle favorite: %w", err)
		}
		if tag.RowsAffected() == 1 {
			return true, nil
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM favorites WHERE user_id = $1 AND business_id = $2`,
			userID, businessID,
		); err != nil {
			return false, fmt.Errorf("failed to toggle favorite: %w", err)
		}
		return false, nil
	})
}

func (r *postgresRepository) List(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT business_id FROM favorites WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
