package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"accessrating-backend/internal/domains/assessment/model"
	"accessrating-backend/pkg/database"
)

const columns = `id, business_id, proposed_rating, report, submitted_by, state,
	approved_by, rejected_by, rejection_reason,
	created_at, updated_at, submitted_at, approved_at, rejected_at`

type postgresRepository struct {
	db database.DB
}

func NewPostgresRepository(db database.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, a *model.Assessment) error {
	query := `
		INSERT INTO assessments (id, business_id, proposed_rating, report, submitted_by, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.BusinessID, a.ProposedRating, a.Report, a.SubmittedBy, string(a.State), a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Assessment, error) {
	a, err := scanAssessment(r.db.QueryRow(ctx, `SELECT `+columns+` FROM assessments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) UpdateDraft(ctx context.Context, a *model.Assessment) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE assessments SET proposed_rating = $2, report = $3, updated_at = $4
		WHERE id = $1 AND state = 'draft'
	`, a.ID, a.ProposedRating, a.Report, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update assessment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrStateChanged
	}
	return nil
}

func (r *postgresRepository) Submit(ctx context.Context, a *model.Assessment) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE assessments
		SET state = 'pending_approval', submitted_at = $2, updated_at = $2
		WHERE id = $1 AND state = 'draft'
		  AND proposed_rating IS NOT NULL AND btrim(report) <> ''
	`, a.ID, a.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to submit assessment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrStateChanged
	}
	return nil
}

func (r *postgresRepository) WithLocked(ctx context.Context, id uuid.UUID, fn LockedFunc) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		a, err := scanAssessment(tx.QueryRow(ctx, `SELECT `+columns+` FROM assessments WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrNotFound
			}
			return fmt.Errorf("failed to lock assessment: %w", err)
		}
		return fn(tx, a)
	})
}

func (r *postgresRepository) SaveDecision(ctx context.Context, tx pgx.Tx, a *model.Assessment) error {
	_, err := tx.Exec(ctx, `
		UPDATE assessments SET
			state = $2, approved_by = $3, approved_at = $4,
			rejected_by = $5, rejected_at = $6, rejection_reason = $7,
			updated_at = $8
		WHERE id = $1
	`, a.ID, string(a.State), a.ApprovedBy, a.ApprovedAt, a.RejectedBy, a.RejectedAt, a.RejectionReason, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save assessment decision: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*model.Assessment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+columns+` FROM assessments WHERE business_id = $1 ORDER BY created_at DESC, id`,
		businessID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (r *postgresRepository) ListPending(ctx context.Context, page, limit int) ([]*model.Assessment, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM assessments WHERE state = 'pending_approval'`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pending assessments: %w", err)
	}

	// oldest submissions first: it is a queue
	rows, err := r.db.Query(ctx, `
		SELECT `+columns+` FROM assessments
		WHERE state = 'pending_approval'
		ORDER BY submitted_at ASC, id
		LIMIT $1 OFFSET $2
	`, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pending assessments: %w", err)
	}
	defer rows.Close()

	items, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func collect(rows pgx.Rows) ([]*model.Assessment, error) {
	items := make([]*model.Assessment, 0)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func scanAssessment(row pgx.Row) (*model.Assessment, error) {
	a := &model.Assessment{}
	var (
		state  string
		rating *int16
	)
	err := row.Scan(
		&a.ID, &a.BusinessID, &rating, &a.Report, &a.SubmittedBy, &state,
		&a.ApprovedBy, &a.RejectedBy, &a.RejectionReason,
		&a.CreatedAt, &a.UpdatedAt, &a.SubmittedAt, &a.ApprovedAt, &a.RejectedAt,
	)
	if err != nil {
		return nil, err
	}
	a.State = model.State(state)
	if rating != nil {
		v := int(*rating)
		a.ProposedRating = &v
	}
	return a, nil
}
