package repository

import (
	"context"
	"fmt"

	bizmodel "accessrating-backend/internal/domains/business/model"
	bizrepo "accessrating-backend/internal/domains/business/repository"
	"accessrating-backend/internal/domains/directory/model"
	"accessrating-backend/pkg/database"
)

type Repository interface {
	Search(ctx context.Context, f model.Filter) ([]*bizmodel.Business, int, error)
}

type postgresRepository struct {
	db database.DB
}

func NewPostgresRepository(db database.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Search(ctx context.Context, f model.Filter) ([]*bizmodel.Business, int, error) {
	// Step 1: Count the whole filtered set
	countSQL, countArgs, err := BuildCount(f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count businesses: %w", err)
	}
	if total == 0 {
		return []*bizmodel.Business{}, 0, nil
	}

	// Step 2: Fetch the requested page
	query, args, err := BuildSearch(f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build search query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search businesses: %w", err)
	}
	defer rows.Close()

	items := make([]*bizmodel.Business, 0, f.Limit)
	for rows.Next() {
		b, err := bizrepo.ScanBusiness(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan business: %w", err)
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate businesses: %w", err)
	}
	return items, total, nil
}
