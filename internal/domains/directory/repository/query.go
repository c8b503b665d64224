package repository

import (
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"

	bizrepo "accessrating-backend/internal/domains/business/repository"
	"accessrating-backend/internal/domains/directory/model"
	"accessrating-backend/internal/shared/utils"
)

var dialect = goqu.Dialect("postgres")

// filtered applies every set filter to the businesses table.
func filtered(f model.Filter) *goqu.SelectDataset {
	ds := dialect.From("businesses").Prepared(true)

	var conds []exp.Expression
	if f.AccessibilityLevel != nil {
		// unrated rows never equal a level, so they drop out here
		conds = append(conds, goqu.I("current_rating").Eq(*f.AccessibilityLevel))
	}
	if f.BusinessType != "" {
		conds = append(conds, goqu.I("business_type").Eq(string(f.BusinessType)))
	}
	if f.City != "" {
		// ILIKE without wildcards is a case-insensitive equality
		conds = append(conds, goqu.I("city").ILike(utils.EscapeLike(f.City)))
	}
	if f.Text != "" {
		pattern := "%" + utils.EscapeLike(f.Text) + "%"
		conds = append(conds, goqu.Or(
			goqu.I("name").ILike(pattern),
			goqu.I("description").ILike(pattern),
			goqu.I("address").ILike(pattern),
		))
	}
	if f.OwnerID != nil {
		conds = append(conds, goqu.I("claimed_by").Eq(f.OwnerID.String()))
	}
	if len(conds) > 0 {
		ds = ds.Where(conds...)
	}
	return ds
}

// BuildSearch returns the page query, ordered by id for reproducible pages.
func BuildSearch(f model.Filter) (string, []interface{}, error) {
	return filtered(f).
		Select(bizrepo.ColumnNames...).
		Order(goqu.I("id").Asc()).
		Limit(uint(f.Limit)).
		Offset(uint(f.Offset())).
		ToSQL()
}

// BuildCount returns the total matching rows for the same filters.
func BuildCount(f model.Filter) (string, []interface{}, error) {
	return filtered(f).Select(goqu.COUNT("*")).ToSQL()
}
