package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"itemhub-rest-api/internal/model"
)

// placeholderFunc renders the i-th (1-based) SQL placeholder for a backend.
type placeholderFunc func(i int) string

func questionPlaceholder(int) string { return "?" }

func dollarPlaceholder(i int) string { return fmt.Sprintf("$%d", i) }

// buildFilter renders a ListFilter as a WHERE clause conjunction plus its
// arguments. An empty filter yields an empty clause.
func buildFilter(filter ListFilter, placeholder placeholderFunc) (string, []any) {
	var conds []string
	var args []any

	add := func(expr string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(expr, placeholder(len(args))))
	}

	if filter.InStock != nil {
		add("in_stock = %s", *filter.InStock)
	}
	if filter.MinPrice != nil {
		add("price >= %s", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("price <= %s", *filter.MaxPrice)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// scanItems collects all rows of the canonical item column set.
func scanItems(rows *sql.Rows) ([]*model.Item, error) {
	items := []*model.Item{}
	for rows.Next() {
		item := &model.Item{}
		var description sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &description,
			&item.InStock, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if description.Valid {
			item.Description = &description.String
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
