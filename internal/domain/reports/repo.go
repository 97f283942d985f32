package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo runs the read-only dashboard aggregations. Everything is computed fresh
// per request; data volumes are small and the numbers must reflect the latest
// write.
type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) CampusSummaries(ctx context.Context) ([]CampusSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, c.code,
		       COUNT(s.id),
		       COALESCE(SUM(s.quantity * s.unit_price), 0),
		       COUNT(s.id) FILTER (WHERE s.quantity <= s.low_stock_threshold)
		FROM campuses c
		LEFT JOIN stocks s ON s.campus_id = c.id
		GROUP BY c.id, c.name, c.code
		ORDER BY c.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CampusSummary
	for rows.Next() {
		var cs CampusSummary
		if err := rows.Scan(&cs.CampusID, &cs.CampusName, &cs.CampusCode,
			&cs.ItemCount, &cs.TotalValue, &cs.LowStockCount); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// GlobalTotals sums the per-campus rollups system-wide.
func (r *Repo) GlobalTotals(ctx context.Context) (Totals, error) {
	var t Totals
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(quantity * unit_price), 0),
		       COUNT(*) FILTER (WHERE quantity <= low_stock_threshold)
		FROM stocks
	`).Scan(&t.Items, &t.Value, &t.LowStock)
	return t, err
}

func (r *Repo) CategoryHistogram(ctx context.Context) ([]CategoryCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(NULLIF(category, ''), 'Uncategorized'), SUM(quantity)
		FROM stocks
		GROUP BY 1
		ORDER BY 2 DESC, 1
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Quantity); err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

func (r *Repo) ConditionHistogram(ctx context.Context) ([]ConditionCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT condition, COUNT(*)
		FROM stocks
		GROUP BY condition
		ORDER BY 2 DESC, 1
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ConditionCount
	for rows.Next() {
		var cc ConditionCount
		if err := rows.Scan(&cc.Condition, &cc.Count); err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

// AttentionList returns the items whose quantity sits lowest relative to their
// threshold, system-wide.
func (r *Repo) AttentionList(ctx context.Context, limit int) ([]AttentionItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.item_name, c.name, s.quantity, s.low_stock_threshold,
		       s.quantity <= s.low_stock_threshold
		FROM stocks s
		JOIN campuses c ON c.id = s.campus_id
		ORDER BY s.quantity - s.low_stock_threshold, s.item_name
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttentionItem
	for rows.Next() {
		var it AttentionItem
		if err := rows.Scan(&it.StockID, &it.ItemName, &it.CampusName,
			&it.Quantity, &it.LowStockThreshold, &it.IsLowStock); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
