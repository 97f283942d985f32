package history

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so callers can append
// audit rows inside their own transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Insert appends one audit row. Append-only: nothing in this package updates
// or deletes stock_history rows. An entry without a live stock reference is
// recorded with item name "N/A".
func Insert(ctx context.Context, q Querier, e Entry) error {
	if e.ItemName == "" {
		e.ItemName = "N/A"
	}
	_, err := q.Exec(ctx, `
		INSERT INTO stock_history (stock_id, item_name, campus_name, action, field_changed, old_value, new_value, changed_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, e.StockID, e.ItemName, e.CampusName, string(e.Action), e.FieldChanged, e.OldValue, e.NewValue, e.ChangedBy)
	return err
}

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Insert(ctx context.Context, e Entry) error {
	return Insert(ctx, r.pool, e)
}

func (r *Repo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, stock_id, item_name, campus_name, action, field_changed, old_value, new_value, changed_by, created_at
		FROM stock_history
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *Repo) ListByStock(ctx context.Context, stockID int64) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, stock_id, item_name, campus_name, action, field_changed, old_value, new_value, changed_by, created_at
		FROM stock_history
		WHERE stock_id = $1
		ORDER BY created_at DESC, id DESC
	`, stockID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.StockID, &e.ItemName, &e.CampusName, &e.Action, &e.FieldChanged, &e.OldValue, &e.NewValue, &e.ChangedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
