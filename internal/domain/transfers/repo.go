package transfers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusops/stocktrack/internal/domain/history"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Transfer moves quantity from the source stock row to the destination campus
// as one transaction: decrement the source, merge into (or create) the
// destination row, record the transfer, and append the paired audit entries.
// Any failure rolls the whole unit back. The source row is locked for the
// duration of the transaction so concurrent transfers cannot overdraw it.
func (r *Repo) Transfer(ctx context.Context, req Request) (*StockTransfer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		src struct {
			ItemName          string
			Category          string
			Quantity          int
			Unit              string
			UnitPrice         float64
			Condition         string
			LowStockThreshold int
			CampusID          int64
			CampusName        string
		}
	)
	err = tx.QueryRow(ctx, `
		SELECT s.item_name, s.category, s.quantity, s.unit, s.unit_price, s.condition,
		       s.low_stock_threshold, s.campus_id, c.name
		FROM stocks s
		JOIN campuses c ON c.id = s.campus_id
		WHERE s.id = $1
		FOR UPDATE OF s
	`, req.StockID).Scan(&src.ItemName, &src.Category, &src.Quantity, &src.Unit, &src.UnitPrice,
		&src.Condition, &src.LowStockThreshold, &src.CampusID, &src.CampusName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrStockNotFound
		}
		return nil, err
	}

	if src.CampusID != req.FromCampusID {
		return nil, ErrCampusMismatch
	}
	if req.Quantity > src.Quantity {
		return nil, ErrInsufficient
	}

	var destCampusName string
	err = tx.QueryRow(ctx, `SELECT name FROM campuses WHERE id = $1`, req.ToCampusID).Scan(&destCampusName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCampusNotFound
		}
		return nil, err
	}

	// 1. Drain the source and recompute its derived value.
	srcAfter := src.Quantity - req.Quantity
	if _, err := tx.Exec(ctx, `
		UPDATE stocks
		SET quantity = $2, total_value = $2 * unit_price, updated_at = now()
		WHERE id = $1
	`, req.StockID, srcAfter); err != nil {
		return nil, err
	}

	// 2. Merge into an existing destination row for the same item, or create
	// one copying the source's descriptive fields. Lowest id wins when more
	// than one row could match.
	var (
		destID     int64
		destBefore int
	)
	err = tx.QueryRow(ctx, `
		SELECT id, quantity
		FROM stocks
		WHERE campus_id = $1 AND item_name = $2 AND category = $3
		ORDER BY id
		LIMIT 1
		FOR UPDATE
	`, req.ToCampusID, src.ItemName, src.Category).Scan(&destID, &destBefore)
	switch err {
	case nil:
		if _, err := tx.Exec(ctx, `
			UPDATE stocks
			SET quantity = $2, total_value = $2 * unit_price, updated_at = now()
			WHERE id = $1
		`, destID, destBefore+req.Quantity); err != nil {
			return nil, err
		}
	case pgx.ErrNoRows:
		destBefore = 0
		note := fmt.Sprintf("Transferred from %s", src.CampusName)
		if err := tx.QueryRow(ctx, `
			INSERT INTO stocks (item_name, category, quantity, unit, unit_price, total_value,
				condition, low_stock_threshold, remarks, added_by, campus_id)
			VALUES ($1,$2,$3,$4,$5,$3*$5,$6,$7,$8,$9,$10)
			RETURNING id
		`, src.ItemName, src.Category, req.Quantity, src.Unit, src.UnitPrice,
			src.Condition, src.LowStockThreshold, note, req.Actor, req.ToCampusID).Scan(&destID); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	destAfter := destBefore + req.Quantity

	// 3. Record the transfer itself.
	t := &StockTransfer{
		ItemName:      src.ItemName,
		Quantity:      req.Quantity,
		FromCampusID:  req.FromCampusID,
		ToCampusID:    req.ToCampusID,
		TransferredBy: req.Actor,
		Remarks:       req.Remarks,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO stock_transfers (stock_id, item_name, quantity, from_campus_id, to_campus_id, transferred_by, remarks)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, stock_id, created_at
	`, req.StockID, src.ItemName, req.Quantity, req.FromCampusID, req.ToCampusID, req.Actor, req.Remarks).
		Scan(&t.ID, &t.StockID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	// 4. Paired audit entries with pre/post quantities on both sides.
	srcID := req.StockID
	if err := history.Insert(ctx, tx, history.Entry{
		StockID:      &srcID,
		ItemName:     src.ItemName,
		CampusName:   src.CampusName,
		Action:       history.ActionTransferredOut,
		FieldChanged: "quantity",
		OldValue:     strconv.Itoa(src.Quantity),
		NewValue:     strconv.Itoa(srcAfter),
		ChangedBy:    req.Actor,
	}); err != nil {
		return nil, err
	}
	if err := history.Insert(ctx, tx, history.Entry{
		StockID:      &destID,
		ItemName:     src.ItemName,
		CampusName:   destCampusName,
		Action:       history.ActionTransferredIn,
		FieldChanged: "quantity",
		OldValue:     strconv.Itoa(destBefore),
		NewValue:     strconv.Itoa(destAfter),
		ChangedBy:    req.Actor,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns transfers, newest first, optionally filtered by stock item or
// by a campus appearing on either side.
func (r *Repo) List(ctx context.Context, stockID, campusID int64) ([]StockTransfer, error) {
	q := `
		SELECT id, stock_id, item_name, quantity, from_campus_id, to_campus_id, transferred_by, remarks, created_at
		FROM stock_transfers
		WHERE 1=1
	`
	var args []any
	if stockID > 0 {
		args = append(args, stockID)
		q += ` AND stock_id = $` + strconv.Itoa(len(args))
	}
	if campusID > 0 {
		args = append(args, campusID)
		n := strconv.Itoa(len(args))
		q += ` AND (from_campus_id = $` + n + ` OR to_campus_id = $` + n + `)`
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StockTransfer
	for rows.Next() {
		var t StockTransfer
		if err := rows.Scan(&t.ID, &t.StockID, &t.ItemName, &t.Quantity, &t.FromCampusID, &t.ToCampusID,
			&t.TransferredBy, &t.Remarks, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
