package stock

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusops/stocktrack/internal/domain/history"
)

var (
	ErrNotFound          = errors.New("stock item not found")
	ErrDuplicateAssetTag = errors.New("asset tag already exists")
)

const columns = `s.id, s.item_name, s.category, s.quantity, s.unit, s.unit_price, s.total_value,
	s.condition, s.status, s.low_stock_threshold, s.asset_tag, s.serial_number, s.manufacturer,
	s.model, s.department, s.purchase_date, s.warranty_expiry, s.assigned_to, s.remarks,
	s.added_by, s.campus_id, s.created_at, s.updated_at`

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (s *Stock) applyDefaults() {
	if s.Unit == "" {
		s.Unit = "pcs"
	}
	if s.Condition == "" {
		s.Condition = CondGood
	}
	if s.Status == "" {
		s.Status = StatusActive
	}
	if s.LowStockThreshold == 0 {
		s.LowStockThreshold = DefaultLowStockThreshold
	}
}

// Create inserts a stock row and its "created" audit entry in one transaction.
func (r *Repo) Create(ctx context.Context, s *Stock) error {
	s.applyDefaults()
	s.Recompute()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var campusName string
	if err := tx.QueryRow(ctx, `SELECT name FROM campuses WHERE id = $1`, s.CampusID).Scan(&campusName); err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO stocks (item_name, category, quantity, unit, unit_price, total_value,
			condition, status, low_stock_threshold, asset_tag, serial_number, manufacturer,
			model, department, purchase_date, warranty_expiry, assigned_to, remarks, added_by, campus_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		RETURNING id, created_at, updated_at
	`, s.ItemName, s.Category, s.Quantity, s.Unit, s.UnitPrice, s.TotalValue,
		string(s.Condition), string(s.Status), s.LowStockThreshold, s.AssetTag, s.SerialNumber,
		s.Manufacturer, s.Model, s.Department, s.PurchaseDate, s.WarrantyExpiry, s.AssignedTo,
		s.Remarks, s.AddedBy, s.CampusID)
	if err := row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return mapUniqueErr(err)
	}
	s.CampusName = campusName

	if err := history.Insert(ctx, tx, history.Entry{
		StockID:    &s.ID,
		ItemName:   s.ItemName,
		CampusName: campusName,
		Action:     history.ActionCreated,
		ChangedBy:  s.AddedBy,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update applies changes to a stock row, writing one audit entry per changed
// tracked field. An update that changes no tracked field still writes a single
// generic "updated" entry.
func (r *Repo) Update(ctx context.Context, s *Stock, actor string) error {
	s.applyDefaults()
	s.Recompute()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	prev, err := getForUpdate(ctx, tx, s.ID)
	if err != nil {
		return err
	}

	var campusName string
	if err := tx.QueryRow(ctx, `SELECT name FROM campuses WHERE id = $1`, s.CampusID).Scan(&campusName); err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	row := tx.QueryRow(ctx, `
		UPDATE stocks SET
			item_name=$2, category=$3, quantity=$4, unit=$5, unit_price=$6, total_value=$7,
			condition=$8, status=$9, low_stock_threshold=$10, asset_tag=$11, serial_number=$12,
			manufacturer=$13, model=$14, department=$15, purchase_date=$16, warranty_expiry=$17,
			remarks=$18, campus_id=$19, updated_at=now()
		WHERE id=$1
		RETURNING created_at, updated_at, assigned_to, added_by
	`, s.ID, s.ItemName, s.Category, s.Quantity, s.Unit, s.UnitPrice, s.TotalValue,
		string(s.Condition), string(s.Status), s.LowStockThreshold, s.AssetTag, s.SerialNumber,
		s.Manufacturer, s.Model, s.Department, s.PurchaseDate, s.WarrantyExpiry,
		s.Remarks, s.CampusID)
	if err := row.Scan(&s.CreatedAt, &s.UpdatedAt, &s.AssignedTo, &s.AddedBy); err != nil {
		return mapUniqueErr(err)
	}
	s.CampusName = campusName

	changes := s.Changes(prev)
	if len(changes) == 0 {
		if err := history.Insert(ctx, tx, history.Entry{
			StockID:    &s.ID,
			ItemName:   s.ItemName,
			CampusName: campusName,
			Action:     history.ActionUpdated,
			ChangedBy:  actor,
		}); err != nil {
			return err
		}
	}
	for _, ch := range changes {
		if err := history.Insert(ctx, tx, history.Entry{
			StockID:      &s.ID,
			ItemName:     s.ItemName,
			CampusName:   campusName,
			Action:       history.ActionUpdated,
			FieldChanged: ch.Field,
			OldValue:     ch.Old,
			NewValue:     ch.New,
			ChangedBy:    actor,
		}); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Delete records the "deleted" audit entry first, while the row and its campus
// relationship are still live for the snapshot, then removes the row.
func (r *Repo) Delete(ctx context.Context, id int64, actor string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var itemName, campusName string
	err = tx.QueryRow(ctx, `
		SELECT s.item_name, c.name
		FROM stocks s
		JOIN campuses c ON c.id = s.campus_id
		WHERE s.id = $1
		FOR UPDATE OF s
	`, id).Scan(&itemName, &campusName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	if err := history.Insert(ctx, tx, history.Entry{
		ItemName:   itemName,
		CampusName: campusName,
		Action:     history.ActionDeleted,
		ChangedBy:  actor,
	}); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM stocks WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Assign sets the assignee and logs an "assigned" audit entry carrying the
// username. A nil userID clears the assignment and logs "unassigned" with the
// previous holder as the old value.
func (r *Repo) Assign(ctx context.Context, stockID int64, userID *int64, actor string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var itemName, campusName string
	var prevUser *string
	err = tx.QueryRow(ctx, `
		SELECT s.item_name, c.name, u.username
		FROM stocks s
		JOIN campuses c ON c.id = s.campus_id
		LEFT JOIN users u ON u.id = s.assigned_to
		WHERE s.id = $1
		FOR UPDATE OF s
	`, stockID).Scan(&itemName, &campusName, &prevUser)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	entry := history.Entry{
		StockID:      &stockID,
		ItemName:     itemName,
		CampusName:   campusName,
		FieldChanged: "assigned_to",
		ChangedBy:    actor,
	}
	if prevUser != nil {
		entry.OldValue = *prevUser
	}

	if userID == nil {
		entry.Action = history.ActionUnassigned
	} else {
		entry.Action = history.ActionAssigned
		var username string
		if err := tx.QueryRow(ctx, `SELECT username FROM users WHERE id = $1`, *userID).Scan(&username); err != nil {
			if err == pgx.ErrNoRows {
				return ErrNotFound
			}
			return err
		}
		entry.NewValue = username
	}

	if _, err := tx.Exec(ctx, `UPDATE stocks SET assigned_to=$2, updated_at=now() WHERE id=$1`, stockID, userID); err != nil {
		return err
	}

	if err := history.Insert(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Stock, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+columns+`, c.name
		FROM stocks s
		JOIN campuses c ON c.id = s.campus_id
		WHERE s.id = $1
	`, id)
	var s Stock
	if err := scanStock(row, &s, true); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// ListByCampus returns a campus's stock ordered by (category, item_name),
// optionally narrowed by a case-insensitive name search and a category filter.
func (r *Repo) ListByCampus(ctx context.Context, campusID int64, search, category string) ([]Stock, error) {
	q := `
		SELECT ` + columns + `
		FROM stocks s
		WHERE s.campus_id = $1
	`
	args := []any{campusID}

	if search = strings.TrimSpace(search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		q += ` AND LOWER(s.item_name) LIKE $2`
	}
	if category != "" {
		args = append(args, category)
		q += ` AND s.category = $` + strconv.Itoa(len(args))
	}
	q += ` ORDER BY s.category, s.item_name`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Stock
	for rows.Next() {
		var s Stock
		if err := scanStock(rows, &s, false); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Categories returns the distinct non-empty categories present at a campus.
func (r *Repo) Categories(ctx context.Context, campusID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT category
		FROM stocks
		WHERE campus_id = $1 AND category <> ''
		ORDER BY category
	`, campusID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) AssetTagExists(ctx context.Context, tag string) (bool, error) {
	if tag == "" {
		return false, nil
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stocks WHERE asset_tag = $1)`, tag).Scan(&exists)
	return exists, err
}

func (r *Repo) ListAssignedTo(ctx context.Context, userID int64) ([]Stock, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+columns+`
		FROM stocks s
		WHERE s.assigned_to = $1
		ORDER BY s.item_name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Stock
	for rows.Next() {
		var s Stock
		if err := scanStock(rows, &s, false); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func getForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*Stock, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+columns+`
		FROM stocks s
		WHERE s.id = $1
		FOR UPDATE
	`, id)
	var s Stock
	if err := scanStock(row, &s, false); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func scanStock(row pgx.Row, s *Stock, withCampusName bool) error {
	dest := []any{
		&s.ID, &s.ItemName, &s.Category, &s.Quantity, &s.Unit, &s.UnitPrice, &s.TotalValue,
		&s.Condition, &s.Status, &s.LowStockThreshold, &s.AssetTag, &s.SerialNumber, &s.Manufacturer,
		&s.Model, &s.Department, &s.PurchaseDate, &s.WarrantyExpiry, &s.AssignedTo, &s.Remarks,
		&s.AddedBy, &s.CampusID, &s.CreatedAt, &s.UpdatedAt,
	}
	if withCampusName {
		dest = append(dest, &s.CampusName)
	}
	return row.Scan(dest...)
}

func mapUniqueErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateAssetTag
	}
	return err
}
