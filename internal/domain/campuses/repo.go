package campuses

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDuplicate = errors.New("campus name or code already exists")

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Create stores a new campus. Codes are kept upper-case.
func (r *Repo) Create(ctx context.Context, name, code, address string) (*Campus, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	existing, err := r.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicate
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO campuses (name, code, address)
		VALUES ($1,$2,$3)
		ON CONFLICT DO NOTHING
		RETURNING id, name, code, address, created_at
	`, name, code, address)

	var c Campus
	if err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Address, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			// Lost a race on the unique name/code.
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Campus, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, code, address, created_at
		FROM campuses WHERE id = $1
	`, id)
	var c Campus
	if err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Address, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) GetByCode(ctx context.Context, code string) (*Campus, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, code, address, created_at
		FROM campuses WHERE code = $1
	`, strings.ToUpper(strings.TrimSpace(code)))
	var c Campus
	if err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Address, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Update(ctx context.Context, id int64, name, code, address string) (*Campus, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	other, err := r.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != id {
		return nil, ErrDuplicate
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE campuses SET name=$2, code=$3, address=$4 WHERE id=$1
		RETURNING id, name, code, address, created_at
	`, id, name, code, address)
	var c Campus
	if err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Address, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Delete removes a campus; its stock rows go with it via the FK cascade.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM campuses WHERE id = $1`, id)
	return err
}

func (r *Repo) List(ctx context.Context) ([]Campus, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, code, address, created_at
		FROM campuses
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Campus
	for rows.Next() {
		var c Campus
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Address, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
