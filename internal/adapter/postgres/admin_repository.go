package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"crowdfund/internal/core/domain"
)

// AdminRepository implements port.AdminRepository using pgxpool for
// PostgreSQL. The registry row doubles as the lock serializing registry
// mutations.
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a new repository instance.
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) Lock(ctx context.Context) error {
	var id int
	return conn(ctx, r.pool).QueryRow(ctx, `SELECT id FROM registry WHERE id = 1 FOR UPDATE`).Scan(&id)
}

func (r *AdminRepository) IsAdmin(ctx context.Context, addr domain.Address) (bool, error) {
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM admins WHERE address = $1)`, addr.Hex()).Scan(&ok)
	return ok, err
}

func (r *AdminRepository) List(ctx context.Context) ([]domain.Admin, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT address, added_by, added_at FROM admins ORDER BY added_at, address`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Admin, error) {
		var (
			a             domain.Admin
			addr, addedBy string
		)
		if err := row.Scan(&addr, &addedBy, &a.AddedAt); err != nil {
			return a, err
		}
		var err error
		if a.Address, err = parseAddress(addr); err != nil {
			return a, err
		}
		a.AddedBy, err = parseAddress(addedBy)
		return a, err
	})
}

func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT count(*) FROM admins`).Scan(&n)
	return n, err
}

func (r *AdminRepository) Add(ctx context.Context, admin domain.Admin) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO admins (address, added_by, added_at) VALUES ($1, $2, $3)`,
		admin.Address.Hex(), admin.AddedBy.Hex(), admin.AddedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrAlreadyAdmin
	}
	return err
}

func (r *AdminRepository) Remove(ctx context.Context, addr domain.Address) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM admins WHERE address = $1`, addr.Hex())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotAdmin
	}
	return nil
}

func (r *AdminRepository) Paused(ctx context.Context) (bool, error) {
	var paused bool
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT paused FROM registry WHERE id = 1`).Scan(&paused)
	return paused, err
}

func (r *AdminRepository) SetPaused(ctx context.Context, paused bool) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `UPDATE registry SET paused = $1, updated_at = now() WHERE id = 1`, paused)
	return err
}
