package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ankieta/ankieta/internal/platform/db"
)

type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const columns = `id, email, name, is_staff, notification, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, u *StaffUser) error {
	u.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO staff_user (id, email, name, is_staff, notification)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.Name, u.IsStaff, u.Notification,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*StaffUser, error) {
	return scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+columns+` FROM staff_user WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*StaffUser, error) {
	return scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+columns+` FROM staff_user WHERE email = $1`, email))
}

func (r *repoPG) Update(ctx context.Context, u *StaffUser) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE staff_user SET
			email = $2, name = $3, is_staff = $4, notification = $5, updated_at = NOW()
		WHERE id = $1`,
		u.ID, u.Email, u.Name, u.IsStaff, u.Notification,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM staff_user WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*StaffUser, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM staff_user`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+columns+` FROM staff_user ORDER BY created_at LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*StaffUser
	for rows.Next() {
		u, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *repoPG) ListNotified(ctx context.Context) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT email FROM staff_user WHERE is_staff AND notification ORDER BY email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func scan(row pgx.Row) (*StaffUser, error) {
	var u StaffUser
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.IsStaff, &u.Notification, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
