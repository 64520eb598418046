package fund

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ankieta/ankieta/internal/platform/db"
)

// queryable abstracts pgxpool.Pool and pgx.Tx so repositories join an
// enclosing transaction transparently.
type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// -- Fund Repository --

type fundRepoPG struct {
	pool *pgxpool.Pool
}

func NewFundRepo(pool *pgxpool.Pool) FundRepository {
	return &fundRepoPG{pool: pool}
}

func (r *fundRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const fundColumns = `id, name, email, identifier, created_at, updated_at`

func (r *fundRepoPG) Create(ctx context.Context, f *NationalHealthFund) error {
	f.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO national_health_fund (id, name, email, identifier)
		VALUES ($1, $2, $3, $4)`,
		f.ID, f.Name, f.Email, f.Identifier,
	)
	return err
}

func (r *fundRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*NationalHealthFund, error) {
	return scanFund(r.conn(ctx).QueryRow(ctx,
		`SELECT `+fundColumns+` FROM national_health_fund WHERE id = $1`, id))
}

func (r *fundRepoPG) Update(ctx context.Context, f *NationalHealthFund) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE national_health_fund SET
			name = $2, email = $3, identifier = $4, updated_at = NOW()
		WHERE id = $1`,
		f.ID, f.Name, f.Email, f.Identifier,
	)
	return err
}

func (r *fundRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM national_health_fund WHERE id = $1`, id)
	return err
}

func (r *fundRepoPG) List(ctx context.Context, limit, offset int) ([]*NationalHealthFund, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM national_health_fund`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+fundColumns+` FROM national_health_fund ORDER BY created_at LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var funds []*NationalHealthFund
	for rows.Next() {
		f, err := scanFund(rows)
		if err != nil {
			return nil, 0, err
		}
		funds = append(funds, f)
	}
	return funds, total, rows.Err()
}

func scanFund(row pgx.Row) (*NationalHealthFund, error) {
	var f NationalHealthFund
	err := row.Scan(&f.ID, &f.Name, &f.Email, &f.Identifier, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// -- Hospital Repository --

type hospitalRepoPG struct {
	pool *pgxpool.Pool
}

func NewHospitalRepo(pool *pgxpool.Pool) HospitalRepository {
	return &hospitalRepoPG{pool: pool}
}

func (r *hospitalRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const hospitalColumns = `id, health_fund_id, name, email, identifier, city, region, created_at, updated_at`

func (r *hospitalRepoPG) Create(ctx context.Context, h *Hospital) error {
	h.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO hospital (id, health_fund_id, name, email, identifier, city, region)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		h.ID, h.HealthFundID, h.Name, h.Email, h.Identifier, h.City, h.Region,
	)
	return err
}

func (r *hospitalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return scanHospital(r.conn(ctx).QueryRow(ctx,
		`SELECT `+hospitalColumns+` FROM hospital WHERE id = $1`, id))
}

func (r *hospitalRepoPG) Update(ctx context.Context, h *Hospital) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE hospital SET
			health_fund_id = $2, name = $3, email = $4, identifier = $5,
			city = $6, region = $7, updated_at = NOW()
		WHERE id = $1`,
		h.ID, h.HealthFundID, h.Name, h.Email, h.Identifier, h.City, h.Region,
	)
	return err
}

func (r *hospitalRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM hospital WHERE id = $1`, id)
	return err
}

func (r *hospitalRepoPG) List(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM hospital`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+hospitalColumns+` FROM hospital ORDER BY created_at LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectHospitals(rows, total)
}

func (r *hospitalRepoPG) ListByHealthFund(ctx context.Context, fundID uuid.UUID) ([]*Hospital, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+hospitalColumns+` FROM hospital WHERE health_fund_id = $1 ORDER BY created_at`,
		fundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hospitals, _, err := collectHospitals(rows, 0)
	return hospitals, err
}

func (r *hospitalRepoPG) CountByHealthFund(ctx context.Context, fundID uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM hospital WHERE health_fund_id = $1`, fundID).Scan(&count)
	return count, err
}

func (r *hospitalRepoPG) AnswerStatus(ctx context.Context, fundID, participantID uuid.UUID) ([]*HospitalStatus, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+prefixedHospitalColumns("h")+`,
			EXISTS (
				SELECT 1 FROM answer a
				WHERE a.hospital_id = h.id AND a.participant_id = $2
			) AS has_answers
		FROM hospital h
		WHERE h.health_fund_id = $1
		ORDER BY h.created_at`,
		fundID, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []*HospitalStatus
	for rows.Next() {
		var s HospitalStatus
		err := rows.Scan(
			&s.ID, &s.HealthFundID, &s.Name, &s.Email, &s.Identifier,
			&s.City, &s.Region, &s.CreatedAt, &s.UpdatedAt, &s.HasAnswers,
		)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, &s)
	}
	return statuses, rows.Err()
}

func prefixedHospitalColumns(alias string) string {
	return alias + ".id, " + alias + ".health_fund_id, " + alias + ".name, " +
		alias + ".email, " + alias + ".identifier, " + alias + ".city, " +
		alias + ".region, " + alias + ".created_at, " + alias + ".updated_at"
}

func collectHospitals(rows pgx.Rows, total int) ([]*Hospital, int, error) {
	var hospitals []*Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, 0, err
		}
		hospitals = append(hospitals, h)
	}
	return hospitals, total, rows.Err()
}

func scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(
		&h.ID, &h.HealthFundID, &h.Name, &h.Email, &h.Identifier,
		&h.City, &h.Region, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
