package participant

import (
	"context"
	"errors"

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

const columns = `id, health_fund_id, survey_id, password, answer_count, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Participant) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO participant (id, health_fund_id, survey_id, password)
		VALUES ($1, $2, $3, $4)`,
		p.ID, p.HealthFundID, p.SurveyID, p.Password,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Participant, error) {
	return scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+columns+` FROM participant WHERE id = $1`, id))
}

func (r *repoPG) GetByCredentials(ctx context.Context, id uuid.UUID, password string) (*Participant, error) {
	p, err := scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+columns+` FROM participant WHERE id = $1 AND password = $2`,
		id, password))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *repoPG) Update(ctx context.Context, p *Participant) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE participant SET
			health_fund_id = $2, survey_id = $3, password = $4, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.HealthFundID, p.SurveyID, p.Password,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM participant WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Participant, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM participant`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+columns+` FROM participant ORDER BY created_at LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	participants, err := collect(rows)
	return participants, total, err
}

func (r *repoPG) ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]*Participant, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+columns+` FROM participant WHERE survey_id = $1 ORDER BY created_at`,
		surveyID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *repoPG) CountBySurvey(ctx context.Context, surveyID uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM participant WHERE survey_id = $1`, surveyID).Scan(&count)
	return count, err
}

func (r *repoPG) IncrementAnswerCount(ctx context.Context, id uuid.UUID, delta int) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE participant SET answer_count = answer_count + $2, updated_at = NOW()
		WHERE id = $1`, id, delta)
	return err
}

func collect(rows pgx.Rows) ([]*Participant, error) {
	defer rows.Close()
	var participants []*Participant
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func scan(row pgx.Row) (*Participant, error) {
	var p Participant
	err := row.Scan(
		&p.ID, &p.HealthFundID, &p.SurveyID, &p.Password,
		&p.AnswerCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
