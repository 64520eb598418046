package answer

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

const columns = `id, participant_id, subquestion_id, hospital_id, value, created_at, updated_at`

func (r *repoPG) GetByCell(ctx context.Context, participantID, subquestionID, hospitalID uuid.UUID) (*Answer, error) {
	return scan(r.conn(ctx).QueryRow(ctx, `
		SELECT `+columns+` FROM answer
		WHERE participant_id = $1 AND subquestion_id = $2 AND hospital_id = $3`,
		participantID, subquestionID, hospitalID))
}

func (r *repoPG) Update(ctx context.Context, a *Answer) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE answer SET value = $2, updated_at = NOW() WHERE id = $1`,
		a.ID, a.Value)
	return err
}

// BulkCreate upserts all staged rows in one statement. ON CONFLICT handles
// the race where a concurrent submission inserted the same triple first:
// the losing row degrades to an update, per the uniqueness contract. The
// xmax = 0 check distinguishes fresh inserts from conflict-updates so the
// caller can increment the participant counter by the right amount.
func (r *repoPG) BulkCreate(ctx context.Context, answers []*Answer) (int, error) {
	if len(answers) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, len(answers))
	participantIDs := make([]uuid.UUID, len(answers))
	subquestionIDs := make([]uuid.UUID, len(answers))
	hospitalIDs := make([]uuid.UUID, len(answers))
	values := make([]string, len(answers))
	for i, a := range answers {
		a.ID = uuid.New()
		ids[i] = a.ID
		participantIDs[i] = a.ParticipantID
		subquestionIDs[i] = a.SubquestionID
		hospitalIDs[i] = a.HospitalID
		values[i] = a.Value
	}

	rows, err := r.conn(ctx).Query(ctx, `
		INSERT INTO answer (id, participant_id, subquestion_id, hospital_id, value)
		SELECT * FROM unnest($1::uuid[], $2::uuid[], $3::uuid[], $4::uuid[], $5::text[])
		ON CONFLICT ON CONSTRAINT answer_cell_unique
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING (xmax = 0) AS inserted`,
		ids, participantIDs, subquestionIDs, hospitalIDs, values)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	created := 0
	for rows.Next() {
		var inserted bool
		if err := rows.Scan(&inserted); err != nil {
			return 0, err
		}
		if inserted {
			created++
		}
	}
	return created, rows.Err()
}

func (r *repoPG) ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]*Answer, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+columns+` FROM answer WHERE participant_id = $1 ORDER BY created_at`,
		participantID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *repoPG) ListByParticipantHospital(ctx context.Context, participantID, hospitalID uuid.UUID) ([]*Answer, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+columns+` FROM answer
		WHERE participant_id = $1 AND hospital_id = $2
		ORDER BY created_at`,
		participantID, hospitalID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *repoPG) ListByParticipantQuestion(ctx context.Context, participantID, questionID uuid.UUID) ([]*Answer, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+prefixedColumns("a")+` FROM answer a
		JOIN subquestion sq ON a.subquestion_id = sq.id
		WHERE a.participant_id = $1 AND sq.question_id = $2
		ORDER BY a.created_at`,
		participantID, questionID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func prefixedColumns(alias string) string {
	return alias + ".id, " + alias + ".participant_id, " + alias + ".subquestion_id, " +
		alias + ".hospital_id, " + alias + ".value, " + alias + ".created_at, " + alias + ".updated_at"
}

func collect(rows pgx.Rows) ([]*Answer, error) {
	defer rows.Close()
	var answers []*Answer
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func scan(row pgx.Row) (*Answer, error) {
	var a Answer
	err := row.Scan(
		&a.ID, &a.ParticipantID, &a.SubquestionID, &a.HospitalID,
		&a.Value, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
