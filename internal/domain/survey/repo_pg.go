package survey

import (
	"context"
	"strings"

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

// -- Survey Repository --

type surveyRepoPG struct {
	pool *pgxpool.Pool
}

func NewSurveyRepo(pool *pgxpool.Pool) SurveyRepository {
	return &surveyRepoPG{pool: pool}
}

func (r *surveyRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const surveyColumns = `id, title, slug, welcome_text, instruction_text, end_text,
	submit_text, style, subquestion_count, created_at, updated_at`

func (r *surveyRepoPG) Create(ctx context.Context, s *Survey) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO survey (id, title, slug, welcome_text, instruction_text,
			end_text, submit_text, style)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Title, s.Slug, s.WelcomeText, s.InstructionText,
		s.EndText, s.SubmitText, s.Style,
	)
	return err
}

func (r *surveyRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Survey, error) {
	return scanSurvey(r.conn(ctx).QueryRow(ctx,
		`SELECT `+surveyColumns+` FROM survey WHERE id = $1`, id))
}

func (r *surveyRepoPG) GetBySlug(ctx context.Context, slug string) (*Survey, error) {
	return scanSurvey(r.conn(ctx).QueryRow(ctx,
		`SELECT `+surveyColumns+` FROM survey WHERE slug = $1`, slug))
}

func (r *surveyRepoPG) Update(ctx context.Context, s *Survey) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE survey SET
			title = $2, welcome_text = $3, instruction_text = $4, end_text = $5,
			submit_text = $6, style = $7, updated_at = NOW()
		WHERE id = $1`,
		s.ID, s.Title, s.WelcomeText, s.InstructionText, s.EndText,
		s.SubmitText, s.Style,
	)
	return err
}

func (r *surveyRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM survey WHERE id = $1`, id)
	return err
}

func (r *surveyRepoPG) List(ctx context.Context, limit, offset int) ([]*Survey, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM survey`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+surveyColumns+` FROM survey ORDER BY created_at LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var surveys []*Survey
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, 0, err
		}
		surveys = append(surveys, s)
	}
	return surveys, total, rows.Err()
}

func (r *surveyRepoPG) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM survey WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

// FullTree loads the whole structure in four queries: the survey row, its
// categories, all questions through the category join and all subquestions
// through the question join. Assembly happens in memory.
func (r *surveyRepoPG) FullTree(ctx context.Context, id uuid.UUID) (*Tree, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	conn := r.conn(ctx)

	catRows, err := conn.Query(ctx, `
		SELECT `+categoryColumns+` FROM category
		WHERE survey_id = $1
		ORDER BY ordering, created_at`, id)
	if err != nil {
		return nil, err
	}
	categories, err := collectCategories(catRows)
	if err != nil {
		return nil, err
	}

	qRows, err := conn.Query(ctx, `
		SELECT `+prefixed("q", "id, category_id, name, ordering, created_at, updated_at")+`
		FROM question q
		JOIN category c ON q.category_id = c.id
		WHERE c.survey_id = $1
		ORDER BY c.ordering, c.created_at, q.ordering, q.created_at`, id)
	if err != nil {
		return nil, err
	}
	questions, err := collectQuestions(qRows)
	if err != nil {
		return nil, err
	}

	sqRows, err := conn.Query(ctx, `
		SELECT `+prefixed("sq", "id, question_id, name, ordering, kind, created_at, updated_at")+`
		FROM subquestion sq
		JOIN question q ON sq.question_id = q.id
		JOIN category c ON q.category_id = c.id
		WHERE c.survey_id = $1
		ORDER BY c.ordering, c.created_at, q.ordering, q.created_at, sq.ordering, sq.created_at`, id)
	if err != nil {
		return nil, err
	}
	subquestions, err := collectSubquestions(sqRows)
	if err != nil {
		return nil, err
	}

	questionNodes := make(map[uuid.UUID]*QuestionNode, len(questions))
	tree := &Tree{Survey: s}
	for _, c := range categories {
		tree.Categories = append(tree.Categories, &CategoryNode{Category: c})
	}
	catNodes := make(map[uuid.UUID]*CategoryNode, len(categories))
	for _, cn := range tree.Categories {
		catNodes[cn.ID] = cn
	}
	for _, q := range questions {
		qn := &QuestionNode{Question: q}
		questionNodes[q.ID] = qn
		if cn, ok := catNodes[q.CategoryID]; ok {
			cn.Questions = append(cn.Questions, qn)
		}
	}
	for _, sq := range subquestions {
		if qn, ok := questionNodes[sq.QuestionID]; ok {
			qn.Subquestions = append(qn.Subquestions, sq)
		}
	}
	return tree, nil
}

func (r *surveyRepoPG) RecomputeSubquestionCount(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE survey SET subquestion_count = (
			SELECT COUNT(*)
			FROM subquestion sq
			JOIN question q ON sq.question_id = q.id
			JOIN category c ON q.category_id = c.id
			WHERE c.survey_id = survey.id
		), updated_at = NOW()
		WHERE id = $1`, id)
	return err
}

func scanSurvey(row pgx.Row) (*Survey, error) {
	var s Survey
	err := row.Scan(
		&s.ID, &s.Title, &s.Slug, &s.WelcomeText, &s.InstructionText,
		&s.EndText, &s.SubmitText, &s.Style, &s.SubquestionCount,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// -- Category Repository --

type categoryRepoPG struct {
	pool *pgxpool.Pool
}

func NewCategoryRepo(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepoPG{pool: pool}
}

func (r *categoryRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const categoryColumns = `id, survey_id, name, description, ordering, created_at, updated_at`

func (r *categoryRepoPG) Create(ctx context.Context, c *Category) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO category (id, survey_id, name, description, ordering)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.SurveyID, c.Name, c.Description, c.Ordering,
	)
	return err
}

func (r *categoryRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	return scanCategory(r.conn(ctx).QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM category WHERE id = $1`, id))
}

func (r *categoryRepoPG) Update(ctx context.Context, c *Category) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE category SET
			name = $2, description = $3, ordering = $4, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.Description, c.Ordering,
	)
	return err
}

func (r *categoryRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM category WHERE id = $1`, id)
	return err
}

func (r *categoryRepoPG) ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]*Category, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+categoryColumns+` FROM category WHERE survey_id = $1 ORDER BY ordering, created_at`,
		surveyID)
	if err != nil {
		return nil, err
	}
	return collectCategories(rows)
}

func collectCategories(rows pgx.Rows) ([]*Category, error) {
	defer rows.Close()
	var categories []*Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func scanCategory(row pgx.Row) (*Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.SurveyID, &c.Name, &c.Description, &c.Ordering, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// -- Question Repository --

type questionRepoPG struct {
	pool *pgxpool.Pool
}

func NewQuestionRepo(pool *pgxpool.Pool) QuestionRepository {
	return &questionRepoPG{pool: pool}
}

func (r *questionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const questionColumns = `id, category_id, name, ordering, created_at, updated_at`

func (r *questionRepoPG) Create(ctx context.Context, q *Question) error {
	q.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO question (id, category_id, name, ordering)
		VALUES ($1, $2, $3, $4)`,
		q.ID, q.CategoryID, q.Name, q.Ordering,
	)
	return err
}

func (r *questionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Question, error) {
	return scanQuestion(r.conn(ctx).QueryRow(ctx,
		`SELECT `+questionColumns+` FROM question WHERE id = $1`, id))
}

func (r *questionRepoPG) Update(ctx context.Context, q *Question) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE question SET name = $2, ordering = $3, updated_at = NOW()
		WHERE id = $1`,
		q.ID, q.Name, q.Ordering,
	)
	return err
}

func (r *questionRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM question WHERE id = $1`, id)
	return err
}

func (r *questionRepoPG) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*Question, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+questionColumns+` FROM question WHERE category_id = $1 ORDER BY ordering, created_at`,
		categoryID)
	if err != nil {
		return nil, err
	}
	return collectQuestions(rows)
}

func (r *questionRepoPG) ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]*Question, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+prefixed("q", "id, category_id, name, ordering, created_at, updated_at")+`
		FROM question q
		JOIN category c ON q.category_id = c.id
		WHERE c.survey_id = $1
		ORDER BY c.ordering, c.created_at, q.ordering, q.created_at`, surveyID)
	if err != nil {
		return nil, err
	}
	return collectQuestions(rows)
}

func collectQuestions(rows pgx.Rows) ([]*Question, error) {
	defer rows.Close()
	var questions []*Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func scanQuestion(row pgx.Row) (*Question, error) {
	var q Question
	err := row.Scan(&q.ID, &q.CategoryID, &q.Name, &q.Ordering, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// -- Subquestion Repository --

type subquestionRepoPG struct {
	pool *pgxpool.Pool
}

func NewSubquestionRepo(pool *pgxpool.Pool) SubquestionRepository {
	return &subquestionRepoPG{pool: pool}
}

func (r *subquestionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const subquestionColumns = `id, question_id, name, ordering, kind, created_at, updated_at`

func (r *subquestionRepoPG) Create(ctx context.Context, sq *Subquestion) error {
	sq.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO subquestion (id, question_id, name, ordering, kind)
		VALUES ($1, $2, $3, $4, $5)`,
		sq.ID, sq.QuestionID, sq.Name, sq.Ordering, sq.Kind,
	)
	return err
}

func (r *subquestionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Subquestion, error) {
	return scanSubquestion(r.conn(ctx).QueryRow(ctx,
		`SELECT `+subquestionColumns+` FROM subquestion WHERE id = $1`, id))
}

func (r *subquestionRepoPG) Update(ctx context.Context, sq *Subquestion) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE subquestion SET name = $2, ordering = $3, kind = $4, updated_at = NOW()
		WHERE id = $1`,
		sq.ID, sq.Name, sq.Ordering, sq.Kind,
	)
	return err
}

func (r *subquestionRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM subquestion WHERE id = $1`, id)
	return err
}

func (r *subquestionRepoPG) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*Subquestion, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+subquestionColumns+` FROM subquestion WHERE question_id = $1 ORDER BY ordering, created_at`,
		questionID)
	if err != nil {
		return nil, err
	}
	return collectSubquestions(rows)
}

func (r *subquestionRepoPG) SurveyIDOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var surveyID uuid.UUID
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT c.survey_id
		FROM subquestion sq
		JOIN question q ON sq.question_id = q.id
		JOIN category c ON q.category_id = c.id
		WHERE sq.id = $1`, id).Scan(&surveyID)
	return surveyID, err
}

func collectSubquestions(rows pgx.Rows) ([]*Subquestion, error) {
	defer rows.Close()
	var subquestions []*Subquestion
	for rows.Next() {
		sq, err := scanSubquestion(rows)
		if err != nil {
			return nil, err
		}
		subquestions = append(subquestions, sq)
	}
	return subquestions, rows.Err()
}

func scanSubquestion(row pgx.Row) (*Subquestion, error) {
	var sq Subquestion
	err := row.Scan(&sq.ID, &sq.QuestionID, &sq.Name, &sq.Ordering, &sq.Kind, &sq.CreatedAt, &sq.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sq, nil
}

func prefixed(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}
