package survey

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ParticipantCounter reports how many participants are linked to a survey.
// Implemented by the participant repository and wired in main.
type ParticipantCounter interface {
	CountBySurvey(ctx context.Context, surveyID uuid.UUID) (int, error)
}

// TxRunner runs fn atomically. Wired to db.WithTx in production; tests use
// a pass-through.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// SurveyListItem pairs a survey with its audit validity for list views.
type SurveyListItem struct {
	*Survey
	IsValid bool `json:"is_valid"`
}

type Service struct {
	surveys      SurveyRepository
	categories   CategoryRepository
	questions    QuestionRepository
	subquestions SubquestionRepository
	participants ParticipantCounter
	tx           TxRunner
}

func NewService(
	surveys SurveyRepository,
	categories CategoryRepository,
	questions QuestionRepository,
	subquestions SubquestionRepository,
	participants ParticipantCounter,
	tx TxRunner,
) *Service {
	if tx == nil {
		tx = func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}
	}
	return &Service{
		surveys:      surveys,
		categories:   categories,
		questions:    questions,
		subquestions: subquestions,
		participants: participants,
		tx:           tx,
	}
}

// -- Survey --

func (s *Service) CreateSurvey(ctx context.Context, sv *Survey) error {
	if sv.Title == "" {
		return fmt.Errorf("survey title is required")
	}
	if sv.Style == "" {
		sv.Style = StyleTotal
	}
	if !sv.Style.Valid() {
		return fmt.Errorf("unknown survey style %q", sv.Style)
	}
	slug, err := s.uniqueSlug(ctx, Slugify(sv.Title))
	if err != nil {
		return err
	}
	sv.Slug = slug
	return s.surveys.Create(ctx, sv)
}

// uniqueSlug appends -2, -3 and so on until the slug is unused.
func (s *Service) uniqueSlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "survey"
	}
	slug := base
	for i := 2; ; i++ {
		exists, err := s.surveys.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *Service) GetSurvey(ctx context.Context, id uuid.UUID) (*Survey, error) {
	return s.surveys.GetByID(ctx, id)
}

func (s *Service) GetSurveyBySlug(ctx context.Context, slug string) (*Survey, error) {
	return s.surveys.GetBySlug(ctx, slug)
}

func (s *Service) UpdateSurvey(ctx context.Context, sv *Survey) error {
	if sv.Title == "" {
		return fmt.Errorf("survey title is required")
	}
	if !sv.Style.Valid() {
		return fmt.Errorf("unknown survey style %q", sv.Style)
	}
	return s.surveys.Update(ctx, sv)
}

func (s *Service) DeleteSurvey(ctx context.Context, id uuid.UUID) error {
	return s.surveys.Delete(ctx, id)
}

func (s *Service) ListSurveys(ctx context.Context, limit, offset int) ([]*Survey, int, error) {
	return s.surveys.List(ctx, limit, offset)
}

// ListSurveysWithValidity decorates each listed survey with its audit
// outcome, mirroring the validity column of the admin changelist.
func (s *Service) ListSurveysWithValidity(ctx context.Context, limit, offset int) ([]*SurveyListItem, int, error) {
	surveys, total, err := s.surveys.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items := make([]*SurveyListItem, 0, len(surveys))
	for _, sv := range surveys {
		entries, err := s.Audit(ctx, sv.ID)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, &SurveyListItem{Survey: sv, IsValid: Valid(entries)})
	}
	return items, total, nil
}

func (s *Service) FullTree(ctx context.Context, id uuid.UUID) (*Tree, error) {
	return s.surveys.FullTree(ctx, id)
}

// Audit produces the structural completeness report for a survey.
func (s *Service) Audit(ctx context.Context, id uuid.UUID) ([]LogEntry, error) {
	tree, err := s.surveys.FullTree(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.participants.CountBySurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	return Audit(tree, count), nil
}

// -- Category --

func (s *Service) CreateCategory(ctx context.Context, c *Category) error {
	if c.Name == "" {
		return fmt.Errorf("category name is required")
	}
	if c.SurveyID == uuid.Nil {
		return fmt.Errorf("survey_id is required")
	}
	if _, err := s.surveys.GetByID(ctx, c.SurveyID); err != nil {
		return fmt.Errorf("survey %s: %w", c.SurveyID, err)
	}
	if c.Ordering == 0 {
		c.Ordering = 1
	}
	return s.categories.Create(ctx, c)
}

func (s *Service) GetCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *Service) UpdateCategory(ctx context.Context, c *Category) error {
	if c.Name == "" {
		return fmt.Errorf("category name is required")
	}
	return s.categories.Update(ctx, c)
}

func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categories.Delete(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context, surveyID uuid.UUID) ([]*Category, error) {
	return s.categories.ListBySurvey(ctx, surveyID)
}

// -- Question --

func (s *Service) CreateQuestion(ctx context.Context, q *Question) error {
	if q.Name == "" {
		return fmt.Errorf("question name is required")
	}
	if q.CategoryID == uuid.Nil {
		return fmt.Errorf("category_id is required")
	}
	if _, err := s.categories.GetByID(ctx, q.CategoryID); err != nil {
		return fmt.Errorf("category %s: %w", q.CategoryID, err)
	}
	if q.Ordering == 0 {
		q.Ordering = 1
	}
	return s.questions.Create(ctx, q)
}

func (s *Service) GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error) {
	return s.questions.GetByID(ctx, id)
}

func (s *Service) UpdateQuestion(ctx context.Context, q *Question) error {
	if q.Name == "" {
		return fmt.Errorf("question name is required")
	}
	return s.questions.Update(ctx, q)
}

func (s *Service) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	return s.questions.Delete(ctx, id)
}

func (s *Service) ListQuestions(ctx context.Context, categoryID uuid.UUID) ([]*Question, error) {
	return s.questions.ListByCategory(ctx, categoryID)
}

// -- Subquestion --

// CreateSubquestion inserts the subquestion and recomputes the owning
// survey's cached counter in the same transaction.
func (s *Service) CreateSubquestion(ctx context.Context, sq *Subquestion) error {
	if sq.Name == "" {
		return fmt.Errorf("subquestion name is required")
	}
	if sq.QuestionID == uuid.Nil {
		return fmt.Errorf("question_id is required")
	}
	if sq.Kind == "" {
		sq.Kind = KindText
	}
	if !sq.Kind.Valid() {
		return fmt.Errorf("unknown subquestion kind %q", sq.Kind)
	}
	if _, err := s.questions.GetByID(ctx, sq.QuestionID); err != nil {
		return fmt.Errorf("question %s: %w", sq.QuestionID, err)
	}
	if sq.Ordering == 0 {
		sq.Ordering = 1
	}
	return s.tx(ctx, func(ctx context.Context) error {
		if err := s.subquestions.Create(ctx, sq); err != nil {
			return err
		}
		surveyID, err := s.subquestions.SurveyIDOf(ctx, sq.ID)
		if err != nil {
			return err
		}
		return s.surveys.RecomputeSubquestionCount(ctx, surveyID)
	})
}

func (s *Service) GetSubquestion(ctx context.Context, id uuid.UUID) (*Subquestion, error) {
	return s.subquestions.GetByID(ctx, id)
}

func (s *Service) UpdateSubquestion(ctx context.Context, sq *Subquestion) error {
	if sq.Name == "" {
		return fmt.Errorf("subquestion name is required")
	}
	if !sq.Kind.Valid() {
		return fmt.Errorf("unknown subquestion kind %q", sq.Kind)
	}
	return s.subquestions.Update(ctx, sq)
}

// DeleteSubquestion removes the subquestion and recomputes the owning
// survey's cached counter in the same transaction.
func (s *Service) DeleteSubquestion(ctx context.Context, id uuid.UUID) error {
	return s.tx(ctx, func(ctx context.Context) error {
		surveyID, err := s.subquestions.SurveyIDOf(ctx, id)
		if err != nil {
			return err
		}
		if err := s.subquestions.Delete(ctx, id); err != nil {
			return err
		}
		return s.surveys.RecomputeSubquestionCount(ctx, surveyID)
	})
}

func (s *Service) ListSubquestions(ctx context.Context, questionID uuid.UUID) ([]*Subquestion, error) {
	return s.subquestions.ListByQuestion(ctx, questionID)
}
