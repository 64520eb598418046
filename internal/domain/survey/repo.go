package survey

import (
	"context"

	"github.com/google/uuid"
)

// SurveyRepository defines the persistence interface for surveys.
type SurveyRepository interface {
	Create(ctx context.Context, s *Survey) error
	GetByID(ctx context.Context, id uuid.UUID) (*Survey, error)
	GetBySlug(ctx context.Context, slug string) (*Survey, error)
	Update(ctx context.Context, s *Survey) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Survey, int, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// FullTree loads the survey with categories, questions and
	// subquestions in a fixed number of queries. Each level is sorted
	// by (ordering, created_at).
	FullTree(ctx context.Context, id uuid.UUID) (*Tree, error)
	// RecomputeSubquestionCount resets the cached counter from the
	// actual subquestion rows reachable through the category chain.
	RecomputeSubquestionCount(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository defines the persistence interface for categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]*Category, error)
}

// QuestionRepository defines the persistence interface for questions.
type QuestionRepository interface {
	Create(ctx context.Context, q *Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*Question, error)
	Update(ctx context.Context, q *Question) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*Question, error)
	// ListBySurvey returns the survey's questions in traversal order,
	// joining through the category chain.
	ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]*Question, error)
}

// SubquestionRepository defines the persistence interface for subquestions.
type SubquestionRepository interface {
	Create(ctx context.Context, sq *Subquestion) error
	GetByID(ctx context.Context, id uuid.UUID) (*Subquestion, error)
	Update(ctx context.Context, sq *Subquestion) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*Subquestion, error)
	// SurveyIDOf resolves the survey a subquestion belongs to, for
	// counter recomputation after create and delete.
	SurveyIDOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}
