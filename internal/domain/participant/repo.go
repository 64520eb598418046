package participant

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence interface for participants.
type Repository interface {
	Create(ctx context.Context, p *Participant) error
	GetByID(ctx context.Context, id uuid.UUID) (*Participant, error)
	// GetByCredentials resolves the capability pair; a miss returns
	// ErrNotFound, never a partial match.
	GetByCredentials(ctx context.Context, id uuid.UUID, password string) (*Participant, error)
	Update(ctx context.Context, p *Participant) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Participant, int, error)
	ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]*Participant, error)
	CountBySurvey(ctx context.Context, surveyID uuid.UUID) (int, error)
	// IncrementAnswerCount applies a relative update so concurrent
	// submissions never lose increments.
	IncrementAnswerCount(ctx context.Context, id uuid.UUID, delta int) error
}
