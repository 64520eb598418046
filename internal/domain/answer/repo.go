package answer

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence interface for answers.
type Repository interface {
	GetByCell(ctx context.Context, participantID, subquestionID, hospitalID uuid.UUID) (*Answer, error)
	Update(ctx context.Context, a *Answer) error
	// BulkCreate inserts the staged answers in one statement. A row whose
	// triple already exists (a concurrent writer won the insert) is
	// updated instead. Returns the number of rows actually inserted.
	BulkCreate(ctx context.Context, answers []*Answer) (int, error)
	ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]*Answer, error)
	ListByParticipantHospital(ctx context.Context, participantID, hospitalID uuid.UUID) ([]*Answer, error)
	ListByParticipantQuestion(ctx context.Context, participantID, questionID uuid.UUID) ([]*Answer, error)
}
