package fund

import (
	"context"

	"github.com/google/uuid"
)

// FundRepository defines the persistence interface for national health funds.
type FundRepository interface {
	Create(ctx context.Context, f *NationalHealthFund) error
	GetByID(ctx context.Context, id uuid.UUID) (*NationalHealthFund, error)
	Update(ctx context.Context, f *NationalHealthFund) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*NationalHealthFund, int, error)
}

// HospitalRepository defines the persistence interface for hospitals.
type HospitalRepository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	Update(ctx context.Context, h *Hospital) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Hospital, int, error)
	// ListByHealthFund returns every hospital of a fund in creation order.
	// Callers traverse this list repeatedly; it is fetched once, not per cell.
	ListByHealthFund(ctx context.Context, fundID uuid.UUID) ([]*Hospital, error)
	CountByHealthFund(ctx context.Context, fundID uuid.UUID) (int, error)
	// AnswerStatus returns the fund's hospitals flagged with whether the
	// given participant has answered anything for them.
	AnswerStatus(ctx context.Context, fundID, participantID uuid.UUID) ([]*HospitalStatus, error)
}
