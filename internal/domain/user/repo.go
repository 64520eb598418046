package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence interface for staff users.
type Repository interface {
	Create(ctx context.Context, u *StaffUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*StaffUser, error)
	GetByEmail(ctx context.Context, email string) (*StaffUser, error)
	Update(ctx context.Context, u *StaffUser) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*StaffUser, int, error)
	// ListNotified returns emails of staff users opted into notification.
	ListNotified(ctx context.Context) ([]string, error)
}
