package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	users Repository
}

func NewService(users Repository) *Service {
	return &Service{users: users}
}

func (s *Service) Create(ctx context.Context, u *StaffUser) error {
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("email %q is not valid", u.Email)
	}
	return s.users.Create(ctx, u)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*StaffUser, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*StaffUser, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s *Service) Update(ctx context.Context, u *StaffUser) error {
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	return s.users.Update(ctx, u)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*StaffUser, int, error) {
	return s.users.List(ctx, limit, offset)
}

// NotifiedEmails returns the addresses of staff opted into notification.
func (s *Service) NotifiedEmails(ctx context.Context) ([]string, error) {
	return s.users.ListNotified(ctx)
}
