package fund

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	funds     FundRepository
	hospitals HospitalRepository
}

func NewService(funds FundRepository, hospitals HospitalRepository) *Service {
	return &Service{funds: funds, hospitals: hospitals}
}

// -- NationalHealthFund --

func (s *Service) CreateFund(ctx context.Context, f *NationalHealthFund) error {
	if f.Name == "" {
		return fmt.Errorf("fund name is required")
	}
	if f.Identifier == "" {
		return fmt.Errorf("fund identifier is required")
	}
	return s.funds.Create(ctx, f)
}

func (s *Service) GetFund(ctx context.Context, id uuid.UUID) (*NationalHealthFund, error) {
	return s.funds.GetByID(ctx, id)
}

func (s *Service) UpdateFund(ctx context.Context, f *NationalHealthFund) error {
	if f.Name == "" {
		return fmt.Errorf("fund name is required")
	}
	return s.funds.Update(ctx, f)
}

func (s *Service) DeleteFund(ctx context.Context, id uuid.UUID) error {
	return s.funds.Delete(ctx, id)
}

func (s *Service) ListFunds(ctx context.Context, limit, offset int) ([]*NationalHealthFund, int, error) {
	return s.funds.List(ctx, limit, offset)
}

// -- Hospital --

func (s *Service) CreateHospital(ctx context.Context, h *Hospital) error {
	if h.Name == "" {
		return fmt.Errorf("hospital name is required")
	}
	if h.HealthFundID == uuid.Nil {
		return fmt.Errorf("health_fund_id is required")
	}
	if _, err := s.funds.GetByID(ctx, h.HealthFundID); err != nil {
		return fmt.Errorf("health fund %s: %w", h.HealthFundID, err)
	}
	return s.hospitals.Create(ctx, h)
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.hospitals.GetByID(ctx, id)
}

func (s *Service) UpdateHospital(ctx context.Context, h *Hospital) error {
	if h.Name == "" {
		return fmt.Errorf("hospital name is required")
	}
	return s.hospitals.Update(ctx, h)
}

func (s *Service) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	return s.hospitals.Delete(ctx, id)
}

func (s *Service) ListHospitals(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	return s.hospitals.List(ctx, limit, offset)
}

func (s *Service) ListFundHospitals(ctx context.Context, fundID uuid.UUID) ([]*Hospital, error) {
	return s.hospitals.ListByHealthFund(ctx, fundID)
}
