package participant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// HospitalCounter reports how many hospitals a health fund has.
// Implemented by the fund hospital repository, wired in main.
type HospitalCounter interface {
	CountByHealthFund(ctx context.Context, fundID uuid.UUID) (int, error)
}

// SubquestionCounter reports a survey's cached subquestion count.
// Satisfied by an adapter over the survey repository, wired in main.
type SubquestionCounter interface {
	SubquestionCount(ctx context.Context, surveyID uuid.UUID) (int, error)
}

// Progress is the completion report for one participant.
type Progress struct {
	Defined  bool    `json:"defined"`
	Percent  float64 `json:"percent"`
	Answered int     `json:"answered"`
	Required int     `json:"required"`
}

type Service struct {
	participants Repository
	hospitals    HospitalCounter
	surveys      SubquestionCounter
}

func NewService(participants Repository, hospitals HospitalCounter, surveys SubquestionCounter) *Service {
	return &Service{participants: participants, hospitals: hospitals, surveys: surveys}
}

func (s *Service) Create(ctx context.Context, p *Participant) error {
	if p.HealthFundID == uuid.Nil {
		return fmt.Errorf("health_fund_id is required")
	}
	if p.SurveyID == uuid.Nil {
		return fmt.Errorf("survey_id is required")
	}
	if p.Password == "" {
		p.Password = NewPassword()
	}
	return s.participants.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Participant, error) {
	return s.participants.GetByID(ctx, id)
}

// Resolve checks the capability pair and returns the participant, or
// ErrNotFound on any mismatch.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID, password string) (*Participant, error) {
	return s.participants.GetByCredentials(ctx, id, password)
}

func (s *Service) Update(ctx context.Context, p *Participant) error {
	if p.Password == "" {
		return fmt.Errorf("password is required")
	}
	return s.participants.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.participants.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Participant, int, error) {
	return s.participants.List(ctx, limit, offset)
}

func (s *Service) ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]*Participant, error) {
	return s.participants.ListBySurvey(ctx, surveyID)
}

// Progress computes answer_count / (hospitals x subquestion_count) x 100.
// A zero denominator returns ErrProgressUndefined rather than a bogus
// percentage.
func (s *Service) Progress(ctx context.Context, id uuid.UUID) (*Progress, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	hospitals, err := s.hospitals.CountByHealthFund(ctx, p.HealthFundID)
	if err != nil {
		return nil, err
	}
	subquestions, err := s.surveys.SubquestionCount(ctx, p.SurveyID)
	if err != nil {
		return nil, err
	}
	required := hospitals * subquestions
	if required == 0 {
		return nil, ErrProgressUndefined
	}
	return &Progress{
		Defined:  true,
		Percent:  float64(p.AnswerCount) / float64(required) * 100,
		Answered: p.AnswerCount,
		Required: required,
	}, nil
}
