package answer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ankieta/ankieta/internal/domain/fund"
	"github.com/ankieta/ankieta/internal/domain/participant"
	"github.com/ankieta/ankieta/internal/domain/survey"
	"github.com/ankieta/ankieta/internal/platform/mail"
)

// ErrOutOfScope signals a hospital or question that does not belong to the
// resolved participant's survey or fund. Rendered as not-found.
var ErrOutOfScope = errors.New("resource outside participant scope")

// SurveyStore is the slice of the survey repository the answer flows need.
type SurveyStore interface {
	FullTree(ctx context.Context, id uuid.UUID) (*survey.Tree, error)
}

// HospitalStore is the slice of the hospital repository the answer flows need.
type HospitalStore interface {
	ListByHealthFund(ctx context.Context, fundID uuid.UUID) ([]*fund.Hospital, error)
	AnswerStatus(ctx context.Context, fundID, participantID uuid.UUID) ([]*fund.HospitalStatus, error)
}

// ParticipantStore is the slice of the participant repository the answer
// flows need.
type ParticipantStore interface {
	GetByCredentials(ctx context.Context, id uuid.UUID, password string) (*participant.Participant, error)
	ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]*participant.Participant, error)
	IncrementAnswerCount(ctx context.Context, id uuid.UUID, delta int) error
}

// FundStore resolves a participant's health fund for recipients and export.
type FundStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*fund.NationalHealthFund, error)
}

// StaffDirectory lists staff addresses opted into notification.
type StaffDirectory interface {
	ListNotified(ctx context.Context) ([]string, error)
}

// TxRunner runs fn atomically; wired to db.WithTx in production.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// Session is a resolved capability: the participant plus the prefetched
// survey tree and hospital list, loaded once per request.
type Session struct {
	Participant *participant.Participant
	Tree        *survey.Tree
	Hospitals   []*fund.Hospital
}

// Result reports what a submission changed.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// NotifyError wraps a mail transport failure that happened after the
// answers were committed. The save stands; only delivery failed.
type NotifyError struct {
	Err error
}

func (e *NotifyError) Error() string { return "notification failed: " + e.Err.Error() }
func (e *NotifyError) Unwrap() error { return e.Err }

type Service struct {
	answers      Repository
	surveys      SurveyStore
	hospitals    HospitalStore
	participants ParticipantStore
	funds        FundStore
	staff        StaffDirectory
	sender       mail.Sender
	templates    *mail.TemplateEngine
	sentinels    []string
	tx           TxRunner
}

func NewService(
	answers Repository,
	surveys SurveyStore,
	hospitals HospitalStore,
	participants ParticipantStore,
	funds FundStore,
	staff StaffDirectory,
	sender mail.Sender,
	templates *mail.TemplateEngine,
	sentinels []string,
	tx TxRunner,
) *Service {
	if tx == nil {
		tx = func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}
	}
	return &Service{
		answers:      answers,
		surveys:      surveys,
		hospitals:    hospitals,
		participants: participants,
		funds:        funds,
		staff:        staff,
		sender:       sender,
		templates:    templates,
		sentinels:    sentinels,
		tx:           tx,
	}
}

// Resolve checks the capability pair and prefetches the survey tree and
// hospital list for the request. Any miss is participant.ErrNotFound.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID, password string) (*Session, error) {
	p, err := s.participants.GetByCredentials(ctx, id, password)
	if err != nil {
		return nil, err
	}
	tree, err := s.surveys.FullTree(ctx, p.SurveyID)
	if err != nil {
		return nil, err
	}
	hospitals, err := s.hospitals.ListByHealthFund(ctx, p.HealthFundID)
	if err != nil {
		return nil, err
	}
	return &Session{Participant: p, Tree: tree, Hospitals: hospitals}, nil
}

// HospitalList returns the fund's hospitals flagged with answer status.
func (s *Service) HospitalList(ctx context.Context, sess *Session) ([]*fund.HospitalStatus, error) {
	return s.hospitals.AnswerStatus(ctx, sess.Participant.HealthFundID, sess.Participant.ID)
}

func (s *Service) hospitalInScope(sess *Session, hospitalID uuid.UUID) (*fund.Hospital, error) {
	for _, h := range sess.Hospitals {
		if h.ID == hospitalID {
			return h, nil
		}
	}
	return nil, ErrOutOfScope
}

func (s *Service) questionInScope(sess *Session, questionID uuid.UUID) (*survey.QuestionNode, *survey.Category, error) {
	for _, cn := range sess.Tree.Categories {
		for _, qn := range cn.Questions {
			if qn.ID == questionID {
				return qn, cn.Category, nil
			}
		}
	}
	return nil, nil, ErrOutOfScope
}

// HospitalForm builds the single-hospital form with current values.
func (s *Service) HospitalForm(ctx context.Context, sess *Session, hospitalID uuid.UUID) (*Form, error) {
	hospital, err := s.hospitalInScope(sess, hospitalID)
	if err != nil {
		return nil, err
	}
	existing, err := s.answers.ListByParticipantHospital(ctx, sess.Participant.ID, hospitalID)
	if err != nil {
		return nil, err
	}
	return buildHospitalForm(sess.Tree, hospital, answersByCell(existing)), nil
}

// ParticipantForm builds the whole-survey form with current values.
func (s *Service) ParticipantForm(ctx context.Context, sess *Session) (*Form, error) {
	existing, err := s.answers.ListByParticipant(ctx, sess.Participant.ID)
	if err != nil {
		return nil, err
	}
	return buildParticipantForm(sess.Tree, sess.Hospitals, answersByCell(existing)), nil
}

// QuestionForm builds the per-question form with current values.
func (s *Service) QuestionForm(ctx context.Context, sess *Session, questionID uuid.UUID) (*Form, error) {
	qn, cat, err := s.questionInScope(sess, questionID)
	if err != nil {
		return nil, err
	}
	existing, err := s.answers.ListByParticipantQuestion(ctx, sess.Participant.ID, questionID)
	if err != nil {
		return nil, err
	}
	return buildQuestionForm(sess.Tree, qn, cat, sess.Hospitals, answersByCell(existing)), nil
}

// PrintForms returns one filled per-hospital form per hospital, for the
// print view.
func (s *Service) PrintForms(ctx context.Context, sess *Session) ([]*Form, error) {
	existing, err := s.answers.ListByParticipant(ctx, sess.Participant.ID)
	if err != nil {
		return nil, err
	}
	byCell := answersByCell(existing)
	forms := make([]*Form, 0, len(sess.Hospitals))
	for _, h := range sess.Hospitals {
		forms = append(forms, buildHospitalForm(sess.Tree, h, byCell))
	}
	return forms, nil
}

// SubmitHospital reconciles a single-hospital submission and sends the
// per-hospital confirmation.
func (s *Service) SubmitHospital(ctx context.Context, sess *Session, hospitalID uuid.UUID, values map[string]string, submitterStaff bool) (*Result, error) {
	hospital, err := s.hospitalInScope(sess, hospitalID)
	if err != nil {
		return nil, err
	}
	scope := HospitalScope(sess.Tree, hospitalID)
	result, err := s.reconcile(ctx, sess.Participant, scope, values, func(ctx context.Context) ([]*Answer, error) {
		return s.answers.ListByParticipantHospital(ctx, sess.Participant.ID, hospitalID)
	})
	if err != nil {
		return nil, err
	}
	if err := s.notifyHospital(ctx, sess, hospital, submitterStaff); err != nil {
		return result, &NotifyError{Err: err}
	}
	return result, nil
}

// SubmitParticipant reconciles a whole-survey submission.
func (s *Service) SubmitParticipant(ctx context.Context, sess *Session, values map[string]string, submitterStaff bool) (*Result, error) {
	scope := ParticipantScope(sess.Tree, sess.Hospitals)
	result, err := s.reconcile(ctx, sess.Participant, scope, values, func(ctx context.Context) ([]*Answer, error) {
		return s.answers.ListByParticipant(ctx, sess.Participant.ID)
	})
	if err != nil {
		return nil, err
	}
	if err := s.notifyParticipant(ctx, sess, submitterStaff); err != nil {
		return result, &NotifyError{Err: err}
	}
	return result, nil
}

// SubmitQuestion reconciles a per-question submission.
func (s *Service) SubmitQuestion(ctx context.Context, sess *Session, questionID uuid.UUID, values map[string]string, submitterStaff bool) (*Result, error) {
	qn, cat, err := s.questionInScope(sess, questionID)
	if err != nil {
		return nil, err
	}
	scope := QuestionScope(qn, sess.Hospitals)
	result, err := s.reconcile(ctx, sess.Participant, scope, values, func(ctx context.Context) ([]*Answer, error) {
		return s.answers.ListByParticipantQuestion(ctx, sess.Participant.ID, questionID)
	})
	if err != nil {
		return nil, err
	}
	if err := s.notifyQuestion(ctx, sess, cat, qn, submitterStaff); err != nil {
		return result, &NotifyError{Err: err}
	}
	return result, nil
}

// reconcile validates every value in scope, then applies the changes in
// one transaction: changed cells update in place, missing cells insert in
// one bulk statement, and the participant counter moves by the number of
// fresh inserts. Resubmitting identical values writes nothing.
func (s *Service) reconcile(ctx context.Context, p *participant.Participant, scope []Cell, values map[string]string, load func(ctx context.Context) ([]*Answer, error)) (*Result, error) {
	fieldErrs := FieldErrors{}
	for _, cell := range scope {
		value, ok := values[cell.Key]
		if !ok {
			fieldErrs[cell.Key] = "this field is required"
			continue
		}
		if err := cell.Kind.Validate(value, s.sentinels); err != nil {
			fieldErrs[cell.Key] = err.Error()
		}
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	result := &Result{}
	err := s.tx(ctx, func(ctx context.Context) error {
		existing, err := load(ctx)
		if err != nil {
			return err
		}
		byCell := answersByCell(existing)

		var toCreate []*Answer
		for _, cell := range scope {
			value := values[cell.Key]
			if a, ok := byCell[cell.cellKey()]; ok {
				if a.Value != value {
					a.Value = value
					if err := s.answers.Update(ctx, a); err != nil {
						return err
					}
					result.Updated++
				}
				continue
			}
			toCreate = append(toCreate, &Answer{
				ParticipantID: p.ID,
				SubquestionID: cell.SubquestionID,
				HospitalID:    cell.HospitalID,
				Value:         value,
			})
		}

		created, err := s.answers.BulkCreate(ctx, toCreate)
		if err != nil {
			return fmt.Errorf("bulk create answers: %w", err)
		}
		result.Created = created
		if created > 0 {
			if err := s.participants.IncrementAnswerCount(ctx, p.ID, created); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
