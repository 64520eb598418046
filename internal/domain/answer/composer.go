package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ankieta/ankieta/internal/domain/fund"
	"github.com/ankieta/ankieta/internal/domain/survey"
	"github.com/ankieta/ankieta/internal/platform/mail"
)

// recipients assembles the confirmation recipient list: staff users opted
// into notification, plus the fund's own address unless a staff member is
// the submitter.
func (s *Service) recipients(ctx context.Context, sess *Session, submitterStaff bool) ([]string, error) {
	to, err := s.staff.ListNotified(ctx)
	if err != nil {
		return nil, err
	}
	if !submitterStaff {
		f, err := s.funds.GetByID(ctx, sess.Participant.HealthFundID)
		if err != nil {
			return nil, err
		}
		to = append(to, f.Email)
	}
	return mail.DedupeRecipients(to), nil
}

func (s *Service) notifyHospital(ctx context.Context, sess *Session, hospital *fund.Hospital, submitterStaff bool) error {
	to, err := s.recipients(ctx, sess, submitterStaff)
	if err != nil {
		return err
	}
	if len(to) == 0 {
		return nil
	}
	form, err := s.HospitalForm(ctx, sess, hospital.ID)
	if err != nil {
		return err
	}
	statuses, err := s.HospitalList(ctx, sess)
	if err != nil {
		return err
	}
	subject, body, err := s.templates.Render("answer-confirmation-hospital", map[string]string{
		"survey":     sess.Tree.Survey.Title,
		"hospital":   hospital.Name,
		"answers":    renderFormAnswers(form, nil),
		"completion": renderCompletion(statuses),
	})
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, to, subject, body)
}

func (s *Service) notifyParticipant(ctx context.Context, sess *Session, submitterStaff bool) error {
	to, err := s.recipients(ctx, sess, submitterStaff)
	if err != nil {
		return err
	}
	if len(to) == 0 {
		return nil
	}
	form, err := s.ParticipantForm(ctx, sess)
	if err != nil {
		return err
	}
	subject, body, err := s.templates.Render("answer-confirmation", map[string]string{
		"survey":  sess.Tree.Survey.Title,
		"answers": renderFormAnswers(form, hospitalNames(sess.Hospitals)),
	})
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, to, subject, body)
}

func (s *Service) notifyQuestion(ctx context.Context, sess *Session, cat *survey.Category, qn *survey.QuestionNode, submitterStaff bool) error {
	to, err := s.recipients(ctx, sess, submitterStaff)
	if err != nil {
		return err
	}
	if len(to) == 0 {
		return nil
	}
	form, err := s.QuestionForm(ctx, sess, qn.ID)
	if err != nil {
		return err
	}
	subject, body, err := s.templates.Render("answer-confirmation", map[string]string{
		"survey":  sess.Tree.Survey.Title,
		"answers": renderFormAnswers(form, hospitalNames(sess.Hospitals)),
	})
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, to, subject, body)
}

func hospitalNames(hospitals []*fund.Hospital) map[string]string {
	names := make(map[string]string, len(hospitals))
	for _, h := range hospitals {
		names[h.ID.String()] = h.Name
	}
	return names
}

// renderFormAnswers flattens a form into an indented plain-text block in
// the form's own order. Fields bound to a hospital carry its name when the
// names map is supplied.
func renderFormAnswers(form *Form, names map[string]string) string {
	var b strings.Builder
	for _, fc := range form.Categories {
		fmt.Fprintf(&b, "%s\n", fc.Category.Name)
		for _, fq := range fc.Questions {
			fmt.Fprintf(&b, "  %s\n", fq.Question.Name)
			for _, f := range fq.Fields {
				label := f.Name
				if f.HospitalID != nil {
					if name, ok := names[f.HospitalID.String()]; ok {
						label = fmt.Sprintf("%s (%s)", f.Name, name)
					}
				}
				fmt.Fprintf(&b, "    %s: %s\n", label, f.Value)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCompletion(statuses []*fund.HospitalStatus) string {
	var b strings.Builder
	done := 0
	for _, st := range statuses {
		mark := "pending"
		if st.HasAnswers {
			mark = "done"
			done++
		}
		fmt.Fprintf(&b, "%s: %s\n", st.Hospital.Name, mark)
	}
	fmt.Fprintf(&b, "%d of %d hospitals answered, %d left", done, len(statuses), len(statuses)-done)
	return b.String()
}
