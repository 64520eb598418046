package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNotify_FundAddressIncludedForNonStaff(t *testing.T) {
	fx := newFixture(t, []string{"staff@example.org"})
	sess := fx.session(t)

	if _, err := fx.svc.SubmitHospital(context.Background(), sess, fx.hospitals[0].ID, fx.hospitalValues("1", "x", "2"), false); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(fx.sender.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fx.sender.Messages))
	}
	to := fx.sender.Messages[0].To
	if len(to) != 2 || to[0] != "mazowsze@example.org" || to[1] != "staff@example.org" {
		t.Fatalf("unexpected recipients: %v", to)
	}
}

func TestNotify_FundAddressOmittedForStaffSubmitter(t *testing.T) {
	fx := newFixture(t, []string{"staff@example.org"})
	sess := fx.session(t)

	if _, err := fx.svc.SubmitHospital(context.Background(), sess, fx.hospitals[0].ID, fx.hospitalValues("1", "x", "2"), true); err != nil {
		t.Fatalf("submit: %v", err)
	}
	to := fx.sender.Messages[0].To
	if len(to) != 1 || to[0] != "staff@example.org" {
		t.Fatalf("unexpected recipients: %v", to)
	}
}

func TestNotify_DuplicateAddressesCollapse(t *testing.T) {
	fx := newFixture(t, []string{"mazowsze@example.org", "staff@example.org", "staff@example.org"})
	sess := fx.session(t)

	if _, err := fx.svc.SubmitHospital(context.Background(), sess, fx.hospitals[0].ID, fx.hospitalValues("1", "x", "2"), false); err != nil {
		t.Fatalf("submit: %v", err)
	}
	to := fx.sender.Messages[0].To
	if len(to) != 2 {
		t.Fatalf("expected deduped recipients, got %v", to)
	}
}

func TestNotify_NoRecipientsSkipsSend(t *testing.T) {
	fx := newFixture(t, nil)
	fx.fund.Email = ""
	sess := fx.session(t)

	if _, err := fx.svc.SubmitHospital(context.Background(), sess, fx.hospitals[0].ID, fx.hospitalValues("1", "x", "2"), false); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(fx.sender.Messages) != 0 {
		t.Fatalf("expected no messages, got %d", len(fx.sender.Messages))
	}
}

func TestNotify_TransportFailureKeepsSave(t *testing.T) {
	fx := newFixture(t, nil)
	fx.sender.Err = errors.New("connection refused")
	sess := fx.session(t)

	result, err := fx.svc.SubmitHospital(context.Background(), sess, fx.hospitals[0].ID, fx.hospitalValues("1", "x", "2"), false)
	var notifyErr *NotifyError
	if !errors.As(err, &notifyErr) {
		t.Fatalf("expected NotifyError, got %v", err)
	}
	if result == nil || result.Created != 3 {
		t.Fatalf("save should stand on transport failure, got %+v", result)
	}
	if len(fx.answers.answers) != 3 {
		t.Fatalf("answers missing after transport failure")
	}
}

func TestNotify_HospitalBodyCarriesAnswersAndCompletion(t *testing.T) {
	fx := newFixture(t, nil)
	sess := fx.session(t)

	if _, err := fx.svc.SubmitHospital(context.Background(), sess, fx.hospitals[0].ID, fx.hospitalValues("42", "bez uwag", "17"), false); err != nil {
		t.Fatalf("submit: %v", err)
	}
	body := fx.sender.Messages[0].Body
	for _, want := range []string{
		"Szpital Wolski",
		"Infrastruktura",
		"Kolejki",
		"Liczba lozek: 42",
		"Szpital Bielanski: pending",
		"1 of 2 hospitals answered, 1 left",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestRenderFormAnswers_IncludesHospitalNames(t *testing.T) {
	fx := newFixture(t, nil)
	sess := fx.session(t)

	values := make(map[string]string)
	for _, sq := range fx.sqs {
		for _, h := range fx.hospitals {
			values[FieldKey(h.ID, sq.ID)] = "7"
		}
	}
	if _, err := fx.svc.SubmitParticipant(context.Background(), sess, values, false); err != nil {
		t.Fatalf("submit: %v", err)
	}
	body := fx.sender.Messages[0].Body
	if !strings.Contains(body, "Liczba lozek (Szpital Wolski): 7") {
		t.Fatalf("body missing hospital-qualified line:\n%s", body)
	}
}
