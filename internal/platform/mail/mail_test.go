package mail

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestRender_BuiltInTemplate(t *testing.T) {
	e := NewTemplateEngine()
	subject, body, err := e.Render("answer-confirmation", map[string]string{
		"survey":  "Hospital readiness 2016",
		"answers": "Q1: 42",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if subject != "Answer confirmation" {
		t.Errorf("subject = %q", subject)
	}
	if want := "Answers for the survey \"Hospital readiness 2016\" were saved.\n\nQ1: 42"; body != want {
		t.Errorf("body = %q, want %q", body, want)
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	e := NewTemplateEngine()
	if _, _, err := e.Render("nope", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestRender_MissingKeyLeftAsIs(t *testing.T) {
	e := NewTemplateEngine()
	e.RegisterTemplate(Template{ID: "t", Subject: "s", Body: "hello {{name}}"})
	_, body, err := e.Render("t", map[string]string{})
	if err != nil {
		t.Fatal(err)
	}
	if body != "hello {{name}}" {
		t.Errorf("body = %q", body)
	}
}

func TestDedupeRecipients(t *testing.T) {
	got := DedupeRecipients([]string{"b@x.pl", "a@x.pl", "b@x.pl", "", " a@x.pl "})
	want := []string{"a@x.pl", "b@x.pl"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRecordingSender(t *testing.T) {
	s := &RecordingSender{}
	if err := s.Send(context.Background(), []string{"a@x.pl"}, "s", "b"); err != nil {
		t.Fatal(err)
	}
	if len(s.Messages) != 1 || s.Messages[0].Subject != "s" {
		t.Errorf("messages = %+v", s.Messages)
	}

	s.Err = errors.New("down")
	if err := s.Send(context.Background(), []string{"a@x.pl"}, "s", "b"); err == nil {
		t.Fatal("expected error")
	}
	if len(s.Messages) != 1 {
		t.Error("failed send must not be recorded")
	}
}
