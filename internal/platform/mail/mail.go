// Package mail provides outbound e-mail: a Sender interface with an SMTP
// implementation, and a small template engine for confirmation messages.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"sort"
	"strings"
	"sync"
)

// Sender is the interface for sending mail messages.
type Sender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// SMTPSender delivers mail through a plain SMTP endpoint.
type SMTPSender struct {
	Addr     string // host:port
	From     string
	Username string
	Password string
}

func (s *SMTPSender) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}
	var auth smtp.Auth
	if s.Username != "" {
		host := s.Addr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", s.Username, s.Password, host)
	}

	msg := strings.Builder{}
	fmt.Fprintf(&msg, "From: %s\r\n", s.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(s.Addr, auth, s.From, to, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// DiscardSender drops every message. Used in development when SMTP is not
// configured.
type DiscardSender struct{}

func (DiscardSender) Send(ctx context.Context, to []string, subject, body string) error {
	return nil
}

// RecordingSender captures sent messages for tests.
type RecordingSender struct {
	mu       sync.Mutex
	Messages []RecordedMessage
	Err      error // returned by Send when non-nil
}

type RecordedMessage struct {
	To      []string
	Subject string
	Body    string
}

func (r *RecordingSender) Send(ctx context.Context, to []string, subject, body string) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, RecordedMessage{To: to, Subject: subject, Body: body})
	return nil
}

// Template defines a reusable mail template.
type Template struct {
	ID      string
	Subject string
	Body    string
}

// TemplateEngine stores templates and renders them with {{key}} substitution.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates a TemplateEngine with the built-in templates
// pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]*Template)}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:      "answer-confirmation",
			Subject: "Answer confirmation",
			Body:    "Answers for the survey \"{{survey}}\" were saved.\n\n{{answers}}",
		},
		{
			ID:      "answer-confirmation-hospital",
			Subject: "Answer confirmation",
			Body: "Answers for the hospital \"{{hospital}}\" in the survey \"{{survey}}\" were saved.\n\n" +
				"{{answers}}\n\nHospital completion:\n{{completion}}",
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template in the engine.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render looks up a template by ID and performs {{key}} replacement using the
// supplied data map. Keys present in the template but absent from data are
// left as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not registered", templateID)
	}

	subject = substitute(t.Subject, data)
	body = substitute(t.Body, data)
	return subject, body, nil
}

func substitute(s string, data map[string]string) string {
	for key, value := range data {
		s = strings.ReplaceAll(s, "{{"+key+"}}", value)
	}
	return s
}

// DedupeRecipients returns the recipient list with duplicates and empty
// addresses removed, in stable sorted order.
func DedupeRecipients(recipients []string) []string {
	seen := make(map[string]struct{}, len(recipients))
	var out []string
	for _, r := range recipients {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
