package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	users map[uuid.UUID]*StaffUser
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[uuid.UUID]*StaffUser)}
}

func (m *mockRepo) Create(_ context.Context, u *StaffUser) error {
	u.ID = uuid.New()
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*StaffUser, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return u, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*StaffUser, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Update(_ context.Context, u *StaffUser) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.users, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*StaffUser, int, error) {
	var result []*StaffUser
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListNotified(_ context.Context) ([]string, error) {
	var emails []string
	for _, u := range m.users {
		if u.IsStaff && u.Notification {
			emails = append(emails, u.Email)
		}
	}
	return emails, nil
}

func TestCreate(t *testing.T) {
	svc := NewService(newMockRepo())

	u := &StaffUser{Email: "admin@example.org", IsStaff: true}
	if err := svc.Create(context.Background(), u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
}

func TestCreate_EmailRequired(t *testing.T) {
	svc := NewService(newMockRepo())

	if err := svc.Create(context.Background(), &StaffUser{}); err == nil {
		t.Error("expected error for missing email")
	}
}

func TestCreate_EmailInvalid(t *testing.T) {
	svc := NewService(newMockRepo())

	if err := svc.Create(context.Background(), &StaffUser{Email: "nope"}); err == nil {
		t.Error("expected error for invalid email")
	}
}

func TestNotifiedEmails(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	svc.Create(context.Background(), &StaffUser{Email: "on@example.org", IsStaff: true, Notification: true})
	svc.Create(context.Background(), &StaffUser{Email: "off@example.org", IsStaff: true, Notification: false})
	svc.Create(context.Background(), &StaffUser{Email: "notstaff@example.org", IsStaff: false, Notification: true})

	emails, err := svc.NotifiedEmails(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(emails) != 1 {
		t.Fatalf("expected 1 email, got %d", len(emails))
	}
	if emails[0] != "on@example.org" {
		t.Errorf("expected on@example.org, got %s", emails[0])
	}
}
