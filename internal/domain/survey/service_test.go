package survey

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

// -- Mock Repositories --

type mockStore struct {
	surveys      map[uuid.UUID]*Survey
	categories   map[uuid.UUID]*Category
	questions    map[uuid.UUID]*Question
	subquestions map[uuid.UUID]*Subquestion
	participants map[uuid.UUID]int
}

func newMockStore() *mockStore {
	return &mockStore{
		surveys:      make(map[uuid.UUID]*Survey),
		categories:   make(map[uuid.UUID]*Category),
		questions:    make(map[uuid.UUID]*Question),
		subquestions: make(map[uuid.UUID]*Subquestion),
		participants: make(map[uuid.UUID]int),
	}
}

type mockSurveyRepo struct{ store *mockStore }

func (m *mockSurveyRepo) Create(_ context.Context, s *Survey) error {
	s.ID = uuid.New()
	m.store.surveys[s.ID] = s
	return nil
}

func (m *mockSurveyRepo) GetByID(_ context.Context, id uuid.UUID) (*Survey, error) {
	s, ok := m.store.surveys[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return s, nil
}

func (m *mockSurveyRepo) GetBySlug(_ context.Context, slug string) (*Survey, error) {
	for _, s := range m.store.surveys {
		if s.Slug == slug {
			return s, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockSurveyRepo) Update(_ context.Context, s *Survey) error {
	if _, ok := m.store.surveys[s.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.store.surveys[s.ID] = s
	return nil
}

func (m *mockSurveyRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.store.surveys, id)
	return nil
}

func (m *mockSurveyRepo) List(_ context.Context, limit, offset int) ([]*Survey, int, error) {
	var result []*Survey
	for _, s := range m.store.surveys {
		result = append(result, s)
	}
	return result, len(result), nil
}

func (m *mockSurveyRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, s := range m.store.surveys {
		if s.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSurveyRepo) FullTree(ctx context.Context, id uuid.UUID) (*Tree, error) {
	s, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tree := &Tree{Survey: s}
	for _, c := range m.store.categories {
		if c.SurveyID != id {
			continue
		}
		cn := &CategoryNode{Category: c}
		for _, q := range m.store.questions {
			if q.CategoryID != c.ID {
				continue
			}
			qn := &QuestionNode{Question: q}
			for _, sq := range m.store.subquestions {
				if sq.QuestionID == q.ID {
					qn.Subquestions = append(qn.Subquestions, sq)
				}
			}
			cn.Questions = append(cn.Questions, qn)
		}
		tree.Categories = append(tree.Categories, cn)
	}
	return tree, nil
}

func (m *mockSurveyRepo) RecomputeSubquestionCount(ctx context.Context, id uuid.UUID) error {
	tree, err := m.FullTree(ctx, id)
	if err != nil {
		return err
	}
	m.store.surveys[id].SubquestionCount = len(tree.Subquestions())
	return nil
}

type mockCategoryRepo struct{ store *mockStore }

func (m *mockCategoryRepo) Create(_ context.Context, c *Category) error {
	c.ID = uuid.New()
	m.store.categories[c.ID] = c
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Category, error) {
	c, ok := m.store.categories[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return c, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, c *Category) error {
	m.store.categories[c.ID] = c
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.store.categories, id)
	return nil
}

func (m *mockCategoryRepo) ListBySurvey(_ context.Context, surveyID uuid.UUID) ([]*Category, error) {
	var result []*Category
	for _, c := range m.store.categories {
		if c.SurveyID == surveyID {
			result = append(result, c)
		}
	}
	return result, nil
}

type mockQuestionRepo struct{ store *mockStore }

func (m *mockQuestionRepo) Create(_ context.Context, q *Question) error {
	q.ID = uuid.New()
	m.store.questions[q.ID] = q
	return nil
}

func (m *mockQuestionRepo) GetByID(_ context.Context, id uuid.UUID) (*Question, error) {
	q, ok := m.store.questions[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return q, nil
}

func (m *mockQuestionRepo) Update(_ context.Context, q *Question) error {
	m.store.questions[q.ID] = q
	return nil
}

func (m *mockQuestionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.store.questions, id)
	return nil
}

func (m *mockQuestionRepo) ListByCategory(_ context.Context, categoryID uuid.UUID) ([]*Question, error) {
	var result []*Question
	for _, q := range m.store.questions {
		if q.CategoryID == categoryID {
			result = append(result, q)
		}
	}
	return result, nil
}

func (m *mockQuestionRepo) ListBySurvey(_ context.Context, surveyID uuid.UUID) ([]*Question, error) {
	var result []*Question
	for _, q := range m.store.questions {
		c, ok := m.store.categories[q.CategoryID]
		if ok && c.SurveyID == surveyID {
			result = append(result, q)
		}
	}
	return result, nil
}

type mockSubquestionRepo struct{ store *mockStore }

func (m *mockSubquestionRepo) Create(_ context.Context, sq *Subquestion) error {
	sq.ID = uuid.New()
	m.store.subquestions[sq.ID] = sq
	return nil
}

func (m *mockSubquestionRepo) GetByID(_ context.Context, id uuid.UUID) (*Subquestion, error) {
	sq, ok := m.store.subquestions[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return sq, nil
}

func (m *mockSubquestionRepo) Update(_ context.Context, sq *Subquestion) error {
	m.store.subquestions[sq.ID] = sq
	return nil
}

func (m *mockSubquestionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.store.subquestions, id)
	return nil
}

func (m *mockSubquestionRepo) ListByQuestion(_ context.Context, questionID uuid.UUID) ([]*Subquestion, error) {
	var result []*Subquestion
	for _, sq := range m.store.subquestions {
		if sq.QuestionID == questionID {
			result = append(result, sq)
		}
	}
	return result, nil
}

func (m *mockSubquestionRepo) SurveyIDOf(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	sq, ok := m.store.subquestions[id]
	if !ok {
		return uuid.Nil, fmt.Errorf("not found")
	}
	q, ok := m.store.questions[sq.QuestionID]
	if !ok {
		return uuid.Nil, fmt.Errorf("question not found")
	}
	c, ok := m.store.categories[q.CategoryID]
	if !ok {
		return uuid.Nil, fmt.Errorf("category not found")
	}
	return c.SurveyID, nil
}

type mockParticipantCounter struct{ store *mockStore }

func (m *mockParticipantCounter) CountBySurvey(_ context.Context, surveyID uuid.UUID) (int, error) {
	return m.store.participants[surveyID], nil
}

// -- Tests --

func newSvcTestService() (*Service, *mockStore) {
	store := newMockStore()
	svc := NewService(
		&mockSurveyRepo{store},
		&mockCategoryRepo{store},
		&mockQuestionRepo{store},
		&mockSubquestionRepo{store},
		&mockParticipantCounter{store},
		nil,
	)
	return svc, store
}

// seedStructure creates survey -> category -> question and returns the ids.
func seedStructure(t *testing.T, svc *Service) (*Survey, *Category, *Question) {
	t.Helper()
	sv := &Survey{Title: "Opieka 2016"}
	if err := svc.CreateSurvey(context.Background(), sv); err != nil {
		t.Fatalf("create survey: %v", err)
	}
	cat := &Category{SurveyID: sv.ID, Name: "Dostępność"}
	if err := svc.CreateCategory(context.Background(), cat); err != nil {
		t.Fatalf("create category: %v", err)
	}
	q := &Question{CategoryID: cat.ID, Name: "Kolejki"}
	if err := svc.CreateQuestion(context.Background(), q); err != nil {
		t.Fatalf("create question: %v", err)
	}
	return sv, cat, q
}

func TestCreateSurvey_SlugFromTitle(t *testing.T) {
	svc, _ := newSvcTestService()

	sv := &Survey{Title: "Ankieta 2016"}
	if err := svc.CreateSurvey(context.Background(), sv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sv.Slug != "ankieta-2016" {
		t.Errorf("expected slug 'ankieta-2016', got %q", sv.Slug)
	}
	if sv.Style != StyleTotal {
		t.Errorf("expected default style total, got %q", sv.Style)
	}
}

func TestCreateSurvey_SlugCollisionSuffix(t *testing.T) {
	svc, _ := newSvcTestService()

	first := &Survey{Title: "Ankieta"}
	second := &Survey{Title: "Ankieta"}
	third := &Survey{Title: "Ankieta"}
	svc.CreateSurvey(context.Background(), first)
	svc.CreateSurvey(context.Background(), second)
	svc.CreateSurvey(context.Background(), third)

	if first.Slug != "ankieta" {
		t.Errorf("expected 'ankieta', got %q", first.Slug)
	}
	if second.Slug != "ankieta-2" {
		t.Errorf("expected 'ankieta-2', got %q", second.Slug)
	}
	if third.Slug != "ankieta-3" {
		t.Errorf("expected 'ankieta-3', got %q", third.Slug)
	}
}

func TestCreateSurvey_InvalidStyle(t *testing.T) {
	svc, _ := newSvcTestService()

	sv := &Survey{Title: "Ankieta", Style: "weird"}
	if err := svc.CreateSurvey(context.Background(), sv); err == nil {
		t.Error("expected error for unknown style")
	}
}

func TestCreateSubquestion_IncrementsCount(t *testing.T) {
	svc, store := newSvcTestService()
	sv, _, q := seedStructure(t, svc)

	sq := &Subquestion{QuestionID: q.ID, Name: "Liczba łóżek", Kind: KindInt}
	if err := svc.CreateSubquestion(context.Background(), sq); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.surveys[sv.ID].SubquestionCount; got != 1 {
		t.Errorf("expected subquestion_count 1, got %d", got)
	}

	second := &Subquestion{QuestionID: q.ID, Name: "Liczba sal", Kind: KindInt}
	svc.CreateSubquestion(context.Background(), second)
	if got := store.surveys[sv.ID].SubquestionCount; got != 2 {
		t.Errorf("expected subquestion_count 2, got %d", got)
	}
}

func TestDeleteSubquestion_DecrementsCount(t *testing.T) {
	svc, store := newSvcTestService()
	sv, _, q := seedStructure(t, svc)

	sq := &Subquestion{QuestionID: q.ID, Name: "Liczba łóżek", Kind: KindInt}
	svc.CreateSubquestion(context.Background(), sq)
	other := &Subquestion{QuestionID: q.ID, Name: "Liczba sal", Kind: KindInt}
	svc.CreateSubquestion(context.Background(), other)

	if err := svc.DeleteSubquestion(context.Background(), sq.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.surveys[sv.ID].SubquestionCount; got != 1 {
		t.Errorf("expected subquestion_count 1 after delete, got %d", got)
	}
}

func TestCreateSubquestion_DefaultKind(t *testing.T) {
	svc, _ := newSvcTestService()
	_, _, q := seedStructure(t, svc)

	sq := &Subquestion{QuestionID: q.ID, Name: "Uwagi"}
	if err := svc.CreateSubquestion(context.Background(), sq); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sq.Kind != KindText {
		t.Errorf("expected default kind text, got %q", sq.Kind)
	}
}

func TestCreateSubquestion_InvalidKind(t *testing.T) {
	svc, _ := newSvcTestService()
	_, _, q := seedStructure(t, svc)

	sq := &Subquestion{QuestionID: q.ID, Name: "Uwagi", Kind: "float"}
	if err := svc.CreateSubquestion(context.Background(), sq); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestServiceAudit(t *testing.T) {
	svc, store := newSvcTestService()
	sv, _, q := seedStructure(t, svc)
	store.participants[sv.ID] = 1

	// Question has no subquestions yet.
	entries, err := svc.Audit(context.Background(), sv.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Valid(entries) {
		t.Error("expected invalid survey before subquestions exist")
	}

	sq := &Subquestion{QuestionID: q.ID, Name: "Liczba łóżek", Kind: KindInt}
	svc.CreateSubquestion(context.Background(), sq)

	entries, err = svc.Audit(context.Background(), sv.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Valid(entries) {
		t.Error("expected valid survey once fully populated")
	}
}

func TestListSurveysWithValidity(t *testing.T) {
	svc, store := newSvcTestService()
	sv, _, q := seedStructure(t, svc)
	store.participants[sv.ID] = 1
	svc.CreateSubquestion(context.Background(), &Subquestion{QuestionID: q.ID, Name: "Liczba", Kind: KindInt})

	empty := &Survey{Title: "Pusta"}
	svc.CreateSurvey(context.Background(), empty)

	items, total, err := svc.ListSurveysWithValidity(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 surveys, got %d", total)
	}
	valid := map[uuid.UUID]bool{}
	for _, item := range items {
		valid[item.ID] = item.IsValid
	}
	if !valid[sv.ID] {
		t.Error("expected populated survey to be valid")
	}
	if valid[empty.ID] {
		t.Error("expected empty survey to be invalid")
	}
}
