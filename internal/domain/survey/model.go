package survey

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Style selects which participant-facing flow a survey serves.
type Style string

const (
	// StyleTotal serves the whole survey as a single form.
	StyleTotal Style = "total"
	// StyleHospital serves one form per hospital.
	StyleHospital Style = "hospital"
	// StyleQuestion serves one form per question.
	StyleQuestion Style = "question"
)

func (s Style) Valid() bool {
	switch s {
	case StyleTotal, StyleHospital, StyleQuestion:
		return true
	}
	return false
}

// Survey maps to the survey table. SubquestionCount is a cached counter
// recomputed whenever a subquestion is created or deleted.
type Survey struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Title            string    `db:"title" json:"title"`
	Slug             string    `db:"slug" json:"slug"`
	WelcomeText      string    `db:"welcome_text" json:"welcome_text"`
	InstructionText  string    `db:"instruction_text" json:"instruction_text"`
	EndText          string    `db:"end_text" json:"end_text"`
	SubmitText       string    `db:"submit_text" json:"submit_text"`
	Style            Style     `db:"style" json:"style"`
	SubquestionCount int       `db:"subquestion_count" json:"subquestion_count"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Category maps to the category table. Sorted by (ordering, created_at).
type Category struct {
	ID          uuid.UUID `db:"id" json:"id"`
	SurveyID    uuid.UUID `db:"survey_id" json:"survey_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Ordering    int       `db:"ordering" json:"ordering"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Question maps to the question table. Sorted by (ordering, created_at).
type Question struct {
	ID         uuid.UUID `db:"id" json:"id"`
	CategoryID uuid.UUID `db:"category_id" json:"category_id"`
	Name       string    `db:"name" json:"name"`
	Ordering   int       `db:"ordering" json:"ordering"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Subquestion maps to the subquestion table. Kind controls how submitted
// values are validated and rendered.
type Subquestion struct {
	ID         uuid.UUID `db:"id" json:"id"`
	QuestionID uuid.UUID `db:"question_id" json:"question_id"`
	Name       string    `db:"name" json:"name"`
	Ordering   int       `db:"ordering" json:"ordering"`
	Kind       Kind      `db:"kind" json:"kind"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Tree is the fully loaded survey structure, assembled by the repository
// in a fixed number of queries so traversal never re-queries.
type Tree struct {
	Survey     *Survey         `json:"survey"`
	Categories []*CategoryNode `json:"categories"`
}

type CategoryNode struct {
	*Category
	Questions []*QuestionNode `json:"questions"`
}

type QuestionNode struct {
	*Question
	Subquestions []*Subquestion `json:"subquestions"`
}

// Subquestions returns every subquestion of the tree in traversal order.
func (t *Tree) Subquestions() []*Subquestion {
	var out []*Subquestion
	for _, c := range t.Categories {
		for _, q := range c.Questions {
			out = append(out, q.Subquestions...)
		}
	}
	return out
}

var slugReplacements = strings.NewReplacer(
	"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n",
	"ó", "o", "ś", "s", "ź", "z", "ż", "z",
)

// Slugify derives a URL slug from a title. Uniqueness is handled by the
// service, which appends -2, -3 and so on until the slug is free.
func Slugify(title string) string {
	s := slugReplacements.Replace(strings.ToLower(title))
	var b strings.Builder
	prevHyphen := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
