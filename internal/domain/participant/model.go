package participant

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound signals that an id/password pair resolved nothing.
	ErrNotFound = errors.New("participant not found")
	// ErrProgressUndefined signals a zero required-answer denominator, a
	// legitimate state for a fund without hospitals or an unpopulated
	// survey.
	ErrProgressUndefined = errors.New("progress undefined: no required answers")
)

// Participant links one health fund to one survey. The password is a
// capability token carried in the public URL; AnswerCount is a cached
// counter maintained with relative SQL updates.
type Participant struct {
	ID           uuid.UUID `db:"id" json:"id"`
	HealthFundID uuid.UUID `db:"health_fund_id" json:"health_fund_id"`
	SurveyID     uuid.UUID `db:"survey_id" json:"survey_id"`
	Password     string    `db:"password" json:"password"`
	AnswerCount  int       `db:"answer_count" json:"answer_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// NewPassword returns a random five-digit numeric capability token.
func NewPassword() string {
	return fmt.Sprintf("%d", rand.Intn(90000)+10000)
}

// CapabilityPath is the public URL path granting access to this
// participant's survey.
func (p *Participant) CapabilityPath() string {
	return fmt.Sprintf("/surveys/%s/%s", p.ID, p.Password)
}
