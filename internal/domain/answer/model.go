package answer

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Answer is one stored value for a (participant, subquestion, hospital)
// triple. The triple is unique; concurrent inserts resolve to updates.
type Answer struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ParticipantID uuid.UUID `db:"participant_id" json:"participant_id"`
	SubquestionID uuid.UUID `db:"subquestion_id" json:"subquestion_id"`
	HospitalID    uuid.UUID `db:"hospital_id" json:"hospital_id"`
	Value         string    `db:"value" json:"value"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// CellKey identifies one answer cell within a participant's scope.
type CellKey struct {
	HospitalID    uuid.UUID
	SubquestionID uuid.UUID
}

// FieldKey is the form key of a cell in multi-hospital flows.
func FieldKey(hospitalID, subquestionID uuid.UUID) string {
	return fmt.Sprintf("h-%s-sq-%s", hospitalID, subquestionID)
}

// SingleFieldKey is the form key of a cell in the single-hospital flow,
// where the hospital is implied by the URL.
func SingleFieldKey(subquestionID uuid.UUID) string {
	return fmt.Sprintf("sq-%s", subquestionID)
}

// FieldErrors maps form keys to validation messages. A submission with any
// field error is rejected as a whole; nothing is saved.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed on %d field(s), first: %s: %s", len(e), keys[0], e[keys[0]])
}
