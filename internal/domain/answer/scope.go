package answer

import (
	"github.com/google/uuid"

	"github.com/ankieta/ankieta/internal/domain/fund"
	"github.com/ankieta/ankieta/internal/domain/survey"
)

// Cell is one (hospital, subquestion) pair a submission may address,
// carrying the form key it answers to and the validation kind. The three
// participant-facing flows differ only in how their scope is built; the
// reconciler itself is flow-agnostic.
type Cell struct {
	HospitalID    uuid.UUID
	SubquestionID uuid.UUID
	Key           string
	Kind          survey.Kind
}

func (c Cell) cellKey() CellKey {
	return CellKey{HospitalID: c.HospitalID, SubquestionID: c.SubquestionID}
}

// HospitalScope covers every subquestion of the survey for one hospital.
// Keys omit the hospital, which the URL already names.
func HospitalScope(tree *survey.Tree, hospitalID uuid.UUID) []Cell {
	var cells []Cell
	for _, sq := range tree.Subquestions() {
		cells = append(cells, Cell{
			HospitalID:    hospitalID,
			SubquestionID: sq.ID,
			Key:           SingleFieldKey(sq.ID),
			Kind:          sq.Kind,
		})
	}
	return cells
}

// ParticipantScope covers every subquestion of the survey crossed with
// every hospital of the participant's fund.
func ParticipantScope(tree *survey.Tree, hospitals []*fund.Hospital) []Cell {
	var cells []Cell
	for _, sq := range tree.Subquestions() {
		for _, h := range hospitals {
			cells = append(cells, Cell{
				HospitalID:    h.ID,
				SubquestionID: sq.ID,
				Key:           FieldKey(h.ID, sq.ID),
				Kind:          sq.Kind,
			})
		}
	}
	return cells
}

// QuestionScope covers one question's subquestions crossed with every
// hospital of the participant's fund.
func QuestionScope(qn *survey.QuestionNode, hospitals []*fund.Hospital) []Cell {
	var cells []Cell
	for _, sq := range qn.Subquestions {
		for _, h := range hospitals {
			cells = append(cells, Cell{
				HospitalID:    h.ID,
				SubquestionID: sq.ID,
				Key:           FieldKey(h.ID, sq.ID),
				Kind:          sq.Kind,
			})
		}
	}
	return cells
}
