package answer

import (
	"github.com/google/uuid"

	"github.com/ankieta/ankieta/internal/domain/fund"
	"github.com/ankieta/ankieta/internal/domain/survey"
)

// FormField is one input of a participant-facing form, carrying its form
// key, validation kind and the currently stored value.
type FormField struct {
	Key           string      `json:"key"`
	SubquestionID uuid.UUID   `json:"subquestion_id"`
	Name          string      `json:"name"`
	Kind          survey.Kind `json:"kind"`
	HospitalID    *uuid.UUID  `json:"hospital_id,omitempty"`
	Value         string      `json:"value"`
}

type FormQuestion struct {
	Question *survey.Question `json:"question"`
	Fields   []FormField      `json:"fields"`
}

type FormCategory struct {
	Category  *survey.Category `json:"category"`
	Questions []FormQuestion   `json:"questions"`
}

// Form is the grouped field structure served on GET and rendered into the
// print view. Hospital is set in the per-hospital flow only.
type Form struct {
	Survey     *survey.Survey `json:"survey"`
	Hospital   *fund.Hospital `json:"hospital,omitempty"`
	Categories []FormCategory `json:"categories"`
}

// buildHospitalForm assembles the single-hospital form with sq- keys and
// current values from existing answers.
func buildHospitalForm(tree *survey.Tree, hospital *fund.Hospital, existing map[CellKey]*Answer) *Form {
	form := &Form{Survey: tree.Survey, Hospital: hospital}
	for _, cn := range tree.Categories {
		fc := FormCategory{Category: cn.Category}
		for _, qn := range cn.Questions {
			fq := FormQuestion{Question: qn.Question}
			for _, sq := range qn.Subquestions {
				value := ""
				if a, ok := existing[CellKey{HospitalID: hospital.ID, SubquestionID: sq.ID}]; ok {
					value = a.Value
				}
				fq.Fields = append(fq.Fields, FormField{
					Key:           SingleFieldKey(sq.ID),
					SubquestionID: sq.ID,
					Name:          sq.Name,
					Kind:          sq.Kind,
					Value:         value,
				})
			}
			fc.Questions = append(fc.Questions, fq)
		}
		form.Categories = append(form.Categories, fc)
	}
	return form
}

// buildParticipantForm assembles the whole-survey form, one field per
// (subquestion, hospital) pair with h-...-sq-... keys.
func buildParticipantForm(tree *survey.Tree, hospitals []*fund.Hospital, existing map[CellKey]*Answer) *Form {
	form := &Form{Survey: tree.Survey}
	for _, cn := range tree.Categories {
		fc := FormCategory{Category: cn.Category}
		for _, qn := range cn.Questions {
			fq := FormQuestion{Question: qn.Question}
			for _, sq := range qn.Subquestions {
				for _, h := range hospitals {
					hID := h.ID
					value := ""
					if a, ok := existing[CellKey{HospitalID: h.ID, SubquestionID: sq.ID}]; ok {
						value = a.Value
					}
					fq.Fields = append(fq.Fields, FormField{
						Key:           FieldKey(h.ID, sq.ID),
						SubquestionID: sq.ID,
						Name:          sq.Name,
						Kind:          sq.Kind,
						HospitalID:    &hID,
						Value:         value,
					})
				}
			}
			fc.Questions = append(fc.Questions, fq)
		}
		form.Categories = append(form.Categories, fc)
	}
	return form
}

// buildQuestionForm assembles the per-question form restricted to one
// question's subquestions across all hospitals.
func buildQuestionForm(tree *survey.Tree, qn *survey.QuestionNode, cat *survey.Category, hospitals []*fund.Hospital, existing map[CellKey]*Answer) *Form {
	form := &Form{Survey: tree.Survey}
	fc := FormCategory{Category: cat}
	fq := FormQuestion{Question: qn.Question}
	for _, sq := range qn.Subquestions {
		for _, h := range hospitals {
			hID := h.ID
			value := ""
			if a, ok := existing[CellKey{HospitalID: h.ID, SubquestionID: sq.ID}]; ok {
				value = a.Value
			}
			fq.Fields = append(fq.Fields, FormField{
				Key:           FieldKey(h.ID, sq.ID),
				SubquestionID: sq.ID,
				Name:          sq.Name,
				Kind:          sq.Kind,
				HospitalID:    &hID,
				Value:         value,
			})
		}
	}
	fc.Questions = append(fc.Questions, fq)
	form.Categories = append(form.Categories, fc)
	return form
}

func answersByCell(answers []*Answer) map[CellKey]*Answer {
	m := make(map[CellKey]*Answer, len(answers))
	for _, a := range answers {
		m[CellKey{HospitalID: a.HospitalID, SubquestionID: a.SubquestionID}] = a
	}
	return m
}
