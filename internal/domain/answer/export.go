package answer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ExportCSV writes every answer of a survey as CSV. One row per
// (participant's fund, hospital); the first six columns identify the fund
// and hospital, then one column per subquestion in survey order. Cells
// never answered stay empty.
func (s *Service) ExportCSV(ctx context.Context, surveyID uuid.UUID, w io.Writer) error {
	tree, err := s.surveys.FullTree(ctx, surveyID)
	if err != nil {
		return err
	}
	subquestions := tree.Subquestions()

	cw := csv.NewWriter(w)
	header := []string{"fund_name", "fund_identifier", "hospital_name", "hospital_identifier", "city", "region"}
	for _, sq := range subquestions {
		header = append(header, fmt.Sprintf("%s:%s", sq.Name, sq.ID))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	participants, err := s.participants.ListBySurvey(ctx, surveyID)
	if err != nil {
		return err
	}
	for _, p := range participants {
		f, err := s.funds.GetByID(ctx, p.HealthFundID)
		if err != nil {
			return err
		}
		hospitals, err := s.hospitals.ListByHealthFund(ctx, p.HealthFundID)
		if err != nil {
			return err
		}
		answers, err := s.answers.ListByParticipant(ctx, p.ID)
		if err != nil {
			return err
		}
		byCell := answersByCell(answers)
		for _, h := range hospitals {
			row := []string{f.Name, f.Identifier, h.Name, h.Identifier, h.City, h.Region}
			for _, sq := range subquestions {
				value := ""
				if a, ok := byCell[CellKey{HospitalID: h.ID, SubquestionID: sq.ID}]; ok {
					value = a.Value
				}
				row = append(row, value)
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
