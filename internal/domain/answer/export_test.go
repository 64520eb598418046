package answer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
)

func TestExportCSV_OneRowPerHospital(t *testing.T) {
	fx := newFixture(t, nil)
	sess := fx.session(t)

	if _, err := fx.svc.SubmitHospital(context.Background(), sess, fx.hospitals[0].ID, fx.hospitalValues("42", "bez uwag", "b/d"), false); err != nil {
		t.Fatalf("submit: %v", err)
	}

	var buf bytes.Buffer
	if err := fx.svc.ExportCSV(context.Background(), fx.tree.Survey.ID, &buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}

	header := records[0]
	if len(header) != 6+len(fx.sqs) {
		t.Fatalf("expected %d columns, got %d", 6+len(fx.sqs), len(header))
	}
	if header[0] != "fund_name" || header[5] != "region" {
		t.Fatalf("unexpected identity columns: %v", header[:6])
	}
	for i, sq := range fx.sqs {
		want := fmt.Sprintf("%s:%s", sq.Name, sq.ID)
		if header[6+i] != want {
			t.Fatalf("column %d: expected %q, got %q", 6+i, want, header[6+i])
		}
	}

	first := records[1]
	if first[0] != "Mazowiecki OW" || first[2] != "Szpital Wolski" {
		t.Fatalf("unexpected first row identity: %v", first[:6])
	}
	if first[6] != "42" || first[7] != "bez uwag" || first[8] != "b/d" {
		t.Fatalf("unexpected first row values: %v", first[6:])
	}

	second := records[2]
	if second[2] != "Szpital Bielanski" {
		t.Fatalf("unexpected second row hospital: %v", second[:6])
	}
	for i := 6; i < len(second); i++ {
		if second[i] != "" {
			t.Fatalf("expected empty cell at %d, got %q", i, second[i])
		}
	}
}

func TestExportCSV_EmptySurvey(t *testing.T) {
	fx := newFixture(t, nil)

	var buf bytes.Buffer
	if err := fx.svc.ExportCSV(context.Background(), fx.tree.Survey.ID, &buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	// header plus one empty row per hospital
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
}
