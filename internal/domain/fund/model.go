package fund

import (
	"time"

	"github.com/google/uuid"
)

// NationalHealthFund maps to the national_health_fund table. A fund is the
// regional body whose hospitals answer surveys.
type NationalHealthFund struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Identifier string    `db:"identifier" json:"identifier"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Hospital maps to the hospital table.
type Hospital struct {
	ID           uuid.UUID `db:"id" json:"id"`
	HealthFundID uuid.UUID `db:"health_fund_id" json:"health_fund_id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Identifier   string    `db:"identifier" json:"identifier"`
	City         string    `db:"city" json:"city"`
	Region       string    `db:"region" json:"region"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// HospitalStatus pairs a hospital with whether a participant has stored at
// least one answer for it.
type HospitalStatus struct {
	Hospital
	HasAnswers bool `json:"has_answers"`
}
