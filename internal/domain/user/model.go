package user

import (
	"time"

	"github.com/google/uuid"
)

// StaffUser is an administrative account. Notification controls whether
// the user receives answer-confirmation mail.
type StaffUser struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	IsStaff      bool      `db:"is_staff" json:"is_staff"`
	Notification bool      `db:"notification" json:"notification"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
