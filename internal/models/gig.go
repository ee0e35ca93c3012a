package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gig описывает услугу, которую фрилансер выставляет на продажу.
type Gig struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	FreelancerID uuid.UUID       `db:"freelancer_id" json:"freelancer_id"`
	Title        string          `db:"title" json:"title"`
	Description  string          `db:"description" json:"description"`
	Price        decimal.Decimal `db:"price" json:"price"`
	CoverMediaID *uuid.UUID      `db:"cover_media_id" json:"cover_media_id,omitempty"`
	IsActive     bool            `db:"is_active" json:"is_active"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}
