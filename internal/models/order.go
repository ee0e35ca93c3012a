package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order описывает оплачиваемую единицу работы, созданную из принятого
// предложения. Цена фиксируется при создании и больше не меняется;
// на одно предложение создаётся не более одного заказа.
type Order struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	ProposalID   *uuid.UUID      `db:"proposal_id" json:"proposal_id,omitempty"`
	GigID        uuid.UUID       `db:"gig_id" json:"gig_id"`
	ClientID     uuid.UUID       `db:"client_id" json:"client_id"`
	FreelancerID uuid.UUID       `db:"freelancer_id" json:"freelancer_id"`
	TotalPrice   decimal.Decimal `db:"total_price" json:"total_price"`
	Status       string          `db:"status" json:"status"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// OrderProof хранит подтверждение выполненной работы по заказу.
// На заказ существует не более одного подтверждения (upsert).
type OrderProof struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	OrderID      uuid.UUID  `db:"order_id" json:"order_id"`
	Description  string     `db:"description" json:"description"`
	ExternalLink *string    `db:"external_link" json:"external_link,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	Images       []OrderProofImage `json:"images,omitempty"`
}

// OrderProofImage ссылка на загруженное изображение подтверждения.
type OrderProofImage struct {
	ID       uuid.UUID `db:"id" json:"id"`
	ProofID  uuid.UUID `db:"proof_id" json:"proof_id"`
	MediaID  uuid.UUID `db:"media_id" json:"media_id"`
	Position int       `db:"position" json:"position"`
}
