package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Proposal представляет заявку клиента на услугу фрилансера до принятия.
// Мутируется только сервисным слоем; из терминальных статусов
// (declined, cancelled, completed) переходы запрещены.
type Proposal struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	GigID        uuid.UUID       `db:"gig_id" json:"gig_id"`
	ClientID     uuid.UUID       `db:"client_id" json:"client_id"`
	FreelancerID uuid.UUID       `db:"freelancer_id" json:"freelancer_id"`
	OfferedPrice decimal.Decimal `db:"offered_price" json:"offered_price"`
	Message      string          `db:"message" json:"message"`
	Status       string          `db:"status" json:"status"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
	Images       []ProposalImage `json:"images,omitempty"`
}

// ProposalImage ссылка на изображение, приложенное к предложению.
type ProposalImage struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ProposalID uuid.UUID `db:"proposal_id" json:"proposal_id"`
	MediaID    uuid.UUID `db:"media_id" json:"media_id"`
	Position   int       `db:"position" json:"position"`
}
