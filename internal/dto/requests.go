package dto

import (
	"github.com/shopspring/decimal"
)

// CreateGigRequest represents the request to publish a gig
type CreateGigRequest struct {
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description" binding:"required"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	CoverMediaID *string         `json:"cover_media_id"`
}

// UpdateGigRequest represents the request to update a gig
type UpdateGigRequest struct {
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description" binding:"required"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	CoverMediaID *string         `json:"cover_media_id"`
}

// CreateProposalRequest represents the request to submit a proposal on a gig.
// OfferedPrice omitted means the client accepts the gig price as is.
type CreateProposalRequest struct {
	Message      string           `json:"message" binding:"required"`
	OfferedPrice *decimal.Decimal `json:"offered_price"`
	ImageIDs     []string         `json:"image_ids"`
}

// ProposalActionRequest represents an action on a pending proposal
type ProposalActionRequest struct {
	Action string `json:"action" binding:"required"`
}

// SubmitProofRequest represents the request to submit work results
type SubmitProofRequest struct {
	Description  string   `json:"description" binding:"required"`
	ExternalLink *string  `json:"external_link"`
	ImageIDs     []string `json:"image_ids"`
}

// ReviewOrderRequest represents the client decision on submitted work
type ReviewOrderRequest struct {
	Action string `json:"action" binding:"required"`
}

// UpdateOrderStatusRequest represents the freelancer-side status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// WithdrawRequest represents the request to withdraw funds from the balance
type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}
