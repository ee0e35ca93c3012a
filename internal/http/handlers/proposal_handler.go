package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gigmarket-backend/internal/dto"
	"github.com/ignatzorin/gigmarket-backend/internal/http/handlers/common"
	"github.com/ignatzorin/gigmarket-backend/internal/service"
)

// ProposalHandler обслуживает маршруты предложений.
type ProposalHandler struct {
	proposals *service.ProposalService
}

// NewProposalHandler создаёт новый хэндлер.
func NewProposalHandler(proposals *service.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposals: proposals}
}

// SubmitProposal обрабатывает POST /gigs/:id/proposals.
// Предложение отправляет клиент; цена по умолчанию берётся из услуги.
func (h *ProposalHandler) SubmitProposal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mediaIDs := make([]uuid.UUID, 0, len(req.ImageIDs))
	for _, raw := range req.ImageIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			common.RespondBadRequest(c, "image_ids должны быть валидными UUID")
			return
		}
		mediaIDs = append(mediaIDs, id)
	}

	proposal, err := h.proposals.SubmitProposal(c.Request.Context(), service.SubmitProposalInput{
		GigID:        gigID,
		ClientID:     userID,
		OfferedPrice: req.OfferedPrice,
		Message:      req.Message,
		MediaIDs:     mediaIDs,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, proposal)
}

// ActOnProposal обрабатывает POST /proposals/:id/action.
// Поддерживаются действия accept, reject (исполнитель) и cancel (клиент).
func (h *ProposalHandler) ActOnProposal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.ProposalActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.proposals.ActOnProposal(c.Request.Context(), proposalID, userID, req.Action)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProposal обрабатывает GET /proposals/:id.
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	proposal, err := h.proposals.GetProposal(c.Request.Context(), proposalID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// ListMyProposals обрабатывает GET /proposals.
// Клиент видит отправленные им предложения, исполнитель — входящие.
func (h *ProposalHandler) ListMyProposals(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	limit, offset := common.GetPagination(c)

	proposals, err := h.proposals.ListMyProposals(c.Request.Context(), userID, role, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{Items: proposals, Limit: limit, Offset: offset})
}
