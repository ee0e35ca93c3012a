package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gigmarket-backend/internal/dto"
	"github.com/ignatzorin/gigmarket-backend/internal/http/handlers/common"
	"github.com/ignatzorin/gigmarket-backend/internal/service"
)

// GigHandler обслуживает маршруты каталога услуг.
type GigHandler struct {
	gigs *service.GigService
}

// NewGigHandler создаёт новый хэндлер.
func NewGigHandler(gigs *service.GigService) *GigHandler {
	return &GigHandler{gigs: gigs}
}

func parseOptionalMediaID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// CreateGig обрабатывает POST /gigs.
func (h *GigHandler) CreateGig(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateGigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coverID, err := parseOptionalMediaID(req.CoverMediaID)
	if err != nil {
		common.RespondBadRequest(c, "cover_media_id должен быть валидным UUID")
		return
	}

	gig, err := h.gigs.CreateGig(c.Request.Context(), service.GigInput{
		FreelancerID: userID,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		CoverMediaID: coverID,
		IsActive:     true,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gig)
}

// UpdateGig обрабатывает PUT /gigs/:id.
func (h *GigHandler) UpdateGig(c *gin.Context) {
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

	var req dto.UpdateGigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coverID, err := parseOptionalMediaID(req.CoverMediaID)
	if err != nil {
		common.RespondBadRequest(c, "cover_media_id должен быть валидным UUID")
		return
	}

	gig, err := h.gigs.UpdateGig(c.Request.Context(), gigID, service.GigInput{
		FreelancerID: userID,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		CoverMediaID: coverID,
		IsActive:     true,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gig)
}

// DeactivateGig обрабатывает DELETE /gigs/:id.
func (h *GigHandler) DeactivateGig(c *gin.Context) {
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

	if err := h.gigs.DeactivateGig(c.Request.Context(), gigID, userID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetGig обрабатывает GET /gigs/:id.
func (h *GigHandler) GetGig(c *gin.Context) {
	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	gig, err := h.gigs.GetGig(c.Request.Context(), gigID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gig)
}

// ListGigs обрабатывает GET /gigs.
func (h *GigHandler) ListGigs(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	gigs, err := h.gigs.ListGigs(c.Request.Context(), limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{Items: gigs, Limit: limit, Offset: offset})
}

// ListMyGigs обрабатывает GET /gigs/my.
func (h *GigHandler) ListMyGigs(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	limit, offset := common.GetPagination(c)

	gigs, err := h.gigs.ListMyGigs(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{Items: gigs, Limit: limit, Offset: offset})
}
