package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigmarket-backend/internal/dto"
	"github.com/ignatzorin/gigmarket-backend/internal/http/handlers/common"
	"github.com/ignatzorin/gigmarket-backend/internal/models"
	"github.com/ignatzorin/gigmarket-backend/internal/service"
)

// EarningsHandler обслуживает маршруты баланса исполнителя.
type EarningsHandler struct {
	earnings *service.EarningsService
}

// NewEarningsHandler создаёт новый хэндлер.
func NewEarningsHandler(earnings *service.EarningsService) *EarningsHandler {
	return &EarningsHandler{earnings: earnings}
}

// GetEarnings обрабатывает GET /earnings.
func (h *EarningsHandler) GetEarnings(c *gin.Context) {
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
	if role != models.RoleFreelancer {
		common.RespondForbidden(c, "баланс доступен только исполнителям")
		return
	}

	earnings, err := h.earnings.GetEarnings(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, earnings)
}

// Withdraw обрабатывает POST /earnings/withdraw.
// Сумма проверяется против доступного баланса атомарно.
func (h *EarningsHandler) Withdraw(c *gin.Context) {
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
	if role != models.RoleFreelancer {
		common.RespondForbidden(c, "вывод средств доступен только исполнителям")
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.earnings.Withdraw(c.Request.Context(), userID, req.Amount)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// ListTransactions обрабатывает GET /earnings/transactions.
func (h *EarningsHandler) ListTransactions(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	limit, offset := common.GetPagination(c)

	transactions, err := h.earnings.ListTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{Items: transactions, Limit: limit, Offset: offset})
}
