package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/gigmarket-backend/internal/models"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/repository"
)

// EarningsRepository описывает взаимодействие сервиса с балансом фрилансера.
type EarningsRepository interface {
	GetOrCreate(ctx context.Context, freelancerID uuid.UUID) (*models.Earnings, error)
	Withdraw(ctx context.Context, freelancerID uuid.UUID, amount decimal.Decimal, description string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error)
}

// EarningsService содержит бизнес-логику работы с заработком фрилансера.
type EarningsService struct {
	repo EarningsRepository
}

// NewEarningsService создаёт сервис заработка.
func NewEarningsService(repo EarningsRepository) *EarningsService {
	return &EarningsService{repo: repo}
}

// GetEarnings возвращает баланс фрилансера, создаёт нулевой при первом обращении.
func (s *EarningsService) GetEarnings(ctx context.Context, freelancerID uuid.UUID) (*models.Earnings, error) {
	earnings, err := s.repo.GetOrCreate(ctx, freelancerID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось получить баланс")
	}
	return earnings, nil
}

// Withdraw выводит средства с доступного баланса. Сумма должна быть
// положительной и не превышать total_balance; при нехватке средств
// транзакция не создаётся и баланс не меняется.
func (s *EarningsService) Withdraw(ctx context.Context, freelancerID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма должна быть положительной")
	}

	transaction, err := s.repo.Withdraw(ctx, freelancerID, amount, "Вывод средств")
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, apperror.ErrInsufficientFunds
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось вывести средства")
	}
	return transaction, nil
}

// ListTransactions возвращает историю транзакций.
func (s *EarningsService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	limit, offset = clampPagination(limit, offset)

	transactions, err := s.repo.ListTransactions(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось получить транзакции")
	}
	return transactions, nil
}
