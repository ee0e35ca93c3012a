package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/gigmarket-backend/internal/models"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/repository"
)

type mockEarningsRepo struct {
	mock.Mock
}

func (m *mockEarningsRepo) GetOrCreate(ctx context.Context, freelancerID uuid.UUID) (*models.Earnings, error) {
	args := m.Called(ctx, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Earnings), args.Error(1)
}

func (m *mockEarningsRepo) Withdraw(ctx context.Context, freelancerID uuid.UUID, amount decimal.Decimal, description string) (*models.Transaction, error) {
	args := m.Called(ctx, freelancerID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockEarningsRepo) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func TestEarningsService_GetEarnings_CreatesZeroBalance(t *testing.T) {
	repo := new(mockEarningsRepo)
	svc := NewEarningsService(repo)
	ctx := context.Background()

	freelancerID := uuid.New()
	repo.On("GetOrCreate", ctx, freelancerID).Return(&models.Earnings{
		FreelancerID:  freelancerID,
		PendingAmount: decimal.Zero,
		TotalBalance:  decimal.Zero,
		Withdrawn:     decimal.Zero,
	}, nil)

	earnings, err := svc.GetEarnings(ctx, freelancerID)

	assert.NoError(t, err)
	assert.True(t, earnings.PendingAmount.IsZero())
	assert.True(t, earnings.TotalBalance.IsZero())
	assert.True(t, earnings.Withdrawn.IsZero())
}

func TestEarningsService_Withdraw_Success(t *testing.T) {
	repo := new(mockEarningsRepo)
	svc := NewEarningsService(repo)
	ctx := context.Background()

	freelancerID := uuid.New()
	amount := decimal.NewFromFloat(150.50)

	repo.On("Withdraw", ctx, freelancerID, amount, "Вывод средств").Return(&models.Transaction{
		ID:     uuid.New(),
		UserID: freelancerID,
		Type:   models.TransactionTypeWithdrawal,
		Amount: amount,
		Status: models.TransactionStatusCompleted,
	}, nil)

	transaction, err := svc.Withdraw(ctx, freelancerID, amount)

	assert.NoError(t, err)
	assert.Equal(t, models.TransactionTypeWithdrawal, transaction.Type)
	assert.True(t, transaction.Amount.Equal(amount))
}

func TestEarningsService_Withdraw_InsufficientFunds(t *testing.T) {
	repo := new(mockEarningsRepo)
	svc := NewEarningsService(repo)
	ctx := context.Background()

	freelancerID := uuid.New()
	amount := decimal.NewFromInt(1000)

	repo.On("Withdraw", ctx, freelancerID, amount, "Вывод средств").
		Return(nil, repository.ErrInsufficientFunds)

	_, err := svc.Withdraw(ctx, freelancerID, amount)

	assert.Error(t, err)
	assert.True(t, apperror.IsInsufficientFunds(err))
}

func TestEarningsService_Withdraw_NonPositiveAmount(t *testing.T) {
	repo := new(mockEarningsRepo)
	svc := NewEarningsService(repo)
	ctx := context.Background()

	_, err := svc.Withdraw(ctx, uuid.New(), decimal.Zero)
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Withdraw(ctx, uuid.New(), decimal.NewFromInt(-5))
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	repo.AssertNotCalled(t, "Withdraw")
}

func TestEarningsService_ListTransactions(t *testing.T) {
	repo := new(mockEarningsRepo)
	svc := NewEarningsService(repo)
	ctx := context.Background()

	userID := uuid.New()
	repo.On("ListTransactions", ctx, userID, 20, 0).Return([]models.Transaction{
		{ID: uuid.New(), Type: models.TransactionTypeIncome},
		{ID: uuid.New(), Type: models.TransactionTypeWithdrawal},
	}, nil)

	transactions, err := svc.ListTransactions(ctx, userID, 0, -5)

	assert.NoError(t, err)
	assert.Len(t, transactions, 2)
}
