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

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListForClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]models.Order, error) {
	args := m.Called(ctx, clientID, limit, offset)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListForFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	args := m.Called(ctx, freelancerID, limit, offset)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) SubmitProof(ctx context.Context, orderID, freelancerID uuid.UUID, description string, externalLink *string, mediaIDs []uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID, freelancerID, description, externalLink, mediaIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) GetProof(ctx context.Context, orderID uuid.UUID) (*models.OrderProof, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderProof), args.Error(1)
}

func (m *mockOrderRepo) RejectReview(ctx context.Context, orderID, clientID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) Complete(ctx context.Context, orderID uuid.UUID, requiredStatus string) (*models.Order, error) {
	args := m.Called(ctx, orderID, requiredStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) Cancel(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type mockMediaCounter struct {
	mock.Mock
}

func (m *mockMediaCounter) CountByIDs(ctx context.Context, ids []uuid.UUID) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

func TestOrderService_SubmitProof_Success(t *testing.T) {
	repo := new(mockOrderRepo)
	media := new(mockMediaCounter)
	svc := NewOrderService(repo, media)
	ctx := context.Background()

	orderID := uuid.New()
	freelancerID := uuid.New()
	mediaIDs := []uuid.UUID{uuid.New(), uuid.New()}
	submitted := &models.Order{ID: orderID, Status: models.OrderStatusSubmitted}

	media.On("CountByIDs", ctx, mediaIDs).Return(2, nil)
	repo.On("SubmitProof", ctx, orderID, freelancerID, "Готовые макеты во вложении", (*string)(nil), mediaIDs).
		Return(submitted, nil)

	order, err := svc.SubmitProof(ctx, SubmitProofInput{
		OrderID:      orderID,
		FreelancerID: freelancerID,
		Description:  "Готовые макеты во вложении",
		MediaIDs:     mediaIDs,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusSubmitted, order.Status)
}

func TestOrderService_SubmitProof_MissingImage(t *testing.T) {
	repo := new(mockOrderRepo)
	media := new(mockMediaCounter)
	svc := NewOrderService(repo, media)
	ctx := context.Background()

	mediaIDs := []uuid.UUID{uuid.New(), uuid.New()}
	media.On("CountByIDs", ctx, mediaIDs).Return(1, nil)

	_, err := svc.SubmitProof(ctx, SubmitProofInput{
		OrderID:      uuid.New(),
		FreelancerID: uuid.New(),
		Description:  "результат",
		MediaIDs:     mediaIDs,
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "SubmitProof")
}

func TestOrderService_SubmitProof_EmptyDescription(t *testing.T) {
	repo := new(mockOrderRepo)
	media := new(mockMediaCounter)
	svc := NewOrderService(repo, media)
	ctx := context.Background()

	_, err := svc.SubmitProof(ctx, SubmitProofInput{
		OrderID:      uuid.New(),
		FreelancerID: uuid.New(),
		Description:  "   ",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestOrderService_SubmitProof_WrongStatus(t *testing.T) {
	repo := new(mockOrderRepo)
	media := new(mockMediaCounter)
	svc := NewOrderService(repo, media)
	ctx := context.Background()

	orderID := uuid.New()
	freelancerID := uuid.New()

	repo.On("SubmitProof", ctx, orderID, freelancerID, "результат", (*string)(nil), []uuid.UUID(nil)).
		Return(nil, repository.ErrOrderStateConflict)

	_, err := svc.SubmitProof(ctx, SubmitProofInput{
		OrderID:      orderID,
		FreelancerID: freelancerID,
		Description:  "результат",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestOrderService_ReviewOrder_AcceptCompletes(t *testing.T) {
	repo := new(mockOrderRepo)
	media := new(mockMediaCounter)
	svc := NewOrderService(repo, media)
	ctx := context.Background()

	orderID := uuid.New()
	clientID := uuid.New()
	submitted := &models.Order{ID: orderID, ClientID: clientID, Status: models.OrderStatusSubmitted}
	completed := &models.Order{ID: orderID, ClientID: clientID, Status: models.OrderStatusCompleted}

	repo.On("GetByID", ctx, orderID).Return(submitted, nil)
	repo.On("Complete", ctx, orderID, models.OrderStatusSubmitted).Return(completed, nil)

	order, err := svc.ReviewOrder(ctx, orderID, clientID, "accept")

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
}

func TestOrderService_ReviewOrder_AcceptByStranger(t *testing.T) {
	repo := new(mockOrderRepo)
	media := new(mockMediaCounter)
	svc := NewOrderService(repo, media)
	ctx := context.Background()

	orderID := uuid.New()
	order := &models.Order{ID: orderID, ClientID: uuid.New(), Status: models.OrderStatusSubmitted}

	repo.On("GetByID", ctx, orderID).Return(order, nil)

	_, err := svc.ReviewOrder(ctx, orderID, uuid.New(), "accept")

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "Complete")
}

func TestOrderService_ReviewOrder_RejectReopens(t *testing.T) {
	repo := new(mockOrderRepo)
	media := new(mockMediaCounter)
	svc := NewOrderService(repo, media)
	ctx := context.Background()

	orderID := uuid.New()
	clientID := uuid.New()
	reopened := &models.Order{ID: orderID, ClientID: clientID, Status: models.OrderStatusInProgress}

	repo.On("RejectReview", ctx, orderID, clientID).Return(reopened, nil)

	order, err := svc.ReviewOrder(ctx, orderID, clientID, "reject")

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusInProgress, order.Status)
}

func TestOrderService_UpdateOrderStatus_Complete(t *testing.T) {
	repo := new(mockOrderRepo)
	media := new(mockMediaCounter)
	svc := NewOrderService(repo, media)
	ctx := context.Background()

	orderID := uuid.New()
	freelancerID := uuid.New()
	inProgress := &models.Order{
		ID:           orderID,
		FreelancerID: freelancerID,
		TotalPrice:   decimal.NewFromInt(300),
		Status:       models.OrderStatusInProgress,
	}
	completed := &models.Order{ID: orderID, FreelancerID: freelancerID, Status: models.OrderStatusCompleted}

	repo.On("GetByID", ctx, orderID).Return(inProgress, nil)
	repo.On("Complete", ctx, orderID, "").Return(completed, nil)

	order, err := svc.UpdateOrderStatus(ctx, orderID, freelancerID, "completed")

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
}

func TestOrderService_UpdateOrderStatus_AlreadyCompleted(t *testing.T) {
	repo := new(mockOrderRepo)
	media := new(mockMediaCounter)
	svc := NewOrderService(repo, media)
	ctx := context.Background()

	orderID := uuid.New()
	freelancerID := uuid.New()
	completed := &models.Order{ID: orderID, FreelancerID: freelancerID, Status: models.OrderStatusCompleted}

	repo.On("GetByID", ctx, orderID).Return(completed, nil)

	_, err := svc.UpdateOrderStatus(ctx, orderID, freelancerID, "completed")

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
	repo.AssertNotCalled(t, "Complete")
}

func TestOrderService_UpdateOrderStatus_TerminalGuard(t *testing.T) {
	repo := new(mockOrderRepo)
	media := new(mockMediaCounter)
	svc := NewOrderService(repo, media)
	ctx := context.Background()

	orderID := uuid.New()
	freelancerID := uuid.New()
	cancelled := &models.Order{ID: orderID, FreelancerID: freelancerID, Status: models.OrderStatusCancelled}

	repo.On("GetByID", ctx, orderID).Return(cancelled, nil)
	repo.On("Complete", ctx, orderID, "").Return(nil, repository.ErrOrderStateConflict)

	_, err := svc.UpdateOrderStatus(ctx, orderID, freelancerID, "completed")

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestOrderService_UpdateOrderStatus_InvalidTarget(t *testing.T) {
	repo := new(mockOrderRepo)
	media := new(mockMediaCounter)
	svc := NewOrderService(repo, media)
	ctx := context.Background()

	_, err := svc.UpdateOrderStatus(ctx, uuid.New(), uuid.New(), "submitted")

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "GetByID")
}

func TestOrderService_GetProof_NotParticipant(t *testing.T) {
	repo := new(mockOrderRepo)
	media := new(mockMediaCounter)
	svc := NewOrderService(repo, media)
	ctx := context.Background()

	orderID := uuid.New()
	strangerID := uuid.New()

	repo.On("GetByIDForUser", ctx, orderID, strangerID).Return(nil, repository.ErrNotOwner)

	_, err := svc.GetProof(ctx, orderID, strangerID)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "GetProof")
}
