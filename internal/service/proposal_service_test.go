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

type mockProposalRepo struct {
	mock.Mock
}

func (m *mockProposalRepo) Create(ctx context.Context, proposal *models.Proposal, mediaIDs []uuid.UUID) error {
	args := m.Called(ctx, proposal, mediaIDs)
	if args.Error(0) == nil {
		proposal.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockProposalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *mockProposalRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Proposal, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *mockProposalRepo) ListForClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]models.Proposal, error) {
	args := m.Called(ctx, clientID, limit, offset)
	return args.Get(0).([]models.Proposal), args.Error(1)
}

func (m *mockProposalRepo) ListForFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Proposal, error) {
	args := m.Called(ctx, freelancerID, limit, offset)
	return args.Get(0).([]models.Proposal), args.Error(1)
}

func (m *mockProposalRepo) Accept(ctx context.Context, proposalID, freelancerID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, proposalID, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockProposalRepo) UpdateStatusTerminal(ctx context.Context, proposalID, actorID uuid.UUID, actorIsClient bool, status string) (*models.Proposal, error) {
	args := m.Called(ctx, proposalID, actorID, actorIsClient, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

type mockGigReader struct {
	mock.Mock
}

func (m *mockGigReader) GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gig), args.Error(1)
}

func TestProposalService_SubmitProposal_Success(t *testing.T) {
	repo := new(mockProposalRepo)
	gigs := new(mockGigReader)
	svc := NewProposalService(repo, gigs, new(mockMediaCounter))
	ctx := context.Background()

	gigID := uuid.New()
	clientID := uuid.New()
	freelancerID := uuid.New()

	gigs.On("GetByID", ctx, gigID).Return(&models.Gig{
		ID:           gigID,
		FreelancerID: freelancerID,
		IsActive:     true,
		Price:        decimal.NewFromInt(100),
	}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Proposal"), []uuid.UUID(nil)).Return(nil)

	offered := decimal.NewFromInt(120)
	proposal, err := svc.SubmitProposal(ctx, SubmitProposalInput{
		GigID:        gigID,
		ClientID:     clientID,
		OfferedPrice: &offered,
		Message:      "Нужен логотип для кофейни",
	})

	assert.NoError(t, err)
	assert.NotNil(t, proposal)
	assert.Equal(t, models.ProposalStatusPending, proposal.Status)
	assert.Equal(t, freelancerID, proposal.FreelancerID)
	assert.True(t, proposal.OfferedPrice.Equal(decimal.NewFromInt(120)))
}

func TestProposalService_SubmitProposal_OwnGig(t *testing.T) {
	repo := new(mockProposalRepo)
	gigs := new(mockGigReader)
	svc := NewProposalService(repo, gigs, new(mockMediaCounter))
	ctx := context.Background()

	gigID := uuid.New()
	ownerID := uuid.New()

	gigs.On("GetByID", ctx, gigID).Return(&models.Gig{
		ID:           gigID,
		FreelancerID: ownerID,
		IsActive:     true,
	}, nil)

	offered := decimal.NewFromInt(50)
	_, err := svc.SubmitProposal(ctx, SubmitProposalInput{
		GigID:        gigID,
		ClientID:     ownerID,
		OfferedPrice: &offered,
		Message:      "тест",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "Create")
}

func TestProposalService_SubmitProposal_InactiveGig(t *testing.T) {
	repo := new(mockProposalRepo)
	gigs := new(mockGigReader)
	svc := NewProposalService(repo, gigs, new(mockMediaCounter))
	ctx := context.Background()

	gigID := uuid.New()
	gigs.On("GetByID", ctx, gigID).Return(&models.Gig{
		ID:           gigID,
		FreelancerID: uuid.New(),
		IsActive:     false,
	}, nil)

	offered := decimal.NewFromInt(50)
	_, err := svc.SubmitProposal(ctx, SubmitProposalInput{
		GigID:        gigID,
		ClientID:     uuid.New(),
		OfferedPrice: &offered,
		Message:      "тест",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestProposalService_SubmitProposal_NegativePrice(t *testing.T) {
	repo := new(mockProposalRepo)
	gigs := new(mockGigReader)
	svc := NewProposalService(repo, gigs, new(mockMediaCounter))
	ctx := context.Background()

	offered := decimal.NewFromInt(-10)
	_, err := svc.SubmitProposal(ctx, SubmitProposalInput{
		GigID:        uuid.New(),
		ClientID:     uuid.New(),
		OfferedPrice: &offered,
		Message:      "тест",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	gigs.AssertNotCalled(t, "GetByID")
}

func TestProposalService_SubmitProposal_DefaultPriceFromGig(t *testing.T) {
	repo := new(mockProposalRepo)
	gigs := new(mockGigReader)
	svc := NewProposalService(repo, gigs, new(mockMediaCounter))
	ctx := context.Background()

	gigID := uuid.New()
	gigPrice := decimal.NewFromInt(350)

	gigs.On("GetByID", ctx, gigID).Return(&models.Gig{
		ID:           gigID,
		FreelancerID: uuid.New(),
		IsActive:     true,
		Price:        gigPrice,
	}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Proposal"), []uuid.UUID(nil)).Return(nil)

	proposal, err := svc.SubmitProposal(ctx, SubmitProposalInput{
		GigID:    gigID,
		ClientID: uuid.New(),
		Message:  "Согласен с условиями",
	})

	assert.NoError(t, err)
	assert.True(t, proposal.OfferedPrice.Equal(gigPrice),
		"без явной цены предложение получает цену услуги")
}

func TestProposalService_SubmitProposal_WithImages(t *testing.T) {
	repo := new(mockProposalRepo)
	gigs := new(mockGigReader)
	media := new(mockMediaCounter)
	svc := NewProposalService(repo, gigs, media)
	ctx := context.Background()

	gigID := uuid.New()
	mediaIDs := []uuid.UUID{uuid.New(), uuid.New()}

	media.On("CountByIDs", ctx, mediaIDs).Return(2, nil)
	gigs.On("GetByID", ctx, gigID).Return(&models.Gig{
		ID:           gigID,
		FreelancerID: uuid.New(),
		IsActive:     true,
		Price:        decimal.NewFromInt(100),
	}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Proposal"), mediaIDs).Return(nil)

	proposal, err := svc.SubmitProposal(ctx, SubmitProposalInput{
		GigID:    gigID,
		ClientID: uuid.New(),
		Message:  "Примеры во вложении",
		MediaIDs: mediaIDs,
	})

	assert.NoError(t, err)
	assert.NotNil(t, proposal)
	repo.AssertExpectations(t)
}

func TestProposalService_SubmitProposal_MissingImage(t *testing.T) {
	repo := new(mockProposalRepo)
	gigs := new(mockGigReader)
	media := new(mockMediaCounter)
	svc := NewProposalService(repo, gigs, media)
	ctx := context.Background()

	mediaIDs := []uuid.UUID{uuid.New(), uuid.New()}
	media.On("CountByIDs", ctx, mediaIDs).Return(1, nil)

	_, err := svc.SubmitProposal(ctx, SubmitProposalInput{
		GigID:    uuid.New(),
		ClientID: uuid.New(),
		Message:  "тест",
		MediaIDs: mediaIDs,
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "Create")
}

func TestProposalService_ActOnProposal_AcceptCreatesOrder(t *testing.T) {
	repo := new(mockProposalRepo)
	gigs := new(mockGigReader)
	svc := NewProposalService(repo, gigs, new(mockMediaCounter))
	ctx := context.Background()

	proposalID := uuid.New()
	freelancerID := uuid.New()
	order := &models.Order{
		ID:           uuid.New(),
		ProposalID:   &proposalID,
		FreelancerID: freelancerID,
		TotalPrice:   decimal.NewFromInt(200),
		Status:       models.OrderStatusInProgress,
	}

	repo.On("Accept", ctx, proposalID, freelancerID).Return(order, nil)

	result, err := svc.ActOnProposal(ctx, proposalID, freelancerID, "accept")

	assert.NoError(t, err)
	assert.NotNil(t, result.Order)
	assert.Nil(t, result.Proposal)
	assert.Equal(t, models.OrderStatusInProgress, result.Order.Status)
}

func TestProposalService_ActOnProposal_RejectByFreelancer(t *testing.T) {
	repo := new(mockProposalRepo)
	gigs := new(mockGigReader)
	svc := NewProposalService(repo, gigs, new(mockMediaCounter))
	ctx := context.Background()

	proposalID := uuid.New()
	freelancerID := uuid.New()
	declined := &models.Proposal{ID: proposalID, Status: models.ProposalStatusDeclined}

	repo.On("UpdateStatusTerminal", ctx, proposalID, freelancerID, false, models.ProposalStatusDeclined).
		Return(declined, nil)

	result, err := svc.ActOnProposal(ctx, proposalID, freelancerID, "reject")

	assert.NoError(t, err)
	assert.Equal(t, models.ProposalStatusDeclined, result.Proposal.Status)
}

func TestProposalService_ActOnProposal_CancelByClient(t *testing.T) {
	repo := new(mockProposalRepo)
	gigs := new(mockGigReader)
	svc := NewProposalService(repo, gigs, new(mockMediaCounter))
	ctx := context.Background()

	proposalID := uuid.New()
	clientID := uuid.New()
	cancelled := &models.Proposal{ID: proposalID, Status: models.ProposalStatusCancelled}

	repo.On("UpdateStatusTerminal", ctx, proposalID, clientID, true, models.ProposalStatusCancelled).
		Return(cancelled, nil)

	result, err := svc.ActOnProposal(ctx, proposalID, clientID, "cancel")

	assert.NoError(t, err)
	assert.Equal(t, models.ProposalStatusCancelled, result.Proposal.Status)
}

func TestProposalService_ActOnProposal_AlreadyProcessed(t *testing.T) {
	repo := new(mockProposalRepo)
	gigs := new(mockGigReader)
	svc := NewProposalService(repo, gigs, new(mockMediaCounter))
	ctx := context.Background()

	proposalID := uuid.New()
	freelancerID := uuid.New()

	repo.On("Accept", ctx, proposalID, freelancerID).Return(nil, repository.ErrProposalNotPending)

	_, err := svc.ActOnProposal(ctx, proposalID, freelancerID, "accept")

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestProposalService_ActOnProposal_NotOwner(t *testing.T) {
	repo := new(mockProposalRepo)
	gigs := new(mockGigReader)
	svc := NewProposalService(repo, gigs, new(mockMediaCounter))
	ctx := context.Background()

	proposalID := uuid.New()
	strangerID := uuid.New()

	repo.On("Accept", ctx, proposalID, strangerID).Return(nil, repository.ErrNotOwner)

	_, err := svc.ActOnProposal(ctx, proposalID, strangerID, "accept")

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestProposalService_ActOnProposal_UnknownAction(t *testing.T) {
	repo := new(mockProposalRepo)
	gigs := new(mockGigReader)
	svc := NewProposalService(repo, gigs, new(mockMediaCounter))
	ctx := context.Background()

	_, err := svc.ActOnProposal(ctx, uuid.New(), uuid.New(), "approve")

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "Accept")
	repo.AssertNotCalled(t, "UpdateStatusTerminal")
}

func TestProposalService_ListMyProposals_ByRole(t *testing.T) {
	repo := new(mockProposalRepo)
	gigs := new(mockGigReader)
	svc := NewProposalService(repo, gigs, new(mockMediaCounter))
	ctx := context.Background()

	userID := uuid.New()
	repo.On("ListForFreelancer", ctx, userID, 20, 0).Return([]models.Proposal{{ID: uuid.New()}}, nil)
	repo.On("ListForClient", ctx, userID, 20, 0).Return([]models.Proposal{}, nil)

	asFreelancer, err := svc.ListMyProposals(ctx, userID, models.RoleFreelancer, 0, 0)
	assert.NoError(t, err)
	assert.Len(t, asFreelancer, 1)

	asClient, err := svc.ListMyProposals(ctx, userID, models.RoleClient, 0, 0)
	assert.NoError(t, err)
	assert.Len(t, asClient, 0)
}
