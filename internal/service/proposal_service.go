package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/gigmarket-backend/internal/models"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/validation"
)

// ProposalRepository описывает взаимодействие сервиса с хранилищем предложений.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.Proposal, mediaIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Proposal, error)
	ListForClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]models.Proposal, error)
	ListForFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Proposal, error)
	Accept(ctx context.Context, proposalID, freelancerID uuid.UUID) (*models.Order, error)
	UpdateStatusTerminal(ctx context.Context, proposalID, actorID uuid.UUID, actorIsClient bool, status string) (*models.Proposal, error)
}

// GigReader описывает минимальный контракт получения услуг.
type GigReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error)
}

// ProposalService реализует жизненный цикл предложения: подача клиентом,
// принятие, отклонение исполнителем, отмена клиентом.
type ProposalService struct {
	repo  ProposalRepository
	gigs  GigReader
	media MediaCounter
}

// NewProposalService создаёт сервис предложений.
func NewProposalService(repo ProposalRepository, gigs GigReader, media MediaCounter) *ProposalService {
	return &ProposalService{repo: repo, gigs: gigs, media: media}
}

// SubmitProposalInput описывает входные данные подачи предложения.
// OfferedPrice nil означает согласие с ценой услуги.
type SubmitProposalInput struct {
	GigID        uuid.UUID
	ClientID     uuid.UUID
	OfferedPrice *decimal.Decimal
	Message      string
	MediaIDs     []uuid.UUID
}

// ProposalActionResult итог действия над предложением: для accept
// заполнен созданный заказ, для reject/cancel — обновлённое предложение.
type ProposalActionResult struct {
	Proposal *models.Proposal `json:"proposal,omitempty"`
	Order    *models.Order    `json:"order,omitempty"`
}

// SubmitProposal создаёт предложение в статусе pending. Цена по умолчанию
// берётся из услуги; приложенные изображения должны быть загружены заранее.
func (s *ProposalService) SubmitProposal(ctx context.Context, in SubmitProposalInput) (*models.Proposal, error) {
	if in.GigID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "не указана услуга")
	}
	if in.OfferedPrice != nil {
		if err := validation.ValidatePrice("предложенная цена", *in.OfferedPrice); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}
	if err := validation.ValidateLength("сообщение", in.Message, 0, validation.MaxProposalMessageLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if len(in.MediaIDs) > validation.MaxProposalImages {
		return nil, apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("не более %d изображений", validation.MaxProposalImages))
	}

	if len(in.MediaIDs) > 0 {
		count, err := s.media.CountByIDs(ctx, in.MediaIDs)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось проверить изображения")
		}
		if count != len(in.MediaIDs) {
			return nil, apperror.New(apperror.ErrCodeValidation, "часть изображений не загружена")
		}
	}

	gig, err := s.gigs.GetByID(ctx, in.GigID)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperror.New(apperror.ErrCodeValidation, "услуга не найдена")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось получить услугу")
	}
	if !gig.IsActive {
		return nil, apperror.New(apperror.ErrCodeValidation, "услуга снята с публикации")
	}
	if gig.FreelancerID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "у услуги не указан исполнитель")
	}
	if gig.FreelancerID == in.ClientID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя отправить предложение на собственную услугу")
	}

	offered := gig.Price
	if in.OfferedPrice != nil {
		offered = *in.OfferedPrice
	}

	proposal := &models.Proposal{
		GigID:        in.GigID,
		ClientID:     in.ClientID,
		FreelancerID: gig.FreelancerID,
		OfferedPrice: offered,
		Message:      in.Message,
		Status:       models.ProposalStatusPending,
	}

	if err := s.repo.Create(ctx, proposal, in.MediaIDs); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось создать предложение")
	}

	return proposal, nil
}

// ActOnProposal выполняет действие над pending предложением.
// accept и reject доступны исполнителю, cancel — клиенту; действие над
// предложением вне pending отклоняется как недопустимый переход.
func (s *ProposalService) ActOnProposal(ctx context.Context, proposalID, actorID uuid.UUID, action string) (*ProposalActionResult, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case models.ProposalActionAccept:
		order, err := s.repo.Accept(ctx, proposalID, actorID)
		if err != nil {
			return nil, mapProposalError(err)
		}
		return &ProposalActionResult{Order: order}, nil

	case models.ProposalActionReject:
		proposal, err := s.repo.UpdateStatusTerminal(ctx, proposalID, actorID, false, models.ProposalStatusDeclined)
		if err != nil {
			return nil, mapProposalError(err)
		}
		return &ProposalActionResult{Proposal: proposal}, nil

	case models.ProposalActionCancel:
		proposal, err := s.repo.UpdateStatusTerminal(ctx, proposalID, actorID, true, models.ProposalStatusCancelled)
		if err != nil {
			return nil, mapProposalError(err)
		}
		return &ProposalActionResult{Proposal: proposal}, nil

	default:
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("неизвестное действие %q", action))
	}
}

// GetProposal возвращает предложение участника.
func (s *ProposalService) GetProposal(ctx context.Context, proposalID, userID uuid.UUID) (*models.Proposal, error) {
	proposal, err := s.repo.GetByIDForUser(ctx, proposalID, userID)
	if err != nil {
		return nil, mapProposalError(err)
	}
	return proposal, nil
}

// ListMyProposals возвращает предложения пользователя в зависимости от роли.
func (s *ProposalService) ListMyProposals(ctx context.Context, userID uuid.UUID, role string, limit, offset int) ([]models.Proposal, error) {
	limit, offset = clampPagination(limit, offset)

	var (
		proposals []models.Proposal
		err       error
	)
	if role == models.RoleFreelancer {
		proposals, err = s.repo.ListForFreelancer(ctx, userID, limit, offset)
	} else {
		proposals, err = s.repo.ListForClient(ctx, userID, limit, offset)
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось получить предложения")
	}
	return proposals, nil
}

// mapProposalError переводит ошибки хранилища в таксономию приложения.
func mapProposalError(err error) error {
	switch {
	case errors.Is(err, repository.ErrProposalNotFound):
		return apperror.ErrProposalNotFound
	case errors.Is(err, repository.ErrNotOwner):
		return apperror.ErrForbidden
	case errors.Is(err, repository.ErrProposalNotPending):
		return apperror.New(apperror.ErrCodeInvalidState, "предложение уже обработано")
	default:
		return apperror.Wrap(err, apperror.ErrCodeInternal, "операция с предложением не выполнена")
	}
}

// clampPagination приводит limit и offset к допустимым значениям.
func clampPagination(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
