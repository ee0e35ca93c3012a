package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/gigmarket-backend/internal/models"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/validation"
)

// GigRepository описывает взаимодействие сервиса с хранилищем услуг.
type GigRepository interface {
	Create(ctx context.Context, gig *models.Gig) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error)
	List(ctx context.Context, limit, offset int) ([]models.Gig, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Gig, error)
	Update(ctx context.Context, gig *models.Gig) error
	Deactivate(ctx context.Context, id, freelancerID uuid.UUID) error
}

// GigService содержит бизнес-логику работы с услугами.
type GigService struct {
	repo GigRepository
}

// NewGigService создаёт сервис услуг.
func NewGigService(repo GigRepository) *GigService {
	return &GigService{repo: repo}
}

// GigInput описывает входные данные создания и обновления услуги.
type GigInput struct {
	FreelancerID uuid.UUID
	Title        string
	Description  string
	Price        decimal.Decimal
	CoverMediaID *uuid.UUID
	IsActive     bool
}

func validateGigInput(in GigInput) error {
	if err := validation.ValidateLength("заголовок", in.Title, validation.MinGigTitleLength, validation.MaxGigTitleLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("описание", in.Description, validation.MinGigDescriptionLength, validation.MaxGigDescriptionLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePrice("цена", in.Price); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	return nil
}

// CreateGig создаёт услугу.
func (s *GigService) CreateGig(ctx context.Context, in GigInput) (*models.Gig, error) {
	if err := validateGigInput(in); err != nil {
		return nil, err
	}

	gig := &models.Gig{
		FreelancerID: in.FreelancerID,
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price,
		CoverMediaID: in.CoverMediaID,
	}
	if err := s.repo.Create(ctx, gig); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось создать услугу")
	}
	return gig, nil
}

// UpdateGig обновляет услугу владельца.
func (s *GigService) UpdateGig(ctx context.Context, gigID uuid.UUID, in GigInput) (*models.Gig, error) {
	if err := validateGigInput(in); err != nil {
		return nil, err
	}

	gig := &models.Gig{
		ID:           gigID,
		FreelancerID: in.FreelancerID,
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price,
		CoverMediaID: in.CoverMediaID,
		IsActive:     in.IsActive,
	}
	if err := s.repo.Update(ctx, gig); err != nil {
		return nil, mapGigError(err)
	}
	return gig, nil
}

// DeactivateGig снимает услугу с публикации.
func (s *GigService) DeactivateGig(ctx context.Context, gigID, freelancerID uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, gigID, freelancerID); err != nil {
		return mapGigError(err)
	}
	return nil
}

// GetGig возвращает услугу по идентификатору.
func (s *GigService) GetGig(ctx context.Context, gigID uuid.UUID) (*models.Gig, error) {
	gig, err := s.repo.GetByID(ctx, gigID)
	if err != nil {
		return nil, mapGigError(err)
	}
	return gig, nil
}

// ListGigs возвращает активные услуги.
func (s *GigService) ListGigs(ctx context.Context, limit, offset int) ([]models.Gig, error) {
	limit, offset = clampPagination(limit, offset)

	gigs, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось получить услуги")
	}
	return gigs, nil
}

// ListMyGigs возвращает услуги фрилансера, включая неактивные.
func (s *GigService) ListMyGigs(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Gig, error) {
	limit, offset = clampPagination(limit, offset)

	gigs, err := s.repo.ListByFreelancer(ctx, freelancerID, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось получить услуги")
	}
	return gigs, nil
}

func mapGigError(err error) error {
	switch {
	case errors.Is(err, repository.ErrGigNotFound):
		return apperror.ErrGigNotFound
	case errors.Is(err, repository.ErrNotOwner):
		return apperror.ErrForbidden
	default:
		return apperror.Wrap(err, apperror.ErrCodeInternal, "операция с услугой не выполнена")
	}
}
