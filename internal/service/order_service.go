package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/gigmarket-backend/internal/models"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/validation"
)

// OrderRepository описывает взаимодействие сервиса с хранилищем заказов.
type OrderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	ListForClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]models.Order, error)
	ListForFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Order, error)
	SubmitProof(ctx context.Context, orderID, freelancerID uuid.UUID, description string, externalLink *string, mediaIDs []uuid.UUID) (*models.Order, error)
	GetProof(ctx context.Context, orderID uuid.UUID) (*models.OrderProof, error)
	RejectReview(ctx context.Context, orderID, clientID uuid.UUID) (*models.Order, error)
	Complete(ctx context.Context, orderID uuid.UUID, requiredStatus string) (*models.Order, error)
	Cancel(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

// MediaCounter проверяет существование загруженных файлов.
type MediaCounter interface {
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int, error)
}

// OrderService реализует жизненный цикл заказа после принятия предложения:
// сдача работы, проверка клиентом, завершение и отмена.
type OrderService struct {
	repo  OrderRepository
	media MediaCounter
}

// NewOrderService создаёт сервис заказов.
func NewOrderService(repo OrderRepository, media MediaCounter) *OrderService {
	return &OrderService{repo: repo, media: media}
}

// SubmitProofInput описывает входные данные сдачи работы.
type SubmitProofInput struct {
	OrderID      uuid.UUID
	FreelancerID uuid.UUID
	Description  string
	ExternalLink *string
	MediaIDs     []uuid.UUID
}

// SubmitProof сохраняет подтверждение работы и переводит заказ в submitted.
// Изображения должны быть загружены заранее: проверяется, что все ссылки
// существуют, до начала транзакции перехода — заказ не может оказаться
// сданным без приложенного результата.
func (s *OrderService) SubmitProof(ctx context.Context, in SubmitProofInput) (*models.Order, error) {
	if err := validation.ValidateNonEmpty("описание результата", in.Description); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("описание результата", in.Description, 0, validation.MaxProofDescriptionLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if in.ExternalLink != nil {
		if err := validation.ValidateExternalLink(*in.ExternalLink); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}
	if len(in.MediaIDs) > validation.MaxProofImages {
		return nil, apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("не более %d изображений", validation.MaxProofImages))
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

	order, err := s.repo.SubmitProof(ctx, in.OrderID, in.FreelancerID, in.Description, in.ExternalLink, in.MediaIDs)
	if err != nil {
		return nil, mapOrderError(err)
	}
	return order, nil
}

// ReviewOrder обрабатывает решение клиента по сданной работе.
// accept завершает заказ с расчётом, reject возвращает его в работу
// и удаляет подтверждение.
func (s *OrderService) ReviewOrder(ctx context.Context, orderID, clientID uuid.UUID, action string) (*models.Order, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case models.ReviewActionAccept:
		order, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return nil, mapOrderError(err)
		}
		if order.ClientID != clientID {
			return nil, apperror.ErrForbidden
		}
		order, err = s.repo.Complete(ctx, orderID, models.OrderStatusSubmitted)
		if err != nil {
			return nil, mapOrderError(err)
		}
		return order, nil

	case models.ReviewActionReject:
		order, err := s.repo.RejectReview(ctx, orderID, clientID)
		if err != nil {
			return nil, mapOrderError(err)
		}
		return order, nil

	default:
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("неизвестное действие %q", action))
	}
}

// UpdateOrderStatus выполняет перевод заказа исполнителем в completed или
// cancelled. Завершение рассчитывает заработок; повторное завершение или
// отмена завершённого заказа отклоняются.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID, freelancerID uuid.UUID, status string) (*models.Order, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != models.OrderStatusCompleted && status != models.OrderStatusCancelled {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("недопустимый статус %q", status))
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapOrderError(err)
	}
	if order.FreelancerID != freelancerID {
		return nil, apperror.ErrForbidden
	}
	if order.Status == status {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "заказ уже находится в этом статусе")
	}

	if status == models.OrderStatusCompleted {
		order, err = s.repo.Complete(ctx, orderID, "")
	} else {
		order, err = s.repo.Cancel(ctx, orderID)
	}
	if err != nil {
		return nil, mapOrderError(err)
	}
	return order, nil
}

// GetOrder возвращает заказ участника.
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, mapOrderError(err)
	}
	return order, nil
}

// GetProof возвращает подтверждение по заказу участника.
func (s *OrderService) GetProof(ctx context.Context, orderID, userID uuid.UUID) (*models.OrderProof, error) {
	if _, err := s.repo.GetByIDForUser(ctx, orderID, userID); err != nil {
		return nil, mapOrderError(err)
	}
	proof, err := s.repo.GetProof(ctx, orderID)
	if err != nil {
		return nil, mapOrderError(err)
	}
	return proof, nil
}

// ListMyOrders возвращает заказы пользователя в зависимости от роли.
func (s *OrderService) ListMyOrders(ctx context.Context, userID uuid.UUID, role string, limit, offset int) ([]models.Order, error) {
	limit, offset = clampPagination(limit, offset)

	var (
		orders []models.Order
		err    error
	)
	if role == models.RoleFreelancer {
		orders, err = s.repo.ListForFreelancer(ctx, userID, limit, offset)
	} else {
		orders, err = s.repo.ListForClient(ctx, userID, limit, offset)
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось получить заказы")
	}
	return orders, nil
}

// mapOrderError переводит ошибки хранилища в таксономию приложения.
func mapOrderError(err error) error {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		return apperror.ErrOrderNotFound
	case errors.Is(err, repository.ErrProofNotFound):
		return apperror.ErrProofNotFound
	case errors.Is(err, repository.ErrNotOwner):
		return apperror.ErrForbidden
	case errors.Is(err, repository.ErrOrderStateConflict):
		return apperror.New(apperror.ErrCodeInvalidState, "текущий статус заказа не допускает этот переход")
	default:
		return apperror.Wrap(err, apperror.ErrCodeInternal, "операция с заказом не выполнена")
	}
}
