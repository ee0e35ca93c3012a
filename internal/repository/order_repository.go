package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/gigmarket-backend/internal/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderStateConflict возвращается при попытке перехода из
	// статуса, который его не допускает.
	ErrOrderStateConflict = errors.New("order state does not permit transition")
	ErrProofNotFound      = errors.New("order proof not found")
)

// OrderRepository работает с заказами и выполняет многотабличные
// транзакции жизненного цикла: сдача работы, проверка клиентом,
// завершение с расчётом и отмена.
type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// GetByID возвращает заказ по идентификатору.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.GetContext(ctx, &order, `SELECT * FROM orders WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: get by id %w", err)
	}
	return &order, nil
}

// GetByIDForUser возвращает заказ, если пользователь — его клиент или
// исполнитель. Отличает отсутствие от чужой сущности.
func (r *OrderRepository) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.ClientID != userID && order.FreelancerID != userID {
		return nil, ErrNotOwner
	}
	return order, nil
}

// ListForClient возвращает заказы клиента.
func (r *OrderRepository) ListForClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.SelectContext(ctx, &orders, `
		SELECT * FROM orders WHERE client_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("order repository: list for client %w", err)
	}
	return orders, nil
}

// ListForFreelancer возвращает заказы исполнителя.
func (r *OrderRepository) ListForFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.SelectContext(ctx, &orders, `
		SELECT * FROM orders WHERE freelancer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, freelancerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("order repository: list for freelancer %w", err)
	}
	return orders, nil
}

// SubmitProof атомарно сохраняет подтверждение работы и переводит заказ
// в submitted. Повторная сдача заменяет предыдущее подтверждение (upsert);
// изображения перезаписываются целиком. Заказ блокируется FOR UPDATE.
func (r *OrderRepository) SubmitProof(ctx context.Context, orderID, freelancerID uuid.UUID, description string, externalLink *string, mediaIDs []uuid.UUID) (*models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var order models.Order
	err = tx.GetContext(ctx, &order, `SELECT * FROM orders WHERE id = $1 FOR UPDATE`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: submit proof lock %w", err)
	}
	if order.FreelancerID != freelancerID {
		return nil, ErrNotOwner
	}
	if order.Status != models.OrderStatusInProgress {
		return nil, ErrOrderStateConflict
	}

	var proofID uuid.UUID
	err = tx.GetContext(ctx, &proofID, `
		INSERT INTO order_proofs (order_id, description, external_link)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_id) DO UPDATE
		SET description = $2, external_link = $3, updated_at = NOW()
		RETURNING id
	`, orderID, description, externalLink)
	if err != nil {
		return nil, fmt.Errorf("order repository: submit proof upsert %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM order_proof_images WHERE proof_id = $1`, proofID); err != nil {
		return nil, fmt.Errorf("order repository: submit proof clear images %w", err)
	}
	for i, mediaID := range mediaIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_proof_images (proof_id, media_id, position) VALUES ($1, $2, $3)
		`, proofID, mediaID, i)
		if err != nil {
			return nil, fmt.Errorf("order repository: submit proof insert image %w", err)
		}
	}

	err = tx.GetContext(ctx, &order, `
		UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
		RETURNING *
	`, orderID, models.OrderStatusSubmitted)
	if err != nil {
		return nil, fmt.Errorf("order repository: submit proof update order %w", err)
	}

	err = createNotificationTx(ctx, tx, order.ClientID, "Работа сдана", "Исполнитель отправил результат на проверку", "/orders/"+order.ID.String())
	if err != nil {
		return nil, fmt.Errorf("order repository: submit proof create notification %w", err)
	}

	return &order, tx.Commit()
}

// GetProof возвращает подтверждение работы вместе с изображениями.
func (r *OrderRepository) GetProof(ctx context.Context, orderID uuid.UUID) (*models.OrderProof, error) {
	var proof models.OrderProof
	err := r.db.GetContext(ctx, &proof, `
		SELECT id, order_id, description, external_link, created_at, updated_at
		FROM order_proofs WHERE order_id = $1
	`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProofNotFound
		}
		return nil, fmt.Errorf("order repository: get proof %w", err)
	}

	err = r.db.SelectContext(ctx, &proof.Images, `
		SELECT * FROM order_proof_images WHERE proof_id = $1 ORDER BY position
	`, proof.ID)
	if err != nil {
		return nil, fmt.Errorf("order repository: get proof images %w", err)
	}

	return &proof, nil
}

// RejectReview возвращает сданный заказ в работу: статус снова
// in_progress, подтверждение удаляется, исполнитель получает уведомление.
func (r *OrderRepository) RejectReview(ctx context.Context, orderID, clientID uuid.UUID) (*models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var order models.Order
	err = tx.GetContext(ctx, &order, `SELECT * FROM orders WHERE id = $1 FOR UPDATE`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: reject review lock %w", err)
	}
	if order.ClientID != clientID {
		return nil, ErrNotOwner
	}
	if order.Status != models.OrderStatusSubmitted {
		return nil, ErrOrderStateConflict
	}

	// Изображения удаляются каскадом вместе с подтверждением
	if _, err = tx.ExecContext(ctx, `DELETE FROM order_proofs WHERE order_id = $1`, orderID); err != nil {
		return nil, fmt.Errorf("order repository: reject review delete proof %w", err)
	}

	err = tx.GetContext(ctx, &order, `
		UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
		RETURNING *
	`, orderID, models.OrderStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("order repository: reject review update order %w", err)
	}

	err = createNotificationTx(ctx, tx, order.FreelancerID, "Работа возвращена", "Клиент вернул заказ на доработку", "/orders/"+order.ID.String())
	if err != nil {
		return nil, fmt.Errorf("order repository: reject review create notification %w", err)
	}

	return &order, tx.Commit()
}

// Complete атомарно завершает заказ: переносит его цену из pending в
// доступный баланс исполнителя, создаёт income транзакцию, уведомляет
// клиента и закрывает исходное предложение. Строка заказа блокируется,
// терминальный статус отвергается — расчёт по заказу происходит ровно
// один раз независимо от того, какой путь (проверка клиентом или смена
// статуса исполнителем) пришёл первым.
// requiredStatus, если непустой, дополнительно сужает исходный статус.
func (r *OrderRepository) Complete(ctx context.Context, orderID uuid.UUID, requiredStatus string) (*models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var order models.Order
	err = tx.GetContext(ctx, &order, `SELECT * FROM orders WHERE id = $1 FOR UPDATE`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: complete lock %w", err)
	}
	if models.IsTerminalOrderStatus(order.Status) {
		return nil, ErrOrderStateConflict
	}
	if requiredStatus != "" && order.Status != requiredStatus {
		return nil, ErrOrderStateConflict
	}

	// pending -= цена (не ниже нуля), balance += цена
	if err = settleToBalanceTx(ctx, tx, order.FreelancerID, order.TotalPrice); err != nil {
		return nil, fmt.Errorf("order repository: complete settle earnings %w", err)
	}

	// Для бесплатного заказа income запись не создаётся: в истории
	// транзакций хранятся только ненулевые движения средств.
	if order.TotalPrice.IsPositive() {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (user_id, order_id, type, amount, status, description)
			VALUES ($1, $2, 'income', $3, 'completed', 'Оплата за выполненный заказ')
		`, order.FreelancerID, orderID, order.TotalPrice)
		if err != nil {
			return nil, fmt.Errorf("order repository: complete create transaction %w", err)
		}
	}

	err = tx.GetContext(ctx, &order, `
		UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
		RETURNING *
	`, orderID, models.OrderStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("order repository: complete update order %w", err)
	}

	if order.ProposalID != nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE proposals SET status = $2, updated_at = NOW() WHERE id = $1
		`, *order.ProposalID, models.ProposalStatusCompleted)
		if err != nil {
			return nil, fmt.Errorf("order repository: complete update proposal %w", err)
		}
	}

	err = createNotificationTx(ctx, tx, order.ClientID, "Заказ завершён", "Заказ выполнен и оплачен", "/orders/"+order.ID.String())
	if err != nil {
		return nil, fmt.Errorf("order repository: complete create notification %w", err)
	}

	return &order, tx.Commit()
}

// Cancel атомарно отменяет заказ: статус cancelled, pending исполнителя
// уменьшается на цену заказа (не ниже нуля), клиент получает уведомление.
func (r *OrderRepository) Cancel(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var order models.Order
	err = tx.GetContext(ctx, &order, `SELECT * FROM orders WHERE id = $1 FOR UPDATE`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: cancel lock %w", err)
	}
	if models.IsTerminalOrderStatus(order.Status) {
		return nil, ErrOrderStateConflict
	}

	if err = adjustPendingTx(ctx, tx, order.FreelancerID, order.TotalPrice.Neg()); err != nil {
		return nil, fmt.Errorf("order repository: cancel update earnings %w", err)
	}

	err = tx.GetContext(ctx, &order, `
		UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
		RETURNING *
	`, orderID, models.OrderStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("order repository: cancel update order %w", err)
	}

	err = createNotificationTx(ctx, tx, order.ClientID, "Заказ отменён", "Исполнитель отменил заказ", "/orders/"+order.ID.String())
	if err != nil {
		return nil, fmt.Errorf("order repository: cancel create notification %w", err)
	}

	return &order, tx.Commit()
}
