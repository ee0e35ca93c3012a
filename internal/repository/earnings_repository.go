package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/gigmarket-backend/internal/models"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrEarningsNotFound  = errors.New("earnings not found")
)

// EarningsRepository отвечает за баланс фрилансера. Каждый метод —
// одна транзакция; проверка баланса и его списание выполняются под
// блокировкой строки, без разрыва между чтением и записью.
type EarningsRepository struct {
	db *sqlx.DB
}

func NewEarningsRepository(db *sqlx.DB) *EarningsRepository {
	return &EarningsRepository{db: db}
}

// GetOrCreate возвращает баланс фрилансера, создаёт нулевой если не существует.
func (r *EarningsRepository) GetOrCreate(ctx context.Context, freelancerID uuid.UUID) (*models.Earnings, error) {
	var earnings models.Earnings
	query := `
		INSERT INTO earnings (freelancer_id, pending_amount, total_balance, withdrawn)
		VALUES ($1, 0, 0, 0)
		ON CONFLICT (freelancer_id) DO UPDATE SET updated_at = NOW()
		RETURNING freelancer_id, pending_amount, total_balance, withdrawn, updated_at
	`
	if err := r.db.GetContext(ctx, &earnings, query, freelancerID); err != nil {
		return nil, fmt.Errorf("earnings repository: get or create %w", err)
	}
	return &earnings, nil
}

// adjustPendingTx изменяет сумму в работе на delta (может быть отрицательной)
// внутри внешней транзакции. Результат никогда не опускается ниже нуля.
// Единственная точка мутации pending — вызывается из транзакций принятия
// предложения и отмены заказа.
func adjustPendingTx(ctx context.Context, tx *sqlx.Tx, freelancerID uuid.UUID, delta decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO earnings (freelancer_id, pending_amount, total_balance, withdrawn)
		VALUES ($1, GREATEST($2::numeric, 0), 0, 0)
		ON CONFLICT (freelancer_id) DO UPDATE
		SET pending_amount = GREATEST(earnings.pending_amount + $2, 0), updated_at = NOW()
	`, freelancerID, delta)
	if err != nil {
		return fmt.Errorf("earnings: adjust pending %w", err)
	}
	return nil
}

// settleToBalanceTx переносит amount из pending_amount в total_balance
// внутри внешней транзакции. Pending уменьшается не ниже нуля, баланс
// увеличивается ровно на amount. Вызывается из транзакции завершения заказа.
func settleToBalanceTx(ctx context.Context, tx *sqlx.Tx, freelancerID uuid.UUID, amount decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO earnings (freelancer_id, pending_amount, total_balance, withdrawn)
		VALUES ($1, 0, $2, 0)
		ON CONFLICT (freelancer_id) DO UPDATE
		SET pending_amount = GREATEST(earnings.pending_amount - $2, 0),
		    total_balance  = earnings.total_balance + $2,
		    updated_at     = NOW()
	`, freelancerID, amount)
	if err != nil {
		return fmt.Errorf("earnings: settle to balance %w", err)
	}
	return nil
}

// Withdraw списывает amount с доступного баланса и создаёт транзакцию вывода.
// Баланс перепроверяется в той же транзакции под FOR UPDATE: конкурентные
// выводы сериализуются, уйти в минус невозможно.
func (r *EarningsRepository) Withdraw(ctx context.Context, freelancerID uuid.UUID, amount decimal.Decimal, description string) (*models.Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var balance decimal.Decimal
	err = tx.GetContext(ctx, &balance, `SELECT total_balance FROM earnings WHERE freelancer_id = $1 FOR UPDATE`, freelancerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInsufficientFunds
		}
		return nil, fmt.Errorf("earnings repository: withdraw lock %w", err)
	}
	if balance.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE earnings
		SET total_balance = total_balance - $2, withdrawn = withdrawn + $2, updated_at = NOW()
		WHERE freelancer_id = $1
	`, freelancerID, amount)
	if err != nil {
		return nil, fmt.Errorf("earnings repository: withdraw update %w", err)
	}

	var transaction models.Transaction
	err = tx.GetContext(ctx, &transaction, `
		INSERT INTO transactions (user_id, type, amount, status, description)
		VALUES ($1, 'withdrawal', $2, 'completed', $3)
		RETURNING id, user_id, order_id, type, amount, status, description, created_at
	`, freelancerID, amount, description)
	if err != nil {
		return nil, fmt.Errorf("earnings repository: withdraw create transaction %w", err)
	}

	return &transaction, tx.Commit()
}

// ListTransactions возвращает историю транзакций пользователя.
func (r *EarningsRepository) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT id, user_id, order_id, type, amount, status, description, created_at
		FROM transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("earnings repository: list transactions %w", err)
	}
	return transactions, nil
}
