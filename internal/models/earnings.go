package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Типы транзакций
const (
	TransactionTypeIncome     = "income"
	TransactionTypeWithdrawal = "withdrawal"
)

// Статусы транзакций
const (
	TransactionStatusCompleted = "completed"
)

// Earnings представляет баланс фрилансера: средства по заказам в работе
// (pending), доступные к выводу (total_balance) и выведенные за всё время.
// Инварианты: pending_amount >= 0, total_balance >= 0.
type Earnings struct {
	FreelancerID  uuid.UUID       `db:"freelancer_id" json:"freelancer_id"`
	PendingAmount decimal.Decimal `db:"pending_amount" json:"pending_amount"`
	TotalBalance  decimal.Decimal `db:"total_balance" json:"total_balance"`
	Withdrawn     decimal.Decimal `db:"withdrawn" json:"withdrawn"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// Transaction представляет неизменяемую запись о движении средств.
type Transaction struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	UserID      uuid.UUID       `db:"user_id" json:"user_id"`
	OrderID     *uuid.UUID      `db:"order_id" json:"order_id,omitempty"`
	Type        string          `db:"type" json:"type"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Status      string          `db:"status" json:"status"`
	Description *string         `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
