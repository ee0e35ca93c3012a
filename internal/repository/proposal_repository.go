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
	ErrProposalNotFound   = errors.New("proposal not found")
	ErrProposalNotPending = errors.New("proposal is not pending")
	// ErrNotOwner возвращается, когда сущность существует, но принадлежит
	// другому пользователю: вызывающий различает 404 и 403.
	ErrNotOwner = errors.New("entity belongs to another user")
)

// ProposalRepository работает с таблицей proposals и выполняет
// многотабличную транзакцию принятия предложения.
type ProposalRepository struct {
	db *sqlx.DB
}

func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Create сохраняет новое предложение в статусе pending вместе со ссылками
// на приложенные изображения. Предложение и изображения пишутся одной
// транзакцией.
func (r *ProposalRepository) Create(ctx context.Context, proposal *models.Proposal, mediaIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO proposals (gig_id, client_id, freelancer_id, offered_price, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRowxContext(
		ctx,
		query,
		proposal.GigID,
		proposal.ClientID,
		proposal.FreelancerID,
		proposal.OfferedPrice,
		proposal.Message,
		proposal.Status,
	).Scan(&proposal.ID, &proposal.CreatedAt, &proposal.UpdatedAt); err != nil {
		return fmt.Errorf("proposal repository: create %w", err)
	}

	for i, mediaID := range mediaIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO proposal_images (proposal_id, media_id, position) VALUES ($1, $2, $3)
		`, proposal.ID, mediaID, i)
		if err != nil {
			return fmt.Errorf("proposal repository: create insert image %w", err)
		}
	}

	return tx.Commit()
}

// GetByID возвращает предложение вместе с приложенными изображениями.
func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := r.db.GetContext(ctx, &proposal, `SELECT * FROM proposals WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: get by id %w", err)
	}

	err := r.db.SelectContext(ctx, &proposal.Images, `
		SELECT id, proposal_id, media_id, position
		FROM proposal_images WHERE proposal_id = $1 ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: get images %w", err)
	}
	return &proposal, nil
}

// GetByIDForUser возвращает предложение, если пользователь — его клиент
// или исполнитель. Отличает отсутствие (ErrProposalNotFound) от чужой
// сущности (ErrNotOwner).
func (r *ProposalRepository) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Proposal, error) {
	proposal, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if proposal.ClientID != userID && proposal.FreelancerID != userID {
		return nil, ErrNotOwner
	}
	return proposal, nil
}

// ListForClient возвращает предложения, отправленные клиентом.
func (r *ProposalRepository) ListForClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.SelectContext(ctx, &proposals, `
		SELECT * FROM proposals WHERE client_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: list for client %w", err)
	}
	return proposals, nil
}

// ListForFreelancer возвращает предложения, адресованные фрилансеру.
func (r *ProposalRepository) ListForFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.SelectContext(ctx, &proposals, `
		SELECT * FROM proposals WHERE freelancer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, freelancerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: list for freelancer %w", err)
	}
	return proposals, nil
}

// Accept атомарно принимает предложение: создаёт заказ по цене предложения,
// переводит предложение в accepted, увеличивает pending фрилансера и
// добавляет уведомления. Строка предложения блокируется FOR UPDATE, поэтому
// из конкурентных принятий заказ создаст ровно одно; проигравшее увидит
// не-pending статус и получит ErrProposalNotPending.
func (r *ProposalRepository) Accept(ctx context.Context, proposalID, freelancerID uuid.UUID) (*models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var proposal models.Proposal
	err = tx.GetContext(ctx, &proposal, `SELECT * FROM proposals WHERE id = $1 FOR UPDATE`, proposalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: accept lock %w", err)
	}
	if proposal.FreelancerID != freelancerID {
		return nil, ErrNotOwner
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, ErrProposalNotPending
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE proposals SET status = $2, updated_at = NOW() WHERE id = $1
	`, proposalID, models.ProposalStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: accept update proposal %w", err)
	}

	var order models.Order
	err = tx.GetContext(ctx, &order, `
		INSERT INTO orders (proposal_id, gig_id, client_id, freelancer_id, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, proposal_id, gig_id, client_id, freelancer_id, total_price, status, created_at, updated_at
	`, proposalID, proposal.GigID, proposal.ClientID, proposal.FreelancerID, proposal.OfferedPrice, models.OrderStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: accept create order %w", err)
	}

	// Резервируем сумму заказа в pending исполнителя
	if err = adjustPendingTx(ctx, tx, proposal.FreelancerID, proposal.OfferedPrice); err != nil {
		return nil, fmt.Errorf("proposal repository: accept update earnings %w", err)
	}

	orderLink := "/orders/" + order.ID.String()
	if err = createNotificationTx(ctx, tx, proposal.FreelancerID, "Новый заказ", "Предложение принято, заказ взят в работу", orderLink); err != nil {
		return nil, fmt.Errorf("proposal repository: accept notify freelancer %w", err)
	}
	if err = createNotificationTx(ctx, tx, proposal.ClientID, "Предложение принято", "Исполнитель принял ваше предложение", orderLink); err != nil {
		return nil, fmt.Errorf("proposal repository: accept notify client %w", err)
	}

	return &order, tx.Commit()
}

// UpdateStatusTerminal переводит pending предложение в терминальный статус
// (declined или cancelled). Статус перепроверяется под блокировкой.
func (r *ProposalRepository) UpdateStatusTerminal(ctx context.Context, proposalID, actorID uuid.UUID, actorIsClient bool, status string) (*models.Proposal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var proposal models.Proposal
	err = tx.GetContext(ctx, &proposal, `SELECT * FROM proposals WHERE id = $1 FOR UPDATE`, proposalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: update status lock %w", err)
	}

	owner := proposal.FreelancerID
	if actorIsClient {
		owner = proposal.ClientID
	}
	if owner != actorID {
		return nil, ErrNotOwner
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, ErrProposalNotPending
	}

	err = tx.GetContext(ctx, &proposal, `
		UPDATE proposals SET status = $2, updated_at = NOW() WHERE id = $1
		RETURNING *
	`, proposalID, status)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: update status %w", err)
	}

	return &proposal, tx.Commit()
}
