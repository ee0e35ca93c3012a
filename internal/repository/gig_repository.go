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

var ErrGigNotFound = errors.New("gig not found")

// GigRepository работает с таблицей gigs.
type GigRepository struct {
	db *sqlx.DB
}

func NewGigRepository(db *sqlx.DB) *GigRepository {
	return &GigRepository{db: db}
}

// Create сохраняет новую услугу.
func (r *GigRepository) Create(ctx context.Context, gig *models.Gig) error {
	query := `
		INSERT INTO gigs (freelancer_id, title, description, price, cover_media_id, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, is_active, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx,
		query,
		gig.FreelancerID,
		gig.Title,
		gig.Description,
		gig.Price,
		gig.CoverMediaID,
	).Scan(&gig.ID, &gig.IsActive, &gig.CreatedAt, &gig.UpdatedAt); err != nil {
		return fmt.Errorf("gig repository: create %w", err)
	}
	return nil
}

// GetByID возвращает услугу по идентификатору.
func (r *GigRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	var gig models.Gig
	if err := r.db.GetContext(ctx, &gig, `SELECT * FROM gigs WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGigNotFound
		}
		return nil, fmt.Errorf("gig repository: get by id %w", err)
	}
	return &gig, nil
}

// List возвращает активные услуги с пагинацией.
func (r *GigRepository) List(ctx context.Context, limit, offset int) ([]models.Gig, error) {
	var gigs []models.Gig
	err := r.db.SelectContext(ctx, &gigs, `
		SELECT * FROM gigs WHERE is_active = TRUE ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("gig repository: list %w", err)
	}
	return gigs, nil
}

// ListByFreelancer возвращает услуги фрилансера, включая неактивные.
func (r *GigRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Gig, error) {
	var gigs []models.Gig
	err := r.db.SelectContext(ctx, &gigs, `
		SELECT * FROM gigs WHERE freelancer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, freelancerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("gig repository: list by freelancer %w", err)
	}
	return gigs, nil
}

// Update обновляет услугу владельца. Отличает отсутствие от чужой услуги.
func (r *GigRepository) Update(ctx context.Context, gig *models.Gig) error {
	existing, err := r.GetByID(ctx, gig.ID)
	if err != nil {
		return err
	}
	if existing.FreelancerID != gig.FreelancerID {
		return ErrNotOwner
	}

	err = r.db.GetContext(ctx, gig, `
		UPDATE gigs
		SET title = $2, description = $3, price = $4, cover_media_id = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, gig.ID, gig.Title, gig.Description, gig.Price, gig.CoverMediaID, gig.IsActive)
	if err != nil {
		return fmt.Errorf("gig repository: update %w", err)
	}
	return nil
}

// Deactivate снимает услугу с публикации.
func (r *GigRepository) Deactivate(ctx context.Context, id, freelancerID uuid.UUID) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.FreelancerID != freelancerID {
		return ErrNotOwner
	}

	if _, err := r.db.ExecContext(ctx, `
		UPDATE gigs SET is_active = FALSE, updated_at = NOW() WHERE id = $1
	`, id); err != nil {
		return fmt.Errorf("gig repository: deactivate %w", err)
	}
	return nil
}
