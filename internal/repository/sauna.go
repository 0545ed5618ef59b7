package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/anttituomola/tampereensaunalautat-sub000/internal/model"
)

var (
	ErrSaunaNotFound = errors.New("sauna not found")
)

// SaunaFilter narrows the public listing.
type SaunaFilter struct {
	Location    string
	MinCapacity int
}

type SaunaRepository interface {
	Create(ctx context.Context, sauna *model.Sauna) error
	ByID(ctx context.Context, id string) (*model.Sauna, error)
	ListVisible(ctx context.Context, filter SaunaFilter) ([]model.Sauna, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]model.Sauna, error)
	Update(ctx context.Context, sauna *model.Sauna) error
}

type saunaRepository struct {
	db *sqlx.DB
}

func NewSaunaRepository(db *sqlx.DB) SaunaRepository {
	return &saunaRepository{db: db}
}

func (r *saunaRepository) Create(ctx context.Context, sauna *model.Sauna) error {
	if sauna.ID == "" {
		sauna.ID = uuid.New().String()
	}
	now := time.Now()
	if sauna.CreatedAt.IsZero() {
		sauna.CreatedAt = now
	}
	sauna.UpdatedAt = now

	query := `
		INSERT INTO saunas (id, url_name, name, owner_email, location, capacity, event_length,
			price_min, price_max, equipment, main_image, images, winter, visible, notes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.ExecContext(ctx, query,
		sauna.ID, sauna.URLName, sauna.Name, sauna.OwnerEmail, sauna.Location,
		sauna.Capacity, sauna.EventLength, sauna.PriceMin, sauna.PriceMax,
		sauna.Equipment, sauna.MainImage, sauna.Images, sauna.Winter, sauna.Visible,
		sauna.Notes, sauna.CreatedAt, sauna.UpdatedAt)
	return err
}

// ByID looks the sauna up by row id or url_name slug; the public site links
// use the slug, the back office uses the id.
func (r *saunaRepository) ByID(ctx context.Context, id string) (*model.Sauna, error) {
	sauna := &model.Sauna{}
	query := `SELECT * FROM saunas WHERE id = $1 OR url_name = $1`

	err := r.db.GetContext(ctx, sauna, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrSaunaNotFound
	}

	return sauna, err
}

func (r *saunaRepository) ListVisible(ctx context.Context, filter SaunaFilter) ([]model.Sauna, error) {
	query := `SELECT * FROM saunas WHERE visible = TRUE`
	args := []any{}

	if filter.Location != "" {
		args = append(args, filter.Location)
		query += ` AND location = $1`
	}
	if filter.MinCapacity > 0 {
		args = append(args, filter.MinCapacity)
		if len(args) == 2 {
			query += ` AND capacity >= $2`
		} else {
			query += ` AND capacity >= $1`
		}
	}
	query += ` ORDER BY name`

	saunas := []model.Sauna{}
	err := r.db.SelectContext(ctx, &saunas, query, args...)
	return saunas, err
}

func (r *saunaRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]model.Sauna, error) {
	saunas := []model.Sauna{}
	query := `SELECT * FROM saunas WHERE LOWER(owner_email) = LOWER($1) ORDER BY name`

	err := r.db.SelectContext(ctx, &saunas, query, ownerEmail)
	return saunas, err
}

func (r *saunaRepository) Update(ctx context.Context, sauna *model.Sauna) error {
	sauna.UpdatedAt = time.Now()

	query := `
		UPDATE saunas SET name = $1, location = $2, capacity = $3, event_length = $4,
			price_min = $5, price_max = $6, equipment = $7, main_image = $8, images = $9,
			winter = $10, visible = $11, notes = $12, updated_at = $13
		WHERE id = $14
	`
	result, err := r.db.ExecContext(ctx, query,
		sauna.Name, sauna.Location, sauna.Capacity, sauna.EventLength,
		sauna.PriceMin, sauna.PriceMax, sauna.Equipment, sauna.MainImage, sauna.Images,
		sauna.Winter, sauna.Visible, sauna.Notes, sauna.UpdatedAt, sauna.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSaunaNotFound
	}

	return nil
}
