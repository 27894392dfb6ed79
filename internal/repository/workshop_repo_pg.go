package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/muradsh/artmarket/internal/domain"
)

type WorkshopRepository interface {
	Create(ctx context.Context, workshop *domain.Workshop) error
	GetByID(ctx context.Context, id string) (*domain.Workshop, error)
	List(ctx context.Context, availableOnly bool) ([]domain.Workshop, error)
	ListOverlapping(ctx context.Context, start, end time.Time) ([]domain.Workshop, error)
	SetAvailability(ctx context.Context, id string, available bool) (*domain.Workshop, error)
}

type PGWorkshopRepository struct {
	db *pgxpool.Pool
}

func NewWorkshopRepository(db *pgxpool.Pool) WorkshopRepository {
	return &PGWorkshopRepository{db: db}
}

const workshopColumns = `id, artist_id, name, location, price_cents, start_time, end_time, capacity, availability, created_at, updated_at`

func (r *PGWorkshopRepository) Create(ctx context.Context, w *domain.Workshop) error {
	return r.db.QueryRow(ctx, `INSERT INTO workshops (id, artist_id, name, location, price_cents, start_time, end_time, capacity, availability)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		w.ID, w.ArtistID, w.Name, w.Location, w.PriceCents, w.StartTime, w.EndTime, w.Capacity, w.Availability).
		Scan(&w.CreatedAt, &w.UpdatedAt)
}

func (r *PGWorkshopRepository) GetByID(ctx context.Context, id string) (*domain.Workshop, error) {
	row := r.db.QueryRow(ctx, `SELECT `+workshopColumns+` FROM workshops WHERE id=$1`, id)
	return scanWorkshop(row)
}

func (r *PGWorkshopRepository) List(ctx context.Context, availableOnly bool) ([]domain.Workshop, error) {
	query := `SELECT ` + workshopColumns + ` FROM workshops ORDER BY start_time`
	if availableOnly {
		query = `SELECT ` + workshopColumns + ` FROM workshops WHERE availability ORDER BY start_time`
	}
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkshops(rows)
}

// ListOverlapping returns workshops whose half-open window [start_time, end_time)
// intersects [start, end). The window passed in trivially matches itself.
func (r *PGWorkshopRepository) ListOverlapping(ctx context.Context, start, end time.Time) ([]domain.Workshop, error) {
	rows, err := r.db.Query(ctx, `SELECT `+workshopColumns+` FROM workshops WHERE start_time < $2 AND $1 < end_time`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkshops(rows)
}

func (r *PGWorkshopRepository) SetAvailability(ctx context.Context, id string, available bool) (*domain.Workshop, error) {
	row := r.db.QueryRow(ctx, `UPDATE workshops SET availability=$1, updated_at=now() WHERE id=$2 RETURNING `+workshopColumns, available, id)
	return scanWorkshop(row)
}

func scanWorkshop(row pgx.Row) (*domain.Workshop, error) {
	var w domain.Workshop
	if err := row.Scan(&w.ID, &w.ArtistID, &w.Name, &w.Location, &w.PriceCents, &w.StartTime, &w.EndTime, &w.Capacity, &w.Availability, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

func collectWorkshops(rows pgx.Rows) ([]domain.Workshop, error) {
	workshops := make([]domain.Workshop, 0)
	for rows.Next() {
		var w domain.Workshop
		if err := rows.Scan(&w.ID, &w.ArtistID, &w.Name, &w.Location, &w.PriceCents, &w.StartTime, &w.EndTime, &w.Capacity, &w.Availability, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		workshops = append(workshops, w)
	}
	return workshops, rows.Err()
}

var _ WorkshopRepository = (*PGWorkshopRepository)(nil)
