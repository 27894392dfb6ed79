package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/muradsh/artmarket/internal/domain"
)

type ArtworkRepository interface {
	Create(ctx context.Context, artwork *domain.Artwork) error
	GetByID(ctx context.Context, id string) (*domain.Artwork, error)
	List(ctx context.Context) ([]domain.Artwork, error)
	// ReserveStock atomically decrements quantity by qty if enough is on hand.
	// Returns *domain.InsufficientStockError when it is not.
	ReserveStock(ctx context.Context, id string, qty int) error
	// RestoreStock reverses a prior ReserveStock.
	RestoreStock(ctx context.Context, id string, qty int) error
}

type PGArtworkRepository struct {
	db *pgxpool.Pool
}

func NewArtworkRepository(db *pgxpool.Pool) ArtworkRepository {
	return &PGArtworkRepository{db: db}
}

const artworkColumns = `id, artist_id, title, quantity, price_cents, created_at, updated_at`

func (r *PGArtworkRepository) Create(ctx context.Context, a *domain.Artwork) error {
	return r.db.QueryRow(ctx, `INSERT INTO artworks (id, artist_id, title, quantity, price_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		a.ID, a.ArtistID, a.Title, a.Quantity, a.PriceCents).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *PGArtworkRepository) GetByID(ctx context.Context, id string) (*domain.Artwork, error) {
	row := r.db.QueryRow(ctx, `SELECT `+artworkColumns+` FROM artworks WHERE id=$1`, id)
	var a domain.Artwork
	if err := row.Scan(&a.ID, &a.ArtistID, &a.Title, &a.Quantity, &a.PriceCents, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGArtworkRepository) List(ctx context.Context) ([]domain.Artwork, error) {
	rows, err := r.db.Query(ctx, `SELECT `+artworkColumns+` FROM artworks ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	artworks := make([]domain.Artwork, 0)
	for rows.Next() {
		var a domain.Artwork
		if err := rows.Scan(&a.ID, &a.ArtistID, &a.Title, &a.Quantity, &a.PriceCents, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		artworks = append(artworks, a)
	}
	return artworks, rows.Err()
}

func (r *PGArtworkRepository) ReserveStock(ctx context.Context, id string, qty int) error {
	cmd, err := r.db.Exec(ctx, `UPDATE artworks SET quantity = quantity - $2, updated_at = now() WHERE id=$1 AND quantity >= $2`, id, qty)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 1 {
		return nil
	}

	// The conditional update matched nothing: either the artwork is missing
	// or the stock is short. Re-read to tell the two apart.
	var available int
	if err := r.db.QueryRow(ctx, `SELECT quantity FROM artworks WHERE id=$1`, id).Scan(&available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return &domain.InsufficientStockError{ArtworkID: id, Requested: qty, Available: available}
}

func (r *PGArtworkRepository) RestoreStock(ctx context.Context, id string, qty int) error {
	cmd, err := r.db.Exec(ctx, `UPDATE artworks SET quantity = quantity + $2, updated_at = now() WHERE id=$1`, id, qty)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ ArtworkRepository = (*PGArtworkRepository)(nil)
