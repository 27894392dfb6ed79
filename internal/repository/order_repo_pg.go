package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/muradsh/artmarket/internal/domain"
)

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type PGOrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &PGOrderRepository{db: db}
}

func (r *PGOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO orders (id, user_id, total_cents, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		o.ID, o.UserID, o.TotalCents, o.Status).
		Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return err
	}

	for i, item := range o.Items {
		if _, err := tx.Exec(ctx, `INSERT INTO order_items (order_id, position, artwork_id, quantity, price_cents)
			VALUES ($1, $2, $3, $4, $5)`,
			o.ID, i, item.ArtworkID, item.Quantity, item.PriceCents); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PGOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, total_cents, status, created_at, updated_at FROM orders WHERE id=$1`, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PGOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `UPDATE orders SET status=$1, updated_at=now() WHERE id=$2 RETURNING id, user_id, total_cents, status, created_at, updated_at`, status, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PGOrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, total_cents, status, created_at, updated_at FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalCents, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *PGOrderRepository) loadItems(ctx context.Context, o *domain.Order) error {
	rows, err := r.db.Query(ctx, `SELECT artwork_id, quantity, price_cents FROM order_items WHERE order_id=$1 ORDER BY position`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ArtworkID, &item.Quantity, &item.PriceCents); err != nil {
			return err
		}
		items = append(items, item)
	}
	o.Items = items
	return rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(&o.ID, &o.UserID, &o.TotalCents, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

var _ OrderRepository = (*PGOrderRepository)(nil)
