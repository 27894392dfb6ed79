package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/muradsh/artmarket/internal/domain"
	"github.com/muradsh/artmarket/internal/kafka"
	"github.com/muradsh/artmarket/internal/repository"
	"go.uber.org/zap"
)

const RoleAdmin = "admin"

type OrderUseCase interface {
	PlaceOrder(ctx context.Context, userID string, items []LineItem) (*domain.Order, error)
	AdvanceStatus(ctx context.Context, orderID string, target domain.OrderStatus) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID, userID, userRole string) (*domain.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type LineItem struct {
	ArtworkID string `json:"artwork_id"`
	Quantity  int    `json:"quantity"`
}

type OrderService struct {
	orders             repository.OrderRepository
	artworks           repository.ArtworkRepository
	producer           Producer
	orderTopic         string
	notificationsTopic string
	logger             *zap.Logger
}

type OrderServiceOption func(*OrderService)

func WithNotificationsTopic(topic string) OrderServiceOption {
	return func(s *OrderService) {
		s.notificationsTopic = topic
	}
}

func NewOrderService(
	orders repository.OrderRepository,
	artworks repository.ArtworkRepository,
	producer Producer,
	orderTopic string,
	logger *zap.Logger,
	opts ...OrderServiceOption,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	service := &OrderService{
		orders:     orders,
		artworks:   artworks,
		producer:   producer,
		orderTopic: orderTopic,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// PlaceOrder reserves stock for each line item in the order supplied and
// creates the order. Reservations are applied one at a time; if any item
// fails, the decrements already applied are rolled back before the rejection
// surfaces. The caller sees either a created order or unchanged stock.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, items []LineItem) (*domain.Order, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if len(items) == 0 {
		return nil, errors.New("order must contain at least one line item")
	}
	for _, item := range items {
		if item.ArtworkID == "" {
			return nil, errors.New("artwork id is required")
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("quantity must be at least 1 for artwork %s", item.ArtworkID)
		}
	}

	var (
		reserved   []LineItem
		orderItems []domain.OrderItem
		totalCents int64
	)
	for _, item := range items {
		artwork, err := s.artworks.GetByID(ctx, item.ArtworkID)
		if err != nil {
			s.rollback(ctx, reserved)
			return nil, err
		}
		if err := s.artworks.ReserveStock(ctx, item.ArtworkID, item.Quantity); err != nil {
			s.rollback(ctx, reserved)
			return nil, err
		}
		reserved = append(reserved, item)

		orderItems = append(orderItems, domain.OrderItem{
			ArtworkID:  item.ArtworkID,
			Quantity:   item.Quantity,
			PriceCents: artwork.PriceCents,
		})
		totalCents += artwork.PriceCents * int64(item.Quantity)
	}

	order := &domain.Order{
		ID:         uuid.NewString(),
		UserID:     userID,
		Items:      orderItems,
		TotalCents: totalCents,
		Status:     domain.OrderStatusInProgress,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.rollback(ctx, reserved)
		return nil, err
	}

	s.publish(ctx, "order_placed", order)
	return order, nil
}

// AdvanceStatus applies one legal status transition. Cancellation does not
// restore artwork stock.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID string, target domain.OrderStatus) (*domain.Order, error) {
	switch target {
	case domain.OrderStatusShipped, domain.OrderStatusDelivered, domain.OrderStatusCanceled:
	default:
		return nil, domain.ErrInvalidTransition
	}

	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(target) {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, target)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "order_status_changed", updated)
	return updated, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID, userID, userRole string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if userRole != RoleAdmin && order.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// rollback re-credits stock for reservations already applied, newest first.
func (s *OrderService) rollback(ctx context.Context, reserved []LineItem) {
	for i := len(reserved) - 1; i >= 0; i-- {
		item := reserved[i]
		if err := s.artworks.RestoreStock(ctx, item.ArtworkID, item.Quantity); err != nil {
			s.logger.Error("restore stock after failed order",
				zap.String("artwork_id", item.ArtworkID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order) {
	if s.producer == nil || s.orderTopic == "" {
		return
	}
	event := kafka.OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		TotalCents: order.TotalCents,
		OccurredAt: time.Now().UTC(),
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, kafka.OrderEventItem{ArtworkID: item.ArtworkID, Quantity: item.Quantity})
	}
	if err := s.producer.Publish(ctx, s.orderTopic, order.ID, event); err != nil {
		s.logger.Warn("publish order event", zap.String("type", eventType), zap.String("order_id", order.ID), zap.Error(err))
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, order.ID, event); err != nil {
			s.logger.Warn("publish order notification", zap.String("type", eventType), zap.String("order_id", order.ID), zap.Error(err))
		}
	}
}

var _ OrderUseCase = (*OrderService)(nil)
