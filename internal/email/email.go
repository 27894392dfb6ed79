package email

import (
	"context"

	"github.com/muradsh/artmarket/internal/kafka"
	"go.uber.org/zap"
)

type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{logger: logger}
}

func (s *Sender) SendBooking(ctx context.Context, event kafka.BookingEvent) error {
	s.logger.Info("send booking notification",
		zap.String("type", event.Type),
		zap.String("user_id", event.UserID),
		zap.String("workshop_id", event.WorkshopID))
	return nil
}

func (s *Sender) SendOrder(ctx context.Context, event kafka.OrderEvent) error {
	s.logger.Info("send order notification",
		zap.String("type", event.Type),
		zap.String("user_id", event.UserID),
		zap.String("order_id", event.OrderID))
	return nil
}
