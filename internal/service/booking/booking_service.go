package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/muradsh/artmarket/internal/domain"
	"github.com/muradsh/artmarket/internal/kafka"
	"github.com/muradsh/artmarket/internal/repository"
	"go.uber.org/zap"
)

// ErrAdmissionInProgress means another admission for the same user holds the
// lock right now. Contention, not a durable rejection; the caller may retry.
var ErrAdmissionInProgress = errors.New("booking admission already in progress for this user")

const RoleAdmin = "admin"

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID, userID, userRole string) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error)
}

type Cache interface {
	AcquireAdmissionLock(ctx context.Context, userID string, ttl time.Duration) (bool, error)
	ReleaseAdmissionLock(ctx context.Context, userID string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	workshops          repository.WorkshopRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	admissionLockTTL   time.Duration
	logger             *zap.Logger
}

type CreateBookingInput struct {
	UserID     string `json:"user_id"`
	WorkshopID string `json:"workshop_id"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	workshops repository.WorkshopRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	admissionLockTTL time.Duration,
	logger *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	service := &BookingService{
		bookings:         bookings,
		workshops:        workshops,
		cache:            cache,
		producer:         producer,
		bookingTopic:     bookingTopic,
		admissionLockTTL: admissionLockTTL,
		logger:           logger,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking admits a booking request or rejects it. Checks run in order:
// workshop availability, duplicate booking, time-window overlap against the
// user's other active bookings. The whole check-then-insert sequence runs
// under a per-user lock so two concurrent admissions for the same user cannot
// both pass.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.UserID == "" {
		return nil, errors.New("user id is required")
	}
	if input.WorkshopID == "" {
		return nil, errors.New("workshop id is required")
	}

	if s.cache != nil {
		ok, err := s.cache.AcquireAdmissionLock(ctx, input.UserID, s.admissionLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAdmissionInProgress
		}
		defer func() {
			if err := s.cache.ReleaseAdmissionLock(ctx, input.UserID); err != nil {
				s.logger.Warn("release admission lock", zap.String("user_id", input.UserID), zap.Error(err))
			}
		}()
	}

	workshop, err := s.workshops.GetByID(ctx, input.WorkshopID)
	if err != nil {
		return nil, err
	}
	if !workshop.Availability {
		return nil, domain.ErrNotAvailable
	}

	exists, err := s.bookings.ActiveExists(ctx, input.UserID, input.WorkshopID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateBooking
	}

	// The overlap set includes the target workshop itself (a window overlaps
	// itself), but the duplicate check above already rejected that case.
	overlapping, err := s.workshops.ListOverlapping(ctx, workshop.StartTime, workshop.EndTime)
	if err != nil {
		return nil, err
	}
	for _, other := range overlapping {
		if other.ID == workshop.ID {
			continue
		}
		held, err := s.bookings.ActiveExists(ctx, input.UserID, other.ID)
		if err != nil {
			return nil, err
		}
		if held {
			return nil, domain.ErrTimeConflict
		}
	}

	booking := &domain.Booking{
		ID:         uuid.NewString(),
		UserID:     input.UserID,
		WorkshopID: input.WorkshopID,
		Status:     domain.BookingStatusInProgress,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

// ConfirmBooking moves an IN_PROGRESS booking to CONFIRMED. The workshop must
// still be available at confirmation time.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	workshop, err := s.workshops.GetByID(ctx, current.WorkshopID)
	if err != nil {
		return nil, err
	}
	if !workshop.Availability {
		return nil, domain.ErrInvalidTransition
	}
	if !current.Status.CanTransition(domain.BookingStatusConfirmed) {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_confirmed", updated)
	return updated, nil
}

// CancelBooking moves an IN_PROGRESS booking to CANCELED. Only the booking's
// owner may cancel, and the workshop must still be available.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, domain.ErrForbidden
	}

	workshop, err := s.workshops.GetByID(ctx, current.WorkshopID)
	if err != nil {
		return nil, err
	}
	if !workshop.Availability {
		return nil, domain.ErrInvalidTransition
	}
	if !current.Status.CanTransition(domain.BookingStatusCanceled) {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusCanceled)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_cancelled", updated)
	return updated, nil
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID, userID, userRole string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if userRole != RoleAdmin && booking.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		WorkshopID: booking.WorkshopID,
		Status:     string(booking.Status),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		s.logger.Warn("publish booking event", zap.String("type", eventType), zap.String("booking_id", booking.ID), zap.Error(err))
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			s.logger.Warn("publish booking notification", zap.String("type", eventType), zap.String("booking_id", booking.ID), zap.Error(err))
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
