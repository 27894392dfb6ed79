package order

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/muradsh/artmarket/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

type MockArtworkRepository struct {
	mock.Mock
}

func (m *MockArtworkRepository) Create(ctx context.Context, artwork *domain.Artwork) error {
	args := m.Called(ctx, artwork)
	return args.Error(0)
}

func (m *MockArtworkRepository) GetByID(ctx context.Context, id string) (*domain.Artwork, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artwork), args.Error(1)
}

func (m *MockArtworkRepository) List(ctx context.Context) ([]domain.Artwork, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Artwork), args.Error(1)
}

func (m *MockArtworkRepository) ReserveStock(ctx context.Context, id string, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func (m *MockArtworkRepository) RestoreStock(ctx context.Context, id string, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	mockOrderRepo := &MockOrderRepository{}
	mockArtworkRepo := &MockArtworkRepository{}
	mockProducer := &MockProducer{}

	service := NewOrderService(mockOrderRepo, mockArtworkRepo, mockProducer, "order_topic", nil)

	ctx := context.Background()
	artwork := &domain.Artwork{ID: "a-K", Title: "Sunset", Quantity: 5, PriceCents: 1000}

	mockArtworkRepo.On("GetByID", ctx, "a-K").Return(artwork, nil).Once()
	mockArtworkRepo.On("ReserveStock", ctx, "a-K", 2).Return(nil).Once()
	mockOrderRepo.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
	mockProducer.On("Publish", ctx, "order_topic", mock.Anything, mock.Anything).Return(nil).Once()

	order, err := service.PlaceOrder(ctx, "u-1", []LineItem{{ArtworkID: "a-K", Quantity: 2}})

	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, domain.OrderStatusInProgress, order.Status)
	assert.Equal(t, int64(2000), order.TotalCents)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, int64(1000), order.Items[0].PriceCents)

	mockArtworkRepo.AssertExpectations(t)
	mockOrderRepo.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_ValidationErrors(t *testing.T) {
	service := NewOrderService(&MockOrderRepository{}, &MockArtworkRepository{}, nil, "", nil)

	ctx := context.Background()

	testCases := []struct {
		name   string
		userID string
		items  []LineItem
	}{
		{name: "Missing user id", userID: "", items: []LineItem{{ArtworkID: "a-1", Quantity: 1}}},
		{name: "Empty items", userID: "u-1", items: nil},
		{name: "Missing artwork id", userID: "u-1", items: []LineItem{{Quantity: 1}}},
		{name: "Zero quantity", userID: "u-1", items: []LineItem{{ArtworkID: "a-1", Quantity: 0}}},
		{name: "Negative quantity", userID: "u-1", items: []LineItem{{ArtworkID: "a-1", Quantity: -3}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			order, err := service.PlaceOrder(ctx, tc.userID, tc.items)
			assert.Nil(t, order)
			assert.Error(t, err)
		})
	}
}

func TestOrderService_PlaceOrder_InsufficientStock(t *testing.T) {
	mockOrderRepo := &MockOrderRepository{}
	mockArtworkRepo := &MockArtworkRepository{}

	service := NewOrderService(mockOrderRepo, mockArtworkRepo, nil, "", nil)

	ctx := context.Background()
	artwork := &domain.Artwork{ID: "a-K", Title: "Sunset", Quantity: 3, PriceCents: 1000}
	shortfall := &domain.InsufficientStockError{ArtworkID: "a-K", Requested: 5, Available: 3}

	mockArtworkRepo.On("GetByID", ctx, "a-K").Return(artwork, nil).Once()
	mockArtworkRepo.On("ReserveStock", ctx, "a-K", 5).Return(shortfall).Once()

	order, err := service.PlaceOrder(ctx, "u-1", []LineItem{{ArtworkID: "a-K", Quantity: 5}})

	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "a-K", stockErr.ArtworkID)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)

	// Nothing was applied, so nothing to roll back.
	mockArtworkRepo.AssertNotCalled(t, "RestoreStock", mock.Anything, mock.Anything, mock.Anything)
	mockOrderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_SecondItemFails_RollsBackFirst(t *testing.T) {
	mockOrderRepo := &MockOrderRepository{}
	mockArtworkRepo := &MockArtworkRepository{}

	service := NewOrderService(mockOrderRepo, mockArtworkRepo, nil, "", nil)

	ctx := context.Background()
	first := &domain.Artwork{ID: "a-1", Title: "Dunes", Quantity: 4, PriceCents: 500}
	second := &domain.Artwork{ID: "a-2", Title: "Harbor", Quantity: 1, PriceCents: 700}

	mockArtworkRepo.On("GetByID", ctx, "a-1").Return(first, nil).Once()
	mockArtworkRepo.On("ReserveStock", ctx, "a-1", 2).Return(nil).Once()
	mockArtworkRepo.On("GetByID", ctx, "a-2").Return(second, nil).Once()
	mockArtworkRepo.On("ReserveStock", ctx, "a-2", 3).
		Return(&domain.InsufficientStockError{ArtworkID: "a-2", Requested: 3, Available: 1}).Once()
	mockArtworkRepo.On("RestoreStock", ctx, "a-1", 2).Return(nil).Once()

	order, err := service.PlaceOrder(ctx, "u-1", []LineItem{
		{ArtworkID: "a-1", Quantity: 2},
		{ArtworkID: "a-2", Quantity: 3},
	})

	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	mockArtworkRepo.AssertExpectations(t)
	mockOrderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_ArtworkNotFound(t *testing.T) {
	mockOrderRepo := &MockOrderRepository{}
	mockArtworkRepo := &MockArtworkRepository{}

	service := NewOrderService(mockOrderRepo, mockArtworkRepo, nil, "", nil)

	ctx := context.Background()
	mockArtworkRepo.On("GetByID", ctx, "missing").Return(nil, domain.ErrNotFound).Once()

	order, err := service.PlaceOrder(ctx, "u-1", []LineItem{{ArtworkID: "missing", Quantity: 1}})

	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderService_PlaceOrder_CreateFails_RollsBackAll(t *testing.T) {
	mockOrderRepo := &MockOrderRepository{}
	mockArtworkRepo := &MockArtworkRepository{}

	service := NewOrderService(mockOrderRepo, mockArtworkRepo, nil, "", nil)

	ctx := context.Background()
	first := &domain.Artwork{ID: "a-1", Title: "Dunes", Quantity: 4, PriceCents: 500}
	second := &domain.Artwork{ID: "a-2", Title: "Harbor", Quantity: 4, PriceCents: 700}

	mockArtworkRepo.On("GetByID", ctx, "a-1").Return(first, nil).Once()
	mockArtworkRepo.On("ReserveStock", ctx, "a-1", 1).Return(nil).Once()
	mockArtworkRepo.On("GetByID", ctx, "a-2").Return(second, nil).Once()
	mockArtworkRepo.On("ReserveStock", ctx, "a-2", 2).Return(nil).Once()
	mockOrderRepo.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(errors.New("db down")).Once()
	mockArtworkRepo.On("RestoreStock", ctx, "a-2", 2).Return(nil).Once()
	mockArtworkRepo.On("RestoreStock", ctx, "a-1", 1).Return(nil).Once()

	order, err := service.PlaceOrder(ctx, "u-1", []LineItem{
		{ArtworkID: "a-1", Quantity: 1},
		{ArtworkID: "a-2", Quantity: 2},
	})

	assert.Nil(t, order)
	assert.EqualError(t, err, "db down")
	mockArtworkRepo.AssertExpectations(t)
}

func TestOrderService_AdvanceStatus(t *testing.T) {
	testCases := []struct {
		name    string
		current domain.OrderStatus
		target  domain.OrderStatus
		ok      bool
	}{
		{name: "InProgress to Shipped", current: domain.OrderStatusInProgress, target: domain.OrderStatusShipped, ok: true},
		{name: "Shipped to Delivered", current: domain.OrderStatusShipped, target: domain.OrderStatusDelivered, ok: true},
		{name: "InProgress to Canceled", current: domain.OrderStatusInProgress, target: domain.OrderStatusCanceled, ok: true},
		{name: "InProgress to Delivered skips Shipped", current: domain.OrderStatusInProgress, target: domain.OrderStatusDelivered, ok: false},
		{name: "Shipped to Canceled", current: domain.OrderStatusShipped, target: domain.OrderStatusCanceled, ok: false},
		{name: "Delivered is terminal", current: domain.OrderStatusDelivered, target: domain.OrderStatusShipped, ok: false},
		{name: "Canceled is terminal", current: domain.OrderStatusCanceled, target: domain.OrderStatusShipped, ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockOrderRepo := &MockOrderRepository{}
			service := NewOrderService(mockOrderRepo, &MockArtworkRepository{}, nil, "", nil)

			ctx := context.Background()
			current := &domain.Order{ID: "o-1", UserID: "u-1", Status: tc.current}
			mockOrderRepo.On("GetByID", ctx, "o-1").Return(current, nil).Once()

			if tc.ok {
				updated := &domain.Order{ID: "o-1", UserID: "u-1", Status: tc.target}
				mockOrderRepo.On("UpdateStatus", ctx, "o-1", tc.target).Return(updated, nil).Once()
			}

			result, err := service.AdvanceStatus(ctx, "o-1", tc.target)
			if tc.ok {
				assert.NoError(t, err)
				assert.Equal(t, tc.target, result.Status)
			} else {
				assert.Nil(t, result)
				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
				mockOrderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestOrderService_AdvanceStatus_RejectsInProgressTarget(t *testing.T) {
	service := NewOrderService(&MockOrderRepository{}, &MockArtworkRepository{}, nil, "", nil)

	result, err := service.AdvanceStatus(context.Background(), "o-1", domain.OrderStatusInProgress)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// fakeArtworkLedger is an in-memory ArtworkRepository with the same
// compare-and-decrement semantics as the Postgres implementation.
type fakeArtworkLedger struct {
	mu       sync.Mutex
	artworks map[string]*domain.Artwork
}

func newFakeArtworkLedger(artworks ...*domain.Artwork) *fakeArtworkLedger {
	l := &fakeArtworkLedger{artworks: make(map[string]*domain.Artwork)}
	for _, a := range artworks {
		copied := *a
		l.artworks[a.ID] = &copied
	}
	return l
}

func (l *fakeArtworkLedger) Create(ctx context.Context, artwork *domain.Artwork) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	copied := *artwork
	l.artworks[artwork.ID] = &copied
	return nil
}

func (l *fakeArtworkLedger) GetByID(ctx context.Context, id string) (*domain.Artwork, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.artworks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (l *fakeArtworkLedger) List(ctx context.Context) ([]domain.Artwork, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Artwork, 0, len(l.artworks))
	for _, a := range l.artworks {
		out = append(out, *a)
	}
	return out, nil
}

func (l *fakeArtworkLedger) ReserveStock(ctx context.Context, id string, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.artworks[id]
	if !ok {
		return domain.ErrNotFound
	}
	if a.Quantity < qty {
		return &domain.InsufficientStockError{ArtworkID: id, Requested: qty, Available: a.Quantity}
	}
	a.Quantity -= qty
	return nil
}

func (l *fakeArtworkLedger) RestoreStock(ctx context.Context, id string, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.artworks[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Quantity += qty
	return nil
}

func (l *fakeArtworkLedger) quantity(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.artworks[id].Quantity
}

type fakeOrderStore struct {
	mu     sync.Mutex
	orders []*domain.Order
}

func (s *fakeOrderStore) Create(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, order)
	return nil
}

func (s *fakeOrderStore) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}

func (s *fakeOrderStore) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}

func (s *fakeOrderStore) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return nil, nil
}

func (s *fakeOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// Two concurrent orders whose combined quantity exceeds stock: exactly one
// succeeds and quantity-on-hand is conserved, never negative.
func TestOrderService_PlaceOrder_ConcurrentOverStock(t *testing.T) {
	ledger := newFakeArtworkLedger(&domain.Artwork{ID: "a-K", Title: "Sunset", Quantity: 3, PriceCents: 1000})
	store := &fakeOrderStore{}
	service := NewOrderService(store, ledger, nil, "", nil)

	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.PlaceOrder(ctx, "u-1", []LineItem{{ArtworkID: "a-K", Quantity: 2}})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			failures++
		}
	}
	assert.Equal(t, 1, failures)
	assert.Equal(t, 1, store.count())
	// 3 on hand, one order of 2 admitted: conservation leaves 1.
	assert.Equal(t, 1, ledger.quantity("a-K"))
}
