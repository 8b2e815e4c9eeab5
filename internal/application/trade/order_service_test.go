package trade

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/domain/trade"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllWithProduct(ctx context.Context) ([]trade.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status trade.OrderStatus, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderHistoryRepository is a mock implementation of OrderHistoryRepository
type MockOrderHistoryRepository struct {
	mock.Mock
}

func (m *MockOrderHistoryRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]trade.OrderHistory, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]trade.OrderHistory), args.Error(1)
}

func (m *MockOrderHistoryRepository) Save(ctx context.Context, history *trade.OrderHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllWithCategory(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBelowQuantity(ctx context.Context, threshold int) ([]catalog.Product, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type orderServiceFixture struct {
	orderRepo   *MockOrderRepository
	historyRepo *MockOrderHistoryRepository
	productRepo *MockProductRepository
	service     *OrderService
}

func newOrderServiceFixture() *orderServiceFixture {
	orderRepo := new(MockOrderRepository)
	historyRepo := new(MockOrderHistoryRepository)
	productRepo := new(MockProductRepository)
	scope := NewNoOpTransactionScope(orderRepo, historyRepo, productRepo)
	return &orderServiceFixture{
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
		productRepo: productRepo,
		service:     NewOrderService(scope, orderRepo, historyRepo),
	}
}

func newTestProduct(t *testing.T, name string, price int64, quantity int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, decimal.NewFromInt(price), quantity)
	require.NoError(t, err)
	return product
}

func TestSaveOrderCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults status to PENDING and records history", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.orderRepo.On("Save", ctx, mock.AnythingOfType("*trade.Order")).Return(nil)

		var history *trade.OrderHistory
		f.historyRepo.On("Save", ctx, mock.AnythingOfType("*trade.OrderHistory")).
			Run(func(args mock.Arguments) { history = args.Get(1).(*trade.OrderHistory) }).
			Return(nil)

		resp, err := f.service.SaveOrder(ctx, SaveOrderRequest{CustomerName: "Acme", Quantity: 2})
		require.NoError(t, err)

		assert.Equal(t, "PENDING", resp.Status)
		require.NotNil(t, history)
		assert.Nil(t, history.PreviousStatus)
		assert.Equal(t, trade.OrderStatusPending, history.NewStatus)
		assert.Equal(t, "Status changed", history.Note)
		assert.Empty(t, history.Actor)
	})

	t.Run("falls back to PENDING for unknown status", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.historyRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := f.service.SaveOrder(ctx, SaveOrderRequest{Status: "whatever", Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
	})

	t.Run("computes total price from product price", func(t *testing.T) {
		f := newOrderServiceFixture()
		product := newTestProduct(t, "Widget", 100, 50)
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.historyRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := f.service.SaveOrder(ctx, SaveOrderRequest{ProductID: &product.ID, Quantity: 3})
		require.NoError(t, err)
		assert.Equal(t, float64(300), resp.TotalPrice)
	})

	t.Run("leaves total price untouched when product is missing", func(t *testing.T) {
		f := newOrderServiceFixture()
		productID := uuid.New()
		f.productRepo.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.historyRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := f.service.SaveOrder(ctx, SaveOrderRequest{ProductID: &productID, Quantity: 3})
		require.NoError(t, err)
		assert.Equal(t, float64(0), resp.TotalPrice)
	})
}

func TestSaveOrderConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves stock when entering CONFIRMED", func(t *testing.T) {
		f := newOrderServiceFixture()
		product := newTestProduct(t, "Widget", 100, 10)
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.productRepo.On("Save", ctx, product).Return(nil)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.historyRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := f.service.SaveOrder(ctx, SaveOrderRequest{
			ProductID: &product.ID,
			Quantity:  3,
			Status:    "CONFIRMED",
		})
		require.NoError(t, err)

		assert.Equal(t, "CONFIRMED", resp.Status)
		assert.Equal(t, 7, product.Quantity)
		f.productRepo.AssertCalled(t, "Save", ctx, product)
	})

	t.Run("fails when product reference is absent", func(t *testing.T) {
		f := newOrderServiceFixture()

		_, err := f.service.SaveOrder(ctx, SaveOrderRequest{Quantity: 3, Status: "CONFIRMED"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fails when product does not exist", func(t *testing.T) {
		f := newOrderServiceFixture()
		productID := uuid.New()
		f.productRepo.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)

		_, err := f.service.SaveOrder(ctx, SaveOrderRequest{ProductID: &productID, Quantity: 3, Status: "CONFIRMED"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})

	t.Run("fails when quantity is not positive", func(t *testing.T) {
		f := newOrderServiceFixture()
		product := newTestProduct(t, "Widget", 100, 10)
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := f.service.SaveOrder(ctx, SaveOrderRequest{ProductID: &product.ID, Quantity: 0, Status: "CONFIRMED"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_OPERATION", domainErr.Code)
		assert.Equal(t, "quantity must be provided and greater than zero", domainErr.Message)
		assert.Equal(t, 10, product.Quantity)
	})

	t.Run("fails when stock is insufficient", func(t *testing.T) {
		f := newOrderServiceFixture()
		product := newTestProduct(t, "Widget", 100, 2)
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := f.service.SaveOrder(ctx, SaveOrderRequest{ProductID: &product.ID, Quantity: 5, Status: "CONFIRMED"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Equal(t, "insufficient inventory for product Widget", domainErr.Message)
		assert.Equal(t, 2, product.Quantity)
	})

	t.Run("does not reserve again when staying CONFIRMED", func(t *testing.T) {
		f := newOrderServiceFixture()
		product := newTestProduct(t, "Widget", 100, 10)
		existing := trade.NewOrder("Acme", &product.ID, 3)
		existing.Status = trade.OrderStatusConfirmed

		f.orderRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)

		_, err := f.service.SaveOrder(ctx, SaveOrderRequest{
			ID:        &existing.ID,
			ProductID: &product.ID,
			Quantity:  3,
			Status:    "CONFIRMED",
		})
		require.NoError(t, err)

		assert.Equal(t, 10, product.Quantity)
		f.historyRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSaveOrderCancellation(t *testing.T) {
	ctx := context.Background()

	t.Run("restores stock when cancelling a confirmed order", func(t *testing.T) {
		f := newOrderServiceFixture()
		product := newTestProduct(t, "Widget", 100, 7)
		existing := trade.NewOrder("Acme", &product.ID, 3)
		existing.Status = trade.OrderStatusConfirmed

		f.orderRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.productRepo.On("Save", ctx, product).Return(nil)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)

		var history *trade.OrderHistory
		f.historyRepo.On("Save", ctx, mock.AnythingOfType("*trade.OrderHistory")).
			Run(func(args mock.Arguments) { history = args.Get(1).(*trade.OrderHistory) }).
			Return(nil)

		resp, err := f.service.SaveOrder(ctx, SaveOrderRequest{
			ID:        &existing.ID,
			ProductID: &product.ID,
			Quantity:  3,
			Status:    "CANCELLED",
		})
		require.NoError(t, err)

		assert.Equal(t, "CANCELLED", resp.Status)
		assert.Equal(t, 10, product.Quantity)
		require.NotNil(t, history)
		require.NotNil(t, history.PreviousStatus)
		assert.Equal(t, trade.OrderStatusConfirmed, *history.PreviousStatus)
		assert.Equal(t, trade.OrderStatusCancelled, history.NewStatus)
	})

	t.Run("restores the quantity even past the original level", func(t *testing.T) {
		f := newOrderServiceFixture()
		product := newTestProduct(t, "Widget", 100, 100)
		existing := trade.NewOrder("Acme", &product.ID, 50)
		existing.Status = trade.OrderStatusConfirmed

		f.orderRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.productRepo.On("Save", ctx, product).Return(nil)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.historyRepo.On("Save", ctx, mock.Anything).Return(nil)

		_, err := f.service.SaveOrder(ctx, SaveOrderRequest{
			ID:        &existing.ID,
			ProductID: &product.ID,
			Quantity:  50,
			Status:    "CANCELLED",
		})
		require.NoError(t, err)
		assert.Equal(t, 150, product.Quantity)
	})

	t.Run("restores the submitted quantity when it differs from the stored one", func(t *testing.T) {
		f := newOrderServiceFixture()
		product := newTestProduct(t, "Widget", 100, 7)
		existing := trade.NewOrder("Acme", &product.ID, 5)
		existing.Status = trade.OrderStatusConfirmed

		f.orderRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.productRepo.On("Save", ctx, product).Return(nil)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.historyRepo.On("Save", ctx, mock.Anything).Return(nil)

		_, err := f.service.SaveOrder(ctx, SaveOrderRequest{
			ID:        &existing.ID,
			ProductID: &product.ID,
			Quantity:  3,
			Status:    "CANCELLED",
		})
		require.NoError(t, err)
		assert.Equal(t, 10, product.Quantity)
	})

	t.Run("fails when the product no longer exists", func(t *testing.T) {
		f := newOrderServiceFixture()
		productID := uuid.New()
		existing := trade.NewOrder("Acme", &productID, 3)
		existing.Status = trade.OrderStatusConfirmed

		f.orderRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		f.productRepo.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)

		_, err := f.service.SaveOrder(ctx, SaveOrderRequest{
			ID:        &existing.ID,
			ProductID: &productID,
			Quantity:  3,
			Status:    "CANCELLED",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.historyRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fails when the order has no product reference", func(t *testing.T) {
		f := newOrderServiceFixture()
		existing := trade.NewOrder("Acme", nil, 3)
		existing.Status = trade.OrderStatusConfirmed

		f.orderRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)

		_, err := f.service.SaveOrder(ctx, SaveOrderRequest{
			ID:       &existing.ID,
			Quantity: 3,
			Status:   "CANCELLED",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("does not restore when cancelling a pending order", func(t *testing.T) {
		f := newOrderServiceFixture()
		product := newTestProduct(t, "Widget", 100, 7)
		existing := trade.NewOrder("Acme", &product.ID, 3)

		f.orderRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.historyRepo.On("Save", ctx, mock.Anything).Return(nil)

		_, err := f.service.SaveOrder(ctx, SaveOrderRequest{
			ID:        &existing.ID,
			ProductID: &product.ID,
			Quantity:  3,
			Status:    "CANCELLED",
		})
		require.NoError(t, err)
		assert.Equal(t, 7, product.Quantity)
	})
}

func TestSaveOrderTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("CONFIRMED to COMPLETED leaves stock untouched", func(t *testing.T) {
		f := newOrderServiceFixture()
		product := newTestProduct(t, "Widget", 100, 7)
		existing := trade.NewOrder("Acme", &product.ID, 3)
		existing.Status = trade.OrderStatusConfirmed

		f.orderRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.historyRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := f.service.SaveOrder(ctx, SaveOrderRequest{
			ID:        &existing.ID,
			ProductID: &product.ID,
			Quantity:  3,
			Status:    "COMPLETED",
		})
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", resp.Status)
		assert.Equal(t, 7, product.Quantity)
		f.productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("no history row when status is unchanged", func(t *testing.T) {
		f := newOrderServiceFixture()
		existing := trade.NewOrder("Acme", nil, 3)

		f.orderRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)

		_, err := f.service.SaveOrder(ctx, SaveOrderRequest{
			ID:       &existing.ID,
			Quantity: 3,
			Status:   "PENDING",
		})
		require.NoError(t, err)
		f.historyRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("creates under the requested ID when no order exists", func(t *testing.T) {
		f := newOrderServiceFixture()
		id := uuid.New()
		f.orderRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		var savedOrder *trade.Order
		f.orderRepo.On("Save", ctx, mock.AnythingOfType("*trade.Order")).
			Run(func(args mock.Arguments) { savedOrder = args.Get(1).(*trade.Order) }).
			Return(nil)

		var history *trade.OrderHistory
		f.historyRepo.On("Save", ctx, mock.AnythingOfType("*trade.OrderHistory")).
			Run(func(args mock.Arguments) { history = args.Get(1).(*trade.OrderHistory) }).
			Return(nil)

		resp, err := f.service.SaveOrder(ctx, SaveOrderRequest{ID: &id, CustomerName: "Acme", Quantity: 1})
		require.NoError(t, err)

		assert.Equal(t, id, resp.ID)
		require.NotNil(t, savedOrder)
		assert.Equal(t, id, savedOrder.ID)
		assert.Equal(t, "PENDING", resp.Status)

		// No prior record means no previous status on the history row
		require.NotNil(t, history)
		assert.Nil(t, history.PreviousStatus)
		assert.Equal(t, trade.OrderStatusPending, history.NewStatus)
	})

	t.Run("propagates lookup failures other than not found", func(t *testing.T) {
		f := newOrderServiceFixture()
		id := uuid.New()
		f.orderRepo.On("FindByID", ctx, id).Return(nil, assert.AnError)

		_, err := f.service.SaveOrder(ctx, SaveOrderRequest{ID: &id, Quantity: 1})
		require.ErrorIs(t, err, assert.AnError)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestGetHistory(t *testing.T) {
	ctx := context.Background()

	f := newOrderServiceFixture()
	order := trade.NewOrder("Acme", nil, 1)
	previous := trade.OrderStatusPending
	rows := []trade.OrderHistory{
		*trade.NewOrderHistory(order.ID, &previous, trade.OrderStatusConfirmed, StatusChangedNote),
		*trade.NewOrderHistory(order.ID, nil, trade.OrderStatusPending, StatusChangedNote),
	}

	f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	f.historyRepo.On("FindByOrderID", ctx, order.ID).Return(rows, nil)

	responses, err := f.service.GetHistory(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, responses, 2)

	require.NotNil(t, responses[0].PreviousStatus)
	assert.Equal(t, "PENDING", *responses[0].PreviousStatus)
	assert.Equal(t, "CONFIRMED", responses[0].NewStatus)
	assert.Nil(t, responses[1].PreviousStatus)
}
