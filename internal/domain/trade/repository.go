package trade

import (
	"context"

	"github.com/google/uuid"

	"github.com/stockpilot/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll finds all orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindAllWithProduct finds all orders with product and category preloaded
	FindAllWithProduct(ctx context.Context) ([]Order, error)

	// FindByStatus finds orders in the given status
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// Delete removes an order
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// OrderHistoryRepository defines the interface for order history persistence
type OrderHistoryRepository interface {
	// FindByOrderID finds all history rows for an order, newest first
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]OrderHistory, error)

	// Save appends a history row
	Save(ctx context.Context, history *OrderHistory) error
}
