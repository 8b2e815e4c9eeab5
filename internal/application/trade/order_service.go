package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/domain/trade"
)

// StatusChangedNote is the note recorded on every status transition
const StatusChangedNote = "Status changed"

// OrderService handles order business operations, including the stock
// reconciliation that accompanies status transitions
type OrderService struct {
	scope       TransactionScope
	orderRepo   trade.OrderRepository
	historyRepo trade.OrderHistoryRepository
}

// NewOrderService creates a new OrderService
func NewOrderService(scope TransactionScope, orderRepo trade.OrderRepository, historyRepo trade.OrderHistoryRepository) *OrderService {
	return &OrderService{
		scope:       scope,
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
	}
}

// SaveOrder creates or updates an order and reconciles product stock against
// the status transition. The whole operation runs in a single transaction:
// stock movement, order save and history row commit or roll back together.
//
// Stock rules:
//   - entering CONFIRMED from any other status reserves the ordered quantity
//   - leaving CONFIRMED for CANCELLED returns the previously reserved quantity
//   - every other transition leaves stock untouched
func (s *OrderService) SaveOrder(ctx context.Context, req SaveOrderRequest) (*OrderResponse, error) {
	var saved *trade.Order

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var order *trade.Order
		var previousStatus *trade.OrderStatus

		if req.ID != nil {
			existing, err := repos.OrderRepo().FindByID(ctx, *req.ID)
			switch {
			case err == nil:
				order = existing
				prev := existing.EffectiveStatus()
				previousStatus = &prev
			case isNotFound(err):
				// No persisted order under this ID: treat it as a create
				// with no previous status, keeping the requested ID.
				order = trade.NewOrder(req.CustomerName, req.ProductID, req.Quantity)
				order.ID = *req.ID
			default:
				return err
			}
		} else {
			order = trade.NewOrder(req.CustomerName, req.ProductID, req.Quantity)
		}

		newStatus := trade.ParseOrderStatus(req.Status)

		wasConfirmed := previousStatus != nil && *previousStatus == trade.OrderStatusConfirmed
		if !wasConfirmed && newStatus == trade.OrderStatusConfirmed {
			if err := s.reserveStock(ctx, repos, req.ProductID, req.Quantity); err != nil {
				return err
			}
		}
		if wasConfirmed && newStatus == trade.OrderStatusCancelled {
			if err := s.restoreStock(ctx, repos, req.ProductID, req.Quantity); err != nil {
				return err
			}
		}

		order.CustomerName = req.CustomerName
		order.ProductID = req.ProductID
		order.SupplierID = req.SupplierID
		order.Quantity = req.Quantity
		order.Status = newStatus
		if req.OrderDate != nil {
			order.OrderDate = *req.OrderDate
		} else if order.OrderDate.IsZero() {
			order.OrderDate = time.Now()
		}
		order.Touch()

		if err := s.applyTotalPrice(ctx, repos, order); err != nil {
			return err
		}

		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		if previousStatus == nil || *previousStatus != newStatus {
			history := trade.NewOrderHistory(order.ID, previousStatus, newStatus, StatusChangedNote)
			if err := repos.HistoryRepo().Save(ctx, history); err != nil {
				return err
			}
		}

		saved = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(saved)
	return &resp, nil
}

// reserveStock decrements product stock for an order entering CONFIRMED
func (s *OrderService) reserveStock(ctx context.Context, repos TransactionalRepositories, productID *uuid.UUID, quantity int) error {
	product, err := s.lookupProduct(ctx, repos, productID)
	if err != nil {
		return err
	}
	if err := product.Reserve(quantity); err != nil {
		return err
	}
	return repos.ProductRepo().Save(ctx, product)
}

// restoreStock returns the reserved quantity for a confirmed order being
// cancelled. The product must still resolve; a dangling reference fails the
// cancellation.
func (s *OrderService) restoreStock(ctx context.Context, repos TransactionalRepositories, productID *uuid.UUID, quantity int) error {
	product, err := s.lookupProduct(ctx, repos, productID)
	if err != nil {
		return err
	}
	product.Restock(quantity)
	return repos.ProductRepo().Save(ctx, product)
}

// applyTotalPrice recomputes the order total from the product's current price
// when the product reference resolves
func (s *OrderService) applyTotalPrice(ctx context.Context, repos TransactionalRepositories, order *trade.Order) error {
	if order.ProductID == nil {
		return nil
	}
	product, err := repos.ProductRepo().FindByID(ctx, *order.ProductID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	order.TotalPrice = product.Price.Mul(decimal.NewFromInt(int64(order.Quantity)))
	return nil
}

func (s *OrderService) lookupProduct(ctx context.Context, repos TransactionalRepositories, productID *uuid.UUID) (*catalog.Product, error) {
	if productID == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Product not found for this order")
	}
	product, err := repos.LockProduct(ctx, *productID)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND"
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (shared.Paginated[OrderResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.DefaultFilter()
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Status != "" {
		status := trade.OrderStatus(filter.Status)
		if !status.IsValid() {
			return shared.Paginated[OrderResponse]{}, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown order status %q", filter.Status))
		}
		domainFilter.Filters["status"] = string(status)
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, ToOrderResponse(&orders[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Delete removes an order. Stock is not adjusted on delete.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.orderRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.orderRepo.Delete(ctx, id)
}

// GetHistory retrieves the status transition log for an order, newest first
func (s *OrderService) GetHistory(ctx context.Context, orderID uuid.UUID) ([]OrderHistoryResponse, error) {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	rows, err := s.historyRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	responses := make([]OrderHistoryResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, ToOrderHistoryResponse(&rows[i]))
	}
	return responses, nil
}
