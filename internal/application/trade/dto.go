package trade

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockpilot/backend/internal/domain/trade"
)

// SaveOrderRequest carries the fields for creating or updating an order.
// Status accepts any string; unknown values fall back to PENDING.
type SaveOrderRequest struct {
	ID           *uuid.UUID `json:"id"`
	CustomerName string     `json:"customerName" binding:"max=200"`
	ProductID    *uuid.UUID `json:"productId"`
	SupplierID   *uuid.UUID `json:"supplierId"`
	Quantity     int        `json:"quantity"`
	Status       string     `json:"status"`
	OrderDate    *time.Time `json:"orderDate"`
}

// OrderResponse is the API representation of an order
type OrderResponse struct {
	ID           uuid.UUID  `json:"id"`
	CustomerName string     `json:"customerName"`
	ProductID    *uuid.UUID `json:"productId"`
	ProductName  string     `json:"productName,omitempty"`
	SupplierID   *uuid.UUID `json:"supplierId"`
	Quantity     int        `json:"quantity"`
	TotalPrice   float64    `json:"totalPrice"`
	Status       string     `json:"status"`
	OrderDate    time.Time  `json:"orderDate"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// OrderHistoryResponse is the API representation of a history row
type OrderHistoryResponse struct {
	ID             uuid.UUID `json:"id"`
	OrderID        uuid.UUID `json:"orderId"`
	PreviousStatus *string   `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	Note           string    `json:"note"`
	Actor          string    `json:"actor,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// OrderListFilter carries list query options
type OrderListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Status   string
	Search   string
}

// ToOrderResponse converts a domain order to its API representation
func ToOrderResponse(order *trade.Order) OrderResponse {
	resp := OrderResponse{
		ID:           order.ID,
		CustomerName: order.CustomerName,
		ProductID:    order.ProductID,
		SupplierID:   order.SupplierID,
		Quantity:     order.Quantity,
		TotalPrice:   order.TotalPrice.InexactFloat64(),
		Status:       string(order.EffectiveStatus()),
		OrderDate:    order.OrderDate,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
	if order.Product != nil {
		resp.ProductName = order.Product.Name
	}
	return resp
}

// ToOrderHistoryResponse converts a history row to its API representation
func ToOrderHistoryResponse(history *trade.OrderHistory) OrderHistoryResponse {
	resp := OrderHistoryResponse{
		ID:        history.ID,
		OrderID:   history.OrderID,
		NewStatus: string(history.NewStatus),
		Note:      history.Note,
		Actor:     history.Actor,
		Timestamp: history.CreatedAt,
	}
	if history.PreviousStatus != nil {
		prev := string(*history.PreviousStatus)
		resp.PreviousStatus = &prev
	}
	return resp
}
