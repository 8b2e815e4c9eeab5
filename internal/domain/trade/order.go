package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/partner"
	"github.com/stockpilot/backend/internal/domain/shared"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// AllOrderStatuses lists every status in display order
var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// ParseOrderStatus maps a raw string to an OrderStatus.
// Unknown or empty values fall back to PENDING.
func ParseOrderStatus(raw string) OrderStatus {
	status := OrderStatus(raw)
	for _, s := range AllOrderStatuses {
		if status == s {
			return s
		}
	}
	return OrderStatusPending
}

// IsValid reports whether the status is one of the known states
func (s OrderStatus) IsValid() bool {
	for _, known := range AllOrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order represents a customer order for a single product
// It is the aggregate root for trade operations
type Order struct {
	shared.BaseEntity
	CustomerName string            `gorm:"type:varchar(200);index"`
	ProductID    *uuid.UUID        `gorm:"type:uuid;index"`
	Product      *catalog.Product  `gorm:"foreignKey:ProductID"`
	SupplierID   *uuid.UUID        `gorm:"type:uuid;index"`
	Supplier     *partner.Supplier `gorm:"foreignKey:SupplierID"`
	Quantity     int               `gorm:"not null;default:0"`
	TotalPrice   decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Status       OrderStatus       `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	OrderDate    time.Time         `gorm:"index"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in PENDING state
func NewOrder(customerName string, productID *uuid.UUID, quantity int) *Order {
	return &Order{
		BaseEntity:   shared.NewBaseEntity(),
		CustomerName: customerName,
		ProductID:    productID,
		Quantity:     quantity,
		Status:       OrderStatusPending,
		OrderDate:    time.Now(),
	}
}

// EffectiveStatus returns the order status, treating empty as PENDING
func (o *Order) EffectiveStatus() OrderStatus {
	if o.Status == "" {
		return OrderStatusPending
	}
	return o.Status
}

// ProductName returns the associated product's name, or fallback when the
// product is missing
func (o *Order) ProductName(fallback string) string {
	if o.Product == nil {
		return fallback
	}
	return o.Product.Name
}

// OrderHistory records a single status transition on an order
type OrderHistory struct {
	shared.BaseEntity
	OrderID        uuid.UUID    `gorm:"type:uuid;not null;index"`
	PreviousStatus *OrderStatus `gorm:"type:varchar(20)"`
	NewStatus      OrderStatus  `gorm:"type:varchar(20);not null"`
	Note           string       `gorm:"type:varchar(200)"`
	Actor          string       `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (OrderHistory) TableName() string {
	return "order_histories"
}

// NewOrderHistory creates a history row for a status transition
func NewOrderHistory(orderID uuid.UUID, previous *OrderStatus, next OrderStatus, note string) *OrderHistory {
	return &OrderHistory{
		BaseEntity:     shared.NewBaseEntity(),
		OrderID:        orderID,
		PreviousStatus: previous,
		NewStatus:      next,
		Note:           note,
	}
}
