package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockpilot/backend/internal/domain/shared"
)

// DefaultLowStockThreshold is the stock level below which a product is
// considered low on the dashboard.
const DefaultLowStockThreshold = 10

// Product represents a stock-keeping item in the catalog
// It is the aggregate root for inventory operations
type Product struct {
	shared.BaseEntity
	Name        string          `gorm:"type:varchar(200);not null;index"`
	Description string          `gorm:"type:text"`
	SKU         string          `gorm:"type:varchar(50);index"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Quantity    int             `gorm:"not null;default:0"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Category    *Category       `gorm:"foreignKey:CategoryID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name string, price decimal.Decimal, quantity int) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product price cannot be negative")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product quantity cannot be negative")
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Price:      price,
		Quantity:   quantity,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string, price decimal.Decimal) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Product price cannot be negative")
	}

	p.Name = name
	p.Description = description
	p.Price = price
	p.Touch()

	return nil
}

// AssignCategory assigns the product to a category
func (p *Product) AssignCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.Touch()
}

// Reserve decrements stock by the given quantity.
// Returns INSUFFICIENT_STOCK when the on-hand quantity does not cover it.
func (p *Product) Reserve(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_OPERATION", "quantity must be provided and greater than zero")
	}
	if p.Quantity < quantity {
		return shared.NewDomainError("INSUFFICIENT_STOCK", fmt.Sprintf("insufficient inventory for product %s", p.Name))
	}

	p.Quantity -= quantity
	p.Touch()

	return nil
}

// Restock returns previously reserved stock to the on-hand quantity.
// The restored quantity is not capped.
func (p *Product) Restock(quantity int) {
	if quantity <= 0 {
		return
	}

	p.Quantity += quantity
	p.Touch()
}

// IsLowStock reports whether on-hand stock is strictly below the threshold
func (p *Product) IsLowStock(threshold int) bool {
	return p.Quantity < threshold
}

// StockValue returns price multiplied by on-hand quantity
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Product name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Product name cannot exceed 200 characters")
	}
	return nil
}
