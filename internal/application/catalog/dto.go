package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockpilot/backend/internal/domain/catalog"
)

// CreateProductRequest carries the fields for creating a product
type CreateProductRequest struct {
	Name        string     `json:"name" binding:"required,max=200"`
	Description string     `json:"description"`
	SKU         string     `json:"sku" binding:"max=50"`
	Price       float64    `json:"price" binding:"gte=0"`
	Quantity    int        `json:"quantity" binding:"gte=0"`
	CategoryID  *uuid.UUID `json:"categoryId"`
}

// UpdateProductRequest carries the fields for updating a product
type UpdateProductRequest struct {
	Name        string     `json:"name" binding:"required,max=200"`
	Description string     `json:"description"`
	Price       float64    `json:"price" binding:"gte=0"`
	CategoryID  *uuid.UUID `json:"categoryId"`
}

// AdjustStockRequest carries a manual stock level change
type AdjustStockRequest struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	SKU          string     `json:"sku,omitempty"`
	Price        float64    `json:"price"`
	Quantity     int        `json:"quantity"`
	CategoryID   *uuid.UUID `json:"categoryId"`
	CategoryName string     `json:"categoryName,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CreateCategoryRequest carries the fields for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

// UpdateCategoryRequest carries the fields for updating a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

// CategoryResponse is the API representation of a category
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListFilter carries list query options
type ListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// ToProductResponse converts a domain product to its API representation
func ToProductResponse(product *catalog.Product) ProductResponse {
	resp := ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		SKU:         product.SKU,
		Price:       product.Price.InexactFloat64(),
		Quantity:    product.Quantity,
		CategoryID:  product.CategoryID,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.Category != nil {
		resp.CategoryName = product.Category.Name
	}
	return resp
}

// ToCategoryResponse converts a domain category to its API representation
func ToCategoryResponse(category *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
