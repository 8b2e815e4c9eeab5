package bulk

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	appTrade "github.com/stockpilot/backend/internal/application/trade"
	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/partner"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/domain/trade"
	"github.com/stockpilot/backend/internal/infrastructure/csvimport"
)

// Order CSV column set
const (
	colOrderProduct  = "Product"
	colOrderQuantity = "Quantity"
	colOrderStatus   = "Status"
	colOrderSupplier = "Supplier"
)

var orderExportHeader = []string{"ID", "Product", "Quantity", "Status", "Total Price", "Supplier", "Order Date"}

// OrderCSVService imports and exports orders as CSV. Imported rows go
// through the regular order save, so confirmed rows move stock like any
// other confirmation.
type OrderCSVService struct {
	orderService *appTrade.OrderService
	orderRepo    trade.OrderRepository
	productRepo  catalog.ProductRepository
	supplierRepo partner.SupplierRepository
	errorLimit   int
}

// NewOrderCSVService creates a new OrderCSVService
func NewOrderCSVService(
	orderService *appTrade.OrderService,
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	supplierRepo partner.SupplierRepository,
) *OrderCSVService {
	return &OrderCSVService{
		orderService: orderService,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		errorLimit:   DefaultImportErrorLimit,
	}
}

// SetErrorLimit overrides the per-import error cap
func (s *OrderCSVService) SetErrorLimit(n int) {
	s.errorLimit = n
}

// Import reads orders from CSV data. Products are referenced by name,
// matched case-insensitively, and must exist. Suppliers are optional and
// created on first mention. Status defaults to PENDING when the column is
// empty; an unknown status fails the row.
func (s *OrderCSVService) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	parser, err := csvimport.NewParserFromBytes(data)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	if missing := parser.MissingHeaders([]string{colOrderProduct, colOrderQuantity}); len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %v", missing)
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, err
	}

	result := collectRows(rows, s.errorLimit, func(row *csvimport.Row) error {
		return s.importRow(ctx, row)
	})
	return result, nil
}

func (s *OrderCSVService) importRow(ctx context.Context, row *csvimport.Row) error {
	productName := row.Get(colOrderProduct)
	if productName == "" {
		return fmt.Errorf("Product name is required")
	}
	quantityStr := row.Get(colOrderQuantity)
	if quantityStr == "" {
		return fmt.Errorf("Quantity is required")
	}

	quantity, err := strconv.Atoi(quantityStr)
	if err != nil {
		return fmt.Errorf("Invalid quantity format")
	}
	if quantity <= 0 {
		return fmt.Errorf("Quantity must be greater than 0")
	}

	product, err := s.productRepo.FindByName(ctx, productName)
	if err != nil || product == nil {
		return fmt.Errorf("Product '%s' not found", productName)
	}

	req := appTrade.SaveOrderRequest{
		ProductID: &product.ID,
		Quantity:  quantity,
	}

	if supplierName := row.Get(colOrderSupplier); supplierName != "" {
		supplier, err := s.findOrCreateSupplier(ctx, supplierName)
		if err != nil {
			return err
		}
		req.SupplierID = &supplier.ID
	}

	if statusStr := row.Get(colOrderStatus); statusStr != "" {
		status := trade.OrderStatus(strings.ToUpper(statusStr))
		if !status.IsValid() {
			return fmt.Errorf("Invalid status '%s'", statusStr)
		}
		req.Status = string(status)
	}

	_, err = s.orderService.SaveOrder(ctx, req)
	return err
}

func (s *OrderCSVService) findOrCreateSupplier(ctx context.Context, name string) (*partner.Supplier, error) {
	supplier, err := s.supplierRepo.FindByName(ctx, name)
	if err == nil && supplier != nil {
		return supplier, nil
	}
	if err != nil {
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
			return nil, err
		}
	}

	supplier, err = partner.NewSupplier(name)
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Export writes all orders as CSV
func (s *OrderCSVService) Export(ctx context.Context) ([]byte, error) {
	orders, err := s.orderRepo.FindAllWithProduct(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(orderExportHeader); err != nil {
		return nil, err
	}

	for i := range orders {
		order := &orders[i]
		supplierName := ""
		if order.Supplier != nil {
			supplierName = order.Supplier.Name
		}
		record := []string{
			order.ID.String(),
			order.ProductName(""),
			strconv.Itoa(order.Quantity),
			string(order.EffectiveStatus()),
			order.TotalPrice.String(),
			supplierName,
			order.OrderDate.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
