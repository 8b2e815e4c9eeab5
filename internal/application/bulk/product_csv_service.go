package bulk

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/infrastructure/csvimport"
)

// Product CSV column set. Import and export share the same vocabulary.
const (
	colProductName        = "Name"
	colProductDescription = "Description"
	colProductQuantity    = "Quantity"
	colProductPrice       = "Price"
	colProductCategory    = "Category"
)

var productExportHeader = []string{"ID", "Name", "Description", "Quantity", "Price", "Category", "Created At"}

// DefaultImportErrorLimit caps how many row errors an import reports before
// the rest of the file is abandoned.
const DefaultImportErrorLimit = 100

// ImportResult summarizes a CSV import run. Errors are row-scoped display
// strings in "Row N: message" form; clean rows are imported regardless of
// failures elsewhere in the file.
type ImportResult struct {
	TotalRows    int      `json:"totalRows"`
	ImportedRows int      `json:"importedRows"`
	Errors       []string `json:"errors"`
}

// collectRows runs importRow over every row, accumulating row-scoped errors
// up to errorLimit. Once the limit is hit the remaining rows are skipped and
// a terminal note is appended.
func collectRows(rows []*csvimport.Row, errorLimit int, importRow func(row *csvimport.Row) error) *ImportResult {
	result := &ImportResult{TotalRows: len(rows), Errors: []string{}}
	for _, row := range rows {
		if err := importRow(row); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", row.LineNumber, err.Error()))
			if errorLimit > 0 && len(result.Errors) >= errorLimit {
				result.Errors = append(result.Errors, fmt.Sprintf("Import aborted after %d errors", errorLimit))
				break
			}
			continue
		}
		result.ImportedRows++
	}
	return result
}

// ProductCSVService imports and exports the product catalog as CSV
type ProductCSVService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	errorLimit   int
}

// NewProductCSVService creates a new ProductCSVService
func NewProductCSVService(productRepo catalog.ProductRepository, categoryRepo catalog.CategoryRepository) *ProductCSVService {
	return &ProductCSVService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		errorLimit:   DefaultImportErrorLimit,
	}
}

// SetErrorLimit overrides the per-import error cap
func (s *ProductCSVService) SetErrorLimit(n int) {
	s.errorLimit = n
}

// Import reads products from CSV data. Each row is validated independently;
// a bad row is reported and skipped without aborting the rest of the file.
// Category names are matched case-insensitively against existing categories
// and left unset when there is no match.
func (s *ProductCSVService) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	parser, err := csvimport.NewParserFromBytes(data)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	if missing := parser.MissingHeaders([]string{colProductName, colProductQuantity, colProductPrice}); len(missing) > 0 {
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

func (s *ProductCSVService) importRow(ctx context.Context, row *csvimport.Row) error {
	name := row.Get(colProductName)
	if name == "" {
		return fmt.Errorf("Product name is required")
	}
	quantityStr := row.Get(colProductQuantity)
	if quantityStr == "" {
		return fmt.Errorf("Quantity is required")
	}
	priceStr := row.Get(colProductPrice)
	if priceStr == "" {
		return fmt.Errorf("Price is required")
	}

	quantity, err := strconv.Atoi(quantityStr)
	if err != nil {
		return fmt.Errorf("Invalid quantity or price format")
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return fmt.Errorf("Invalid quantity or price format")
	}
	if quantity < 0 {
		return fmt.Errorf("Quantity cannot be negative")
	}
	if price.IsNegative() {
		return fmt.Errorf("Price cannot be negative")
	}

	product, err := catalog.NewProduct(name, price, quantity)
	if err != nil {
		return err
	}
	product.Description = row.Get(colProductDescription)

	if categoryName := row.Get(colProductCategory); categoryName != "" {
		if category, err := s.categoryRepo.FindByName(ctx, categoryName); err == nil && category != nil {
			product.AssignCategory(&category.ID)
		}
	}

	return s.productRepo.Save(ctx, product)
}

// Export writes the full catalog as CSV
func (s *ProductCSVService) Export(ctx context.Context) ([]byte, error) {
	products, err := s.productRepo.FindAllWithCategory(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(productExportHeader); err != nil {
		return nil, err
	}

	for i := range products {
		product := &products[i]
		categoryName := ""
		if product.Category != nil {
			categoryName = product.Category.Name
		}
		record := []string{
			product.ID.String(),
			product.Name,
			product.Description,
			strconv.Itoa(product.Quantity),
			product.Price.String(),
			categoryName,
			product.CreatedAt.Format(time.RFC3339),
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
