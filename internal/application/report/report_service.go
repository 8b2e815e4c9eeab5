package report

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/trade"
)

const (
	// UnknownProductLabel buckets completed orders whose product is gone
	UnknownProductLabel = "Unknown"
	// UncategorizedLabel buckets products without a category
	UncategorizedLabel = "Uncategorized"
	// NoCategoryLabel marks low-stock rows without a category
	NoCategoryLabel = "N/A"

	// DefaultMonthlyWindow is the number of months covered when none is given
	DefaultMonthlyWindow = 6

	topProductsLimit = 10
	monthLabelFormat = "2006-01"
)

// ReportService computes chart-ready aggregations over full snapshots of the
// product and order collections. All operations are read-only and tolerate
// empty snapshots.
type ReportService struct {
	orderRepo   trade.OrderRepository
	productRepo catalog.ProductRepository
	now         func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(orderRepo trade.OrderRepository, productRepo catalog.ProductRepository) *ReportService {
	return &ReportService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		now:         time.Now,
	}
}

// SetClock overrides the time source, for tests
func (s *ReportService) SetClock(now func() time.Time) {
	s.now = now
}

// SalesByProduct sums completed-order revenue per product name, keeps the
// top ten groups by value and reports totalSales over that truncated set.
// The truncation-then-sum order is part of the wire contract.
func (s *ReportService) SalesByProduct(ctx context.Context) (*SalesChartResponse, error) {
	orders, err := s.orderRepo.FindAllWithProduct(ctx)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal)
	var names []string
	for i := range orders {
		order := &orders[i]
		if order.EffectiveStatus() != trade.OrderStatusCompleted {
			continue
		}
		name := order.ProductName(UnknownProductLabel)
		if _, seen := sums[name]; !seen {
			names = append(names, name)
		}
		sums[name] = sums[name].Add(order.TotalPrice)
	}

	// Stable sort keeps insertion order for equal sums
	sort.SliceStable(names, func(i, j int) bool {
		return sums[names[i]].GreaterThan(sums[names[j]])
	})
	if len(names) > topProductsLimit {
		names = names[:topProductsLimit]
	}

	resp := &SalesChartResponse{Labels: []string{}, Data: []float64{}}
	total := decimal.Zero
	for _, name := range names {
		resp.Labels = append(resp.Labels, name)
		resp.Data = append(resp.Data, sums[name].InexactFloat64())
		total = total.Add(sums[name])
	}
	resp.TotalSales = total.InexactFloat64()
	return resp, nil
}

// SalesByCategory sums completed-order revenue per category name. Orders
// whose product or category is missing are skipped rather than bucketed.
func (s *ReportService) SalesByCategory(ctx context.Context) (*SalesChartResponse, error) {
	orders, err := s.orderRepo.FindAllWithProduct(ctx)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal)
	var names []string
	for i := range orders {
		order := &orders[i]
		if order.EffectiveStatus() != trade.OrderStatusCompleted {
			continue
		}
		if order.Product == nil || order.Product.Category == nil {
			continue
		}
		name := order.Product.Category.Name
		if _, seen := sums[name]; !seen {
			names = append(names, name)
		}
		sums[name] = sums[name].Add(order.TotalPrice)
	}

	sort.SliceStable(names, func(i, j int) bool {
		return sums[names[i]].GreaterThan(sums[names[j]])
	})

	resp := &SalesChartResponse{Labels: []string{}, Data: []float64{}}
	total := decimal.Zero
	for _, name := range names {
		resp.Labels = append(resp.Labels, name)
		resp.Data = append(resp.Data, sums[name].InexactFloat64())
		total = total.Add(sums[name])
	}
	resp.TotalSales = total.InexactFloat64()
	return resp, nil
}

// LowStockProducts lists products with stock strictly below the threshold,
// ordered by quantity ascending
func (s *ReportService) LowStockProducts(ctx context.Context, threshold int) ([]LowStockProductResponse, error) {
	products, err := s.productRepo.FindBelowQuantity(ctx, threshold)
	if err != nil {
		return nil, err
	}

	items := make([]LowStockProductResponse, 0, len(products))
	for i := range products {
		product := &products[i]
		categoryName := NoCategoryLabel
		if product.Category != nil {
			categoryName = product.Category.Name
		}
		items = append(items, LowStockProductResponse{
			ID:           product.ID,
			Name:         product.Name,
			Quantity:     product.Quantity,
			CategoryName: categoryName,
		})
	}
	return items, nil
}

// OrderStatusDistribution counts orders per status over the fixed label set.
// Orders with an absent or unknown status count as PENDING.
func (s *ReportService) OrderStatusDistribution(ctx context.Context) (*StatusDistributionResponse, error) {
	orders, err := s.orderRepo.FindAllWithProduct(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[trade.OrderStatus]int, len(trade.AllOrderStatuses))
	for _, status := range trade.AllOrderStatuses {
		counts[status] = 0
	}
	for i := range orders {
		counts[trade.ParseOrderStatus(string(orders[i].Status))]++
	}

	resp := &StatusDistributionResponse{Labels: []string{}, Data: []int{}}
	for _, status := range trade.AllOrderStatuses {
		resp.Labels = append(resp.Labels, string(status))
		resp.Data = append(resp.Data, counts[status])
		resp.TotalOrders += counts[status]
	}
	return resp, nil
}

// MonthlySalesSummary buckets completed-order revenue into the last `months`
// calendar months ending at the current month, oldest first. Orders dated
// outside the window are dropped.
func (s *ReportService) MonthlySalesSummary(ctx context.Context, months int) (*SalesChartResponse, error) {
	if months <= 0 {
		months = DefaultMonthlyWindow
	}

	orders, err := s.orderRepo.FindAllWithProduct(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	// Anchor on the first of the month: stepping back from day 29-31 would
	// normalize past short months and skip them.
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	labels := make([]string, 0, months)
	buckets := make(map[string]decimal.Decimal, months)
	for i := months - 1; i >= 0; i-- {
		label := monthStart.AddDate(0, -i, 0).Format(monthLabelFormat)
		labels = append(labels, label)
		buckets[label] = decimal.Zero
	}

	for i := range orders {
		order := &orders[i]
		if order.EffectiveStatus() != trade.OrderStatusCompleted || order.OrderDate.IsZero() {
			continue
		}
		label := order.OrderDate.Format(monthLabelFormat)
		if _, inWindow := buckets[label]; !inWindow {
			continue
		}
		buckets[label] = buckets[label].Add(order.TotalPrice)
	}

	resp := &SalesChartResponse{Labels: labels, Data: make([]float64, 0, months)}
	total := decimal.Zero
	for _, label := range labels {
		resp.Data = append(resp.Data, buckets[label].InexactFloat64())
		total = total.Add(buckets[label])
	}
	resp.TotalSales = total.InexactFloat64()
	return resp, nil
}

// InventoryValueSummary values the on-hand stock, overall and per category
func (s *ReportService) InventoryValueSummary(ctx context.Context) (*InventoryValueResponse, error) {
	products, err := s.productRepo.FindAllWithCategory(ctx)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	categoryTotals := make(map[string]decimal.Decimal)
	for i := range products {
		product := &products[i]
		value := product.StockValue()
		total = total.Add(value)

		categoryName := UncategorizedLabel
		if product.Category != nil {
			categoryName = product.Category.Name
		}
		categoryTotals[categoryName] = categoryTotals[categoryName].Add(value)
	}

	resp := &InventoryValueResponse{
		TotalValue:     total.InexactFloat64(),
		CategoryValues: make(map[string]float64, len(categoryTotals)),
		TotalProducts:  len(products),
	}
	for name, value := range categoryTotals {
		resp.CategoryValues[name] = value.InexactFloat64()
	}
	if len(products) > 0 {
		resp.AverageValue = total.Div(decimal.NewFromInt(int64(len(products)))).InexactFloat64()
	}
	return resp, nil
}

// DashboardSummary returns the headline counters for the dashboard
func (s *ReportService) DashboardSummary(ctx context.Context) (*DashboardSummaryResponse, error) {
	products, err := s.productRepo.FindAllWithCategory(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindAllWithProduct(ctx)
	if err != nil {
		return nil, err
	}

	resp := &DashboardSummaryResponse{
		TotalProducts: len(products),
		TotalOrders:   len(orders),
	}

	for i := range products {
		if products[i].IsLowStock(catalog.DefaultLowStockThreshold) {
			resp.LowStockCount++
		}
	}

	completedSales := decimal.Zero
	for i := range orders {
		switch orders[i].EffectiveStatus() {
		case trade.OrderStatusCompleted:
			resp.CompletedOrders++
			completedSales = completedSales.Add(orders[i].TotalPrice)
		case trade.OrderStatusPending:
			resp.PendingOrders++
		}
	}
	resp.TotalCompletedSales = completedSales.InexactFloat64()
	return resp, nil
}
