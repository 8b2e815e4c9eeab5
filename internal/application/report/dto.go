package report

import "github.com/google/uuid"

// SalesChartResponse is the chart payload shared by the sales aggregations
type SalesChartResponse struct {
	Labels     []string  `json:"labels"`
	Data       []float64 `json:"data"`
	TotalSales float64   `json:"totalSales"`
}

// StatusDistributionResponse is the order-status chart payload
type StatusDistributionResponse struct {
	Labels      []string `json:"labels"`
	Data        []int    `json:"data"`
	TotalOrders int      `json:"totalOrders"`
}

// LowStockProductResponse is one row of the low-stock listing
type LowStockProductResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity"`
	CategoryName string    `json:"categoryName"`
}

// InventoryValueResponse is the stock valuation payload
type InventoryValueResponse struct {
	TotalValue     float64            `json:"totalValue"`
	CategoryValues map[string]float64 `json:"categoryValues"`
	TotalProducts  int                `json:"totalProducts"`
	AverageValue   float64            `json:"averageValue"`
}

// DashboardSummaryResponse is the headline counter payload
type DashboardSummaryResponse struct {
	TotalProducts       int     `json:"totalProducts"`
	TotalOrders         int     `json:"totalOrders"`
	CompletedOrders     int     `json:"completedOrders"`
	PendingOrders       int     `json:"pendingOrders"`
	LowStockCount       int     `json:"lowStockCount"`
	TotalCompletedSales float64 `json:"totalCompletedSales"`
}
