package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/stockpilot/backend/internal/application/report"
	"github.com/stockpilot/backend/internal/domain/catalog"
)

// ReportHandler handles reporting and dashboard API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService

	defaultLowStockThreshold int
	defaultMonthlyWindow     int
}

// ReportHandlerOption customizes report defaults
type ReportHandlerOption func(*ReportHandler)

// WithLowStockThreshold overrides the default low stock threshold
func WithLowStockThreshold(threshold int) ReportHandlerOption {
	return func(h *ReportHandler) {
		if threshold > 0 {
			h.defaultLowStockThreshold = threshold
		}
	}
}

// WithMonthlyWindow overrides the default monthly sales window
func WithMonthlyWindow(months int) ReportHandlerOption {
	return func(h *ReportHandler) {
		if months > 0 {
			h.defaultMonthlyWindow = months
		}
	}
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService, opts ...ReportHandlerOption) *ReportHandler {
	h := &ReportHandler{
		reportService:            reportService,
		defaultLowStockThreshold: catalog.DefaultLowStockThreshold,
		defaultMonthlyWindow:     6,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SalesByProduct handles GET /reports/sales-by-product
func (h *ReportHandler) SalesByProduct(c *gin.Context) {
	chart, err := h.reportService.SalesByProduct(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, chart)
}

// SalesByCategory handles GET /reports/sales-by-category
func (h *ReportHandler) SalesByCategory(c *gin.Context) {
	chart, err := h.reportService.SalesByCategory(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, chart)
}

// LowStockProducts handles GET /reports/low-stock
func (h *ReportHandler) LowStockProducts(c *gin.Context) {
	threshold := queryInt(c, "threshold", h.defaultLowStockThreshold)
	if threshold <= 0 {
		h.BadRequest(c, "threshold must be greater than zero")
		return
	}

	products, err := h.reportService.LowStockProducts(c.Request.Context(), threshold)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// OrderStatusDistribution handles GET /reports/order-status
func (h *ReportHandler) OrderStatusDistribution(c *gin.Context) {
	dist, err := h.reportService.OrderStatusDistribution(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dist)
}

// MonthlySalesSummary handles GET /reports/monthly-sales
func (h *ReportHandler) MonthlySalesSummary(c *gin.Context) {
	months := queryInt(c, "months", h.defaultMonthlyWindow)
	if months <= 0 {
		h.BadRequest(c, "months must be greater than zero")
		return
	}

	chart, err := h.reportService.MonthlySalesSummary(c.Request.Context(), months)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, chart)
}

// InventoryValueSummary handles GET /reports/inventory-value
func (h *ReportHandler) InventoryValueSummary(c *gin.Context) {
	summary, err := h.reportService.InventoryValueSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// DashboardSummary handles GET /reports/dashboard
func (h *ReportHandler) DashboardSummary(c *gin.Context) {
	summary, err := h.reportService.DashboardSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
