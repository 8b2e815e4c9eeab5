package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockpilot/backend/internal/application/bulk"
	"github.com/stockpilot/backend/internal/interfaces/http/dto"
)

// CSVHandler handles CSV import and export endpoints
type CSVHandler struct {
	BaseHandler
	productCSV *bulk.ProductCSVService
	orderCSV   *bulk.OrderCSVService

	maxFileSize int64
}

// NewCSVHandler creates a new CSVHandler
func NewCSVHandler(productCSV *bulk.ProductCSVService, orderCSV *bulk.OrderCSVService, maxFileSize int64) *CSVHandler {
	return &CSVHandler{
		productCSV:  productCSV,
		orderCSV:    orderCSV,
		maxFileSize: maxFileSize,
	}
}

// ImportProducts handles POST /catalog/products/import
func (h *CSVHandler) ImportProducts(c *gin.Context) {
	data, ok := h.readCSVUpload(c)
	if !ok {
		return
	}

	result, err := h.productCSV.Import(c.Request.Context(), data)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ExportProducts handles GET /catalog/products/export
func (h *CSVHandler) ExportProducts(c *gin.Context) {
	data, err := h.productCSV.Export(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.sendCSV(c, "products", data)
}

// ImportOrders handles POST /trade/orders/import
func (h *CSVHandler) ImportOrders(c *gin.Context) {
	data, ok := h.readCSVUpload(c)
	if !ok {
		return
	}

	result, err := h.orderCSV.Import(c.Request.Context(), data)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ExportOrders handles GET /trade/orders/export
func (h *CSVHandler) ExportOrders(c *gin.Context) {
	data, err := h.orderCSV.Export(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.sendCSV(c, "orders", data)
}

// readCSVUpload extracts and validates the uploaded CSV file. It writes the
// error response itself so callers only need the body bytes.
func (h *CSVHandler) readCSVUpload(c *gin.Context) ([]byte, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return nil, false
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge,
			fmt.Sprintf("file exceeds maximum size of %d bytes", h.maxFileSize))
		return nil, false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && contentType != "text/csv" && contentType != "application/octet-stream" &&
		contentType != "text/plain" && contentType != "application/vnd.ms-excel" {
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "file must be a CSV file")
		return nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.InternalError(c, "failed to read uploaded file")
		return nil, false
	}
	if int64(len(data)) > h.maxFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge,
			fmt.Sprintf("file exceeds maximum size of %d bytes", h.maxFileSize))
		return nil, false
	}

	return data, true
}

// sendCSV writes CSV bytes as a file download
func (h *CSVHandler) sendCSV(c *gin.Context, prefix string, data []byte) {
	filename := fmt.Sprintf("%s-%s.csv", prefix, time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
