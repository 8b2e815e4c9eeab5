package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tradeapp "github.com/stockpilot/backend/internal/application/trade"
	"github.com/stockpilot/backend/internal/domain/catalog"
	"github.com/stockpilot/backend/internal/domain/trade"
	"github.com/stockpilot/backend/internal/interfaces/http/dto"
)

type stubHistoryRepo struct {
	rows []trade.OrderHistory
}

func (r *stubHistoryRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) ([]trade.OrderHistory, error) {
	var out []trade.OrderHistory
	for _, h := range r.rows {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *stubHistoryRepo) Save(_ context.Context, history *trade.OrderHistory) error {
	r.rows = append(r.rows, *history)
	return nil
}

var _ trade.OrderHistoryRepository = (*stubHistoryRepo)(nil)

func newOrderRouter(t *testing.T) (*gin.Engine, *stubProductRepo) {
	t.Helper()

	widget, err := catalog.NewProduct("Widget", decimal.NewFromInt(10), 3)
	require.NoError(t, err)

	productRepo := &stubProductRepo{products: []catalog.Product{*widget}}
	orderRepo := &stubOrderRepo{}
	historyRepo := &stubHistoryRepo{}

	scope := tradeapp.NewNoOpTransactionScope(orderRepo, historyRepo, productRepo)
	svc := tradeapp.NewOrderService(scope, orderRepo, historyRepo)
	h := NewOrderHandler(svc)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/trade/orders", h.Create)
	return r, productRepo
}

func postOrder(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trade/orders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestOrderHandler_CreateConfirmedDecrementsStock(t *testing.T) {
	r, productRepo := newOrderRouter(t)
	productID := productRepo.products[0].ID

	w := postOrder(t, r, `{"customerName":"Alice","productId":"`+productID.String()+`","quantity":2,"status":"CONFIRMED"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "CONFIRMED", data["status"])
	assert.Equal(t, 20.0, data["totalPrice"])
	assert.Equal(t, 1, productRepo.products[0].Quantity)
}

func TestOrderHandler_CreateInsufficientStock(t *testing.T) {
	r, productRepo := newOrderRouter(t)
	productID := productRepo.products[0].ID

	w := postOrder(t, r, `{"customerName":"Alice","productId":"`+productID.String()+`","quantity":5,"status":"CONFIRMED"}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInsufficientStock, resp.Error.Code)
	assert.Equal(t, "insufficient inventory for product Widget", resp.Error.Message)
	assert.Equal(t, 3, productRepo.products[0].Quantity)
}

func TestOrderHandler_CreateZeroQuantityConfirmed(t *testing.T) {
	r, productRepo := newOrderRouter(t)
	productID := productRepo.products[0].ID

	w := postOrder(t, r, `{"customerName":"Alice","productId":"`+productID.String()+`","quantity":0,"status":"CONFIRMED"}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInvalidOperation, resp.Error.Code)
	assert.Equal(t, "quantity must be provided and greater than zero", resp.Error.Message)
}

func TestOrderHandler_CreateUnknownProductConfirmed(t *testing.T) {
	r, _ := newOrderRouter(t)
	missing := uuid.New()

	w := postOrder(t, r, `{"customerName":"Alice","productId":"`+missing.String()+`","quantity":1,"status":"CONFIRMED"}`)

	require.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestOrderHandler_CreateDefaultsToPending(t *testing.T) {
	r, productRepo := newOrderRouter(t)
	productID := productRepo.products[0].ID

	w := postOrder(t, r, `{"customerName":"Bob","productId":"`+productID.String()+`","quantity":2}`)

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "PENDING", data["status"])
	// Pending orders never touch stock
	assert.Equal(t, 3, productRepo.products[0].Quantity)
}

func TestOrderHandler_CreateInvalidJSON(t *testing.T) {
	r, _ := newOrderRouter(t)

	w := postOrder(t, r, `{"customerName":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
