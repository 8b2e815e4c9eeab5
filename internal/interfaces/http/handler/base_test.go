package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/interfaces/http/dto"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_Success(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.Success(c, map[string]string{"name": "Widget"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.SuccessWithMeta(c, []string{"a", "b"}, 42, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(42), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandler_NoContent(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.NoContent(c)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "not found maps to 404",
			err:            shared.NewDomainError("NOT_FOUND", "product not found"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrCodeNotFound,
		},
		{
			name:           "insufficient stock maps to 422",
			err:            shared.NewDomainError("INSUFFICIENT_STOCK", "insufficient inventory for product Widget"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   dto.ErrCodeInsufficientStock,
		},
		{
			name:           "invalid operation maps to 422",
			err:            shared.NewDomainError("INVALID_OPERATION", "quantity must be provided and greater than zero"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   dto.ErrCodeInvalidOperation,
		},
		{
			name:           "invalid input maps to 400",
			err:            shared.NewDomainError("INVALID_INPUT", "name is required"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeInvalidInput,
		},
		{
			name:           "already exists maps to 409",
			err:            shared.NewDomainError("ALREADY_EXISTS", "category already exists"),
			expectedStatus: http.StatusConflict,
			expectedCode:   dto.ErrCodeAlreadyExists,
		},
		{
			name:           "unknown error maps to 500",
			err:            assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)

			h := &BaseHandler{}
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
		})
	}
}

func TestBaseHandler_HandleErrorNil(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.HandleError(c, nil)

	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandler_ErrorCarriesRequestID(t *testing.T) {
	c, w := newTestContext(t)
	c.Set("request_id", "req-abc-123")

	h := &BaseHandler{}
	h.NotFound(c, "order not found")

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-abc-123", resp.Error.RequestID)
}

func TestParseID(t *testing.T) {
	c, _ := newTestContext(t)
	c.Params = gin.Params{{Key: "id", Value: "550e8400-e29b-41d4-a716-446655440000"}}

	id, ok := parseID(c)
	assert.True(t, ok)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())

	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	_, ok = parseID(c)
	assert.False(t, ok)
}

func TestBindListQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("applies pagination defaults", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?order_by=name&search=wid", nil)

		req, err := bindListQuery(c)
		require.NoError(t, err)
		assert.Equal(t, 1, req.Page)
		assert.Equal(t, 20, req.PageSize)
		assert.Equal(t, "name", req.OrderBy)
		assert.Equal(t, "wid", req.Search)
	})

	t.Run("rejects invalid sort direction", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?order_dir=sideways", nil)

		_, err := bindListQuery(c)
		assert.Error(t, err)
	})
}

func TestQueryInt(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?months=12&bad=abc", nil)

	assert.Equal(t, 12, queryInt(c, "months", 6))
	assert.Equal(t, 6, queryInt(c, "missing", 6))
	assert.Equal(t, 6, queryInt(c, "bad", 6))
}
