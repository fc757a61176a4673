package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VastraLabs/vastra_api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestProductFilterFromQuery(t *testing.T) {
	t.Run("all params set", func(t *testing.T) {
		c, _ := testContext(http.MethodGet, "/v1/catalog/products?search=shirt&brand=Vastra&categoryId=3&page=2&limit=10", "")

		filter := productFilterFromQuery(c)

		assert.Equal(t, "shirt", filter.Search)
		assert.Equal(t, "Vastra", filter.Brand)
		require.NotNil(t, filter.CategoryID)
		assert.Equal(t, 3, *filter.CategoryID)
		assert.Equal(t, 2, filter.Page)
		assert.Equal(t, 10, filter.Limit)
	})

	t.Run("defaults when absent", func(t *testing.T) {
		c, _ := testContext(http.MethodGet, "/v1/catalog/products", "")

		filter := productFilterFromQuery(c)

		assert.Empty(t, filter.Search)
		assert.Empty(t, filter.Brand)
		assert.Nil(t, filter.CategoryID)
		assert.Equal(t, 1, filter.Page)
		assert.Equal(t, 20, filter.Limit)
	})

	t.Run("garbage category id ignored", func(t *testing.T) {
		c, _ := testContext(http.MethodGet, "/v1/catalog/products?categoryId=abc&page=-4", "")

		filter := productFilterFromQuery(c)

		assert.Nil(t, filter.CategoryID)
		assert.Equal(t, 1, filter.Page)
	})
}

func TestRejectReturnRequiresReason(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing body", `{}`},
		{"too short", `{"reason":"ab"}`},
		{"whitespace only", `{"reason":"      "}`},
		{"whitespace padded but short", `{"reason":"  a  "}`},
	}
	h := NewAdminOrderHandler(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(http.MethodPost, "/v1/admin/orders/1/items/2/return/reject", tt.body)
			c.Params = gin.Params{
				{Key: "orderId", Value: "1"},
				{Key: "itemId", Value: "2"},
			}

			h.RejectReturn(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeEnvelope(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "MISSING_FIELD", resp.Error.Code)
		})
	}
}

func TestStockErrorResponseCarriesVariantDetails(t *testing.T) {
	c, w := testContext(http.MethodPost, "/v1/cart/items", "")
	err := &utils.StockError{Product: "Linen Shirt", Size: "M", Available: 3, Err: utils.ErrInsufficientStock}

	stockError(c, http.StatusConflict, "INSUFFICIENT_STOCK", err)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "Only 3 left")
	assert.Contains(t, resp.Error.Message, "Linen Shirt")

	details, ok := resp.Error.Details.(map[string]interface{})
	require.True(t, ok, "details should be an object")
	assert.Equal(t, "Linen Shirt", details["product"])
	assert.Equal(t, "M", details["size"])
	assert.Equal(t, float64(3), details["available"])
}

func TestStockErrorResponseBareSentinel(t *testing.T) {
	c, w := testContext(http.MethodPost, "/v1/cart/items", "")

	stockError(c, http.StatusConflict, "INSUFFICIENT_STOCK", utils.ErrInsufficientStock)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Error)
	assert.Nil(t, resp.Error.Details)
}

func TestCheckoutHandleErrorMapsCouponAndStock(t *testing.T) {
	h := NewCheckoutHandler(nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"coupon invalid", utils.ErrCouponInvalid, http.StatusBadRequest, "COUPON_INVALID"},
		{"coupon minimum not met", utils.ErrCouponMinOrder, http.StatusBadRequest, "COUPON_MIN_ORDER_NOT_MET"},
		{"coupon limit reached", utils.ErrCouponLimitReached, http.StatusBadRequest, "COUPON_LIMIT_REACHED"},
		{
			"wrapped stock shortage",
			&utils.StockError{Product: "Denim Jacket", Size: "L", Available: 0, Err: utils.ErrStockUnavailable},
			http.StatusConflict,
			"STOCK_UNAVAILABLE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(http.MethodPost, "/v1/checkout", "")

			h.handleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeEnvelope(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}
