package handler_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docextract/internal/csvexport"
	"docextract/internal/domain"
	"docextract/internal/handler"
	"docextract/internal/service"
	"docextract/mocks"
)

func newOrderRouter() (*gin.Engine, *mocks.MockOrderService) {
	mockSvc := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockSvc)
	health := handler.NewHealthHandler(mockSvc)

	r := gin.New()
	r.GET("/api/health", health.Health)
	r.GET("/api/database/orders", h.ListOrders)
	r.GET("/api/database/orders/:id", h.GetOrder)
	r.GET("/api/database/details", h.GetOrderDetails)
	r.GET("/api/database/products", h.ListProducts)
	r.GET("/api/database/products/search", h.SearchProduct)
	r.GET("/api/database/customers/search", h.SearchCustomers)
	r.GET("/api/database/customers/:id", h.GetCustomer)
	r.GET("/api/database/stats", h.GetStats)
	return r, mockSvc
}

func doGet(r *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, url, http.NoBody)
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestOrderHandler_ListOrders(t *testing.T) {
	r, mockSvc := newOrderRouter()

	cust := int64(29825)
	orders := []domain.OrderHeader{{OrderID: 75124}, {OrderID: 75123}}
	mockSvc.On("ListOrders", mock.Anything, domain.OrderQuery{
		Page: 2, PerPage: 2, CustomerID: &cust, Source: domain.SourceBoth,
	}).Return(orders, 5, nil)

	w := doGet(r, "/api/database/orders?page=2&per_page=2&customer_id=29825&source=all")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, handler.PagMeta{Page: 2, PerPage: 2, Total: 5, TotalPages: 3, HasNext: true, HasPrev: true}, *resp.Meta)
	mockSvc.AssertExpectations(t)
}

func TestOrderHandler_ListOrders_CapsPerPage(t *testing.T) {
	r, mockSvc := newOrderRouter()
	mockSvc.On("ListOrders", mock.Anything, domain.OrderQuery{Page: 1, PerPage: 100, Source: domain.SourceExtracted}).
		Return([]domain.OrderHeader{}, 0, nil)

	w := doGet(r, "/api/database/orders?per_page=500")

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestOrderHandler_ListOrders_BadQuery(t *testing.T) {
	r, mockSvc := newOrderRouter()

	for _, url := range []string{
		"/api/database/orders?page=0",
		"/api/database/orders?page=x",
		"/api/database/orders?source=archive",
		"/api/database/orders?customer_id=abc",
	} {
		w := doGet(r, url)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
		assert.False(t, decode(t, w).Success)
	}
	mockSvc.AssertNotCalled(t, "ListOrders", mock.Anything, mock.Anything)
}

func TestOrderHandler_GetOrder(t *testing.T) {
	r, mockSvc := newOrderRouter()

	order := &service.OrderWithDetails{
		Order:     &domain.OrderHeader{OrderID: 43659, OrderNumber: "SO43659"},
		LineItems: []domain.OrderDetail{{DetailID: 1, OrderID: 43659}},
		ItemCount: 1,
	}
	mockSvc.On("GetOrder", mock.Anything, int64(43659)).Return(order, nil)
	mockSvc.On("GetOrder", mock.Anything, int64(1)).Return(nil, domain.ErrOrderNotFound)

	w := doGet(r, "/api/database/orders/43659")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"item_count":1`)

	w = doGet(r, "/api/database/orders/1")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", decode(t, w).Error.Code)

	w = doGet(r, "/api/database/orders/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_GetOrderDetails(t *testing.T) {
	r, mockSvc := newOrderRouter()
	mockSvc.On("GetOrderDetails", mock.Anything, int64(43659)).
		Return([]domain.OrderDetail{{DetailID: 1}, {DetailID: 2}}, nil)

	w := doGet(r, "/api/database/details?order_id=43659")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)

	w = doGet(r, "/api/database/details")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_Products(t *testing.T) {
	r, mockSvc := newOrderRouter()
	mockSvc.On("ListProducts", mock.Anything, 1, 50).Return([]domain.Product{{ProductID: 776}}, 1, nil)
	mockSvc.On("GetProductByNumber", mock.Anything, "BK-M82B-42").Return(&domain.Product{ProductID: 776}, nil)
	mockSvc.On("GetProductByNumber", mock.Anything, "NOPE").Return(nil, domain.ErrProductNotFound)

	w := doGet(r, "/api/database/products")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50, decode(t, w).Meta.PerPage)

	w = doGet(r, "/api/database/products/search?product_number=BK-M82B-42")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"product_id":776`)

	w = doGet(r, "/api/database/products/search?product_number=NOPE")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderHandler_Customers(t *testing.T) {
	r, mockSvc := newOrderRouter()
	mockSvc.On("GetCustomer", mock.Anything, int64(29825)).Return(&domain.Customer{CustomerID: 29825}, nil)
	mockSvc.On("SearchCustomers", mock.Anything, "ann", 50).
		Return([]domain.CustomerMatch{{Type: domain.CustomerTypeIndividual, Name: "Annette Hill", BusinessEntityID: 2}}, nil)
	mockSvc.On("SearchCustomers", mock.Anything, "a", 10).
		Return(nil, errors.Join(domain.ErrInvalidRequest, errors.New("search query must be at least 2 characters")))

	w := doGet(r, "/api/database/customers/29825")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doGet(r, "/api/database/customers/search?q=ann&limit=80")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = doGet(r, "/api/database/customers/search?q=a")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestOrderHandler_Stats(t *testing.T) {
	r, mockSvc := newOrderRouter()
	mockSvc.On("GetStats", mock.Anything, true).Return(&domain.StoreStats{Orders: 2, ExtractedOrders: 2}, nil)
	mockSvc.On("GetStats", mock.Anything, false).Return(nil, errors.New("workbook locked"))

	w := doGet(r, "/api/database/stats?extracted_only=TRUE")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"extracted_orders":2`)

	w = doGet(r, "/api/database/stats")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decode(t, w).Error.Code)
}

func TestHealthHandler_Health(t *testing.T) {
	r, mockSvc := newOrderRouter()
	mockSvc.On("GetStats", mock.Anything, false).Return(&domain.StoreStats{Orders: 31465}, nil)

	w := doGet(r, "/api/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Contains(t, w.Body.String(), `"orders":31465`)
}

func TestOrderHandler_ExportOrders(t *testing.T) {
	mockSvc := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockSvc)
	r := gin.New()
	r.GET("/api/database/orders/export", h.ExportOrders)

	mockSvc.On("ListOrders", mock.Anything, domain.OrderQuery{Page: 1, PerPage: 500, Source: domain.SourceBoth}).
		Return([]domain.OrderHeader{{OrderID: 75124, OrderNumber: "EXT-1", Source: domain.SourceExtracted}}, 1, nil)

	w := doGet(r, "/api/database/orders/export?source=both")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="orders_both_`)

	body := w.Body.Bytes()
	require.True(t, bytes.HasPrefix(body, csvexport.BOM))
	rows, err := csv.NewReader(bytes.NewReader(body[len(csvexport.BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Order ID", rows[0][0])
	assert.Equal(t, "75124", rows[1][0])
	mockSvc.AssertExpectations(t)
}

func TestOrderHandler_ExportOrders_Pages(t *testing.T) {
	mockSvc := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockSvc)
	r := gin.New()
	r.GET("/api/database/orders/export", h.ExportOrders)

	first := make([]domain.OrderHeader, 500)
	for i := range first {
		first[i] = domain.OrderHeader{OrderID: int64(1000 - i)}
	}
	mockSvc.On("ListOrders", mock.Anything, domain.OrderQuery{Page: 1, PerPage: 500, Source: domain.SourceExtracted}).
		Return(first, 501, nil)
	mockSvc.On("ListOrders", mock.Anything, domain.OrderQuery{Page: 2, PerPage: 500, Source: domain.SourceExtracted}).
		Return([]domain.OrderHeader{{OrderID: 1}}, 501, nil)

	w := doGet(r, "/api/database/orders/export")

	assert.Equal(t, http.StatusOK, w.Code)
	rows, err := csv.NewReader(bytes.NewReader(w.Body.Bytes()[len(csvexport.BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 502)
	assert.Equal(t, "1", rows[501][0])
	mockSvc.AssertExpectations(t)
}

func TestOrderHandler_ExportOrders_StoreError(t *testing.T) {
	mockSvc := new(mocks.MockOrderService)
	h := handler.NewOrderHandler(mockSvc)
	r := gin.New()
	r.GET("/api/database/orders/export", h.ExportOrders)
	mockSvc.On("ListOrders", mock.Anything, mock.Anything).Return(nil, 0, errors.New("workbook locked"))

	w := doGet(r, "/api/database/orders/export")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decode(t, w).Error.Code)
}
