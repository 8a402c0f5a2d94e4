package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"docextract/internal/csvexport"
	"docextract/internal/domain"
	"docextract/internal/service"
)

const (
	defaultOrdersPerPage   = 20
	defaultProductsPerPage = 50
	maxPerPage             = 100
	defaultSearchLimit     = 10
	maxSearchLimit         = 50
	exportBatchSize        = 500
)

// OrderHandler handles order store read endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListOrders handles GET /api/database/orders
// @Summary List sales orders
// @Description Page through order headers, newest first. source selects the reference dataset, the extracted dataset or both.
// @Tags database
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Param customer_id query int false "Filter by customer id"
// @Param source query string false "reference, extracted or both" default(extracted)
// @Success 200 {object} Response{data=[]domain.OrderHeader,meta=PagMeta} "Orders"
// @Failure 400 {object} ErrorResponseBody "Invalid query"
// @Router /database/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, perPage, ok := parsePagination(c, defaultOrdersPerPage, maxPerPage)
	if !ok {
		return
	}
	source, valid := domain.ParseSource(strings.ToLower(c.Query("source")))
	if !valid {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "source must be one of reference, extracted, both")
		return
	}
	q := domain.OrderQuery{Page: page, PerPage: perPage, Source: source}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "customer_id must be an integer")
			return
		}
		q.CustomerID = &id
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, orders, NewPagMeta(page, perPage, total))
}

// ExportOrders handles GET /api/database/orders/export
// @Summary Export orders as CSV
// @Description Streams every order header of the selected source as a CSV download, newest first.
// @Tags database
// @Produce text/csv
// @Param source query string false "reference, extracted or both" default(extracted)
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} ErrorResponseBody "Invalid source"
// @Router /database/orders/export [get]
func (h *OrderHandler) ExportOrders(c *gin.Context) {
	source, valid := domain.ParseSource(strings.ToLower(c.Query("source")))
	if !valid {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "source must be one of reference, extracted, both")
		return
	}
	ctx := c.Request.Context()

	// Fetch the first batch before writing headers so errors can still be reported as JSON.
	q := domain.OrderQuery{Page: 1, PerPage: exportBatchSize, Source: source}
	orders, total, err := h.orderService.ListOrders(ctx, q)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`,
		csvexport.BuildFilename("orders_"+string(source), time.Now())))
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	for written := 0; ; {
		if err := w.WriteOrders(orders); err != nil {
			log.Printf("orderHandler.ExportOrders: write failed: %v", err)
			return
		}
		written += len(orders)
		if len(orders) == 0 || written >= total {
			break
		}
		q.Page++
		orders, _, err = h.orderService.ListOrders(ctx, q)
		if err != nil {
			log.Printf("orderHandler.ExportOrders: page %d failed: %v", q.Page, err)
			break
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Printf("orderHandler.ExportOrders: flush failed: %v", err)
	}
}

// GetOrder handles GET /api/database/orders/:id
// @Summary Get an order
// @Description Get an order header with its line items. Extracted orders take precedence over reference orders.
// @Tags database
// @Produce json
// @Param id path int true "Sales order id"
// @Success 200 {object} Response{data=service.OrderWithDetails} "Order"
// @Failure 400 {object} ErrorResponseBody "Invalid id"
// @Failure 404 {object} ErrorResponseBody "Order not found"
// @Router /database/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, order)
}

// GetOrderDetails handles GET /api/database/details
// @Summary List order line items
// @Tags database
// @Produce json
// @Param order_id query int true "Sales order id"
// @Success 200 {object} Response{data=OrderDetailsResponse} "Line items"
// @Failure 400 {object} ErrorResponseBody "Missing order_id"
// @Router /database/details [get]
func (h *OrderHandler) GetOrderDetails(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Query("order_id"), 10, 64)
	if err != nil || orderID < 1 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "order_id query parameter is required")
		return
	}
	items, err := h.orderService.GetOrderDetails(c.Request.Context(), orderID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, OrderDetailsResponse{OrderID: orderID, Items: items, Count: len(items)})
}

// ListProducts handles GET /api/database/products
// @Summary List products
// @Tags database
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(50)
// @Success 200 {object} Response{data=[]domain.Product,meta=PagMeta} "Products"
// @Failure 400 {object} ErrorResponseBody "Invalid query"
// @Router /database/products [get]
func (h *OrderHandler) ListProducts(c *gin.Context) {
	page, perPage, ok := parsePagination(c, defaultProductsPerPage, maxPerPage)
	if !ok {
		return
	}
	products, total, err := h.orderService.ListProducts(c.Request.Context(), page, perPage)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, products, NewPagMeta(page, perPage, total))
}

// SearchProduct handles GET /api/database/products/search
// @Summary Find a product by number
// @Tags database
// @Produce json
// @Param product_number query string true "Product number"
// @Success 200 {object} Response{data=ProductResponse} "Product"
// @Failure 400 {object} ErrorResponseBody "Missing product_number"
// @Failure 404 {object} ErrorResponseBody "Product not found"
// @Router /database/products/search [get]
func (h *OrderHandler) SearchProduct(c *gin.Context) {
	product, err := h.orderService.GetProductByNumber(c.Request.Context(), c.Query("product_number"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ProductResponse{Product: product})
}

// GetCustomer handles GET /api/database/customers/:id
// @Summary Get a customer
// @Tags database
// @Produce json
// @Param id path int true "Customer id"
// @Success 200 {object} Response{data=CustomerResponse} "Customer"
// @Failure 404 {object} ErrorResponseBody "Customer not found"
// @Router /database/customers/{id} [get]
func (h *OrderHandler) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.orderService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, CustomerResponse{Customer: customer})
}

// SearchCustomers handles GET /api/database/customers/search
// @Summary Search customers by name
// @Description Case-insensitive substring match over individual first and last names, then store names.
// @Tags database
// @Produce json
// @Param q query string true "Search text (at least 2 characters)"
// @Param limit query int false "Max results (max 50)" default(10)
// @Success 200 {object} Response{data=CustomerSearchResponse} "Matches"
// @Failure 400 {object} ErrorResponseBody "Query too short"
// @Router /database/customers/search [get]
func (h *OrderHandler) SearchCustomers(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultSearchLimit)))
	if err != nil || limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	query := c.Query("q")
	results, err := h.orderService.SearchCustomers(c.Request.Context(), query, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, CustomerSearchResponse{Query: query, Results: results, Count: len(results)})
}

// GetStats handles GET /api/database/stats
// @Summary Order store statistics
// @Tags database
// @Produce json
// @Param extracted_only query bool false "Count only extracted data"
// @Success 200 {object} Response{data=domain.StoreStats} "Statistics"
// @Router /database/stats [get]
func (h *OrderHandler) GetStats(c *gin.Context) {
	extractedOnly := strings.EqualFold(c.DefaultQuery("extracted_only", "false"), "true")
	stats, err := h.orderService.GetStats(c.Request.Context(), extractedOnly)
	if err != nil {
		HandleError(c, fmt.Errorf("orderHandler.GetStats: %w", err))
		return
	}
	RespondOK(c, stats)
}
