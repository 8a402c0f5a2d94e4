package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "docextract/docs" // registers the OpenAPI document
	"docextract/internal/handler"
	"docextract/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Health  *handler.HealthHandler
	Order   *handler.OrderHandler
	Invoice *handler.InvoiceHandler
	LLM     *handler.LLMHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, corsOrigins []string, maxUploadBytes int64) *gin.Engine {
	r := gin.New()
	// Multipart parts beyond this size are spooled to disk.
	r.MaxMultipartMemory = maxUploadBytes

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)

	// API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.GET("/health", h.Health.Health)

	db := api.Group("/database")
	db.GET("/orders", h.Order.ListOrders)
	db.GET("/orders/export", h.Order.ExportOrders)
	db.GET("/orders/:id", h.Order.GetOrder)
	db.GET("/details", h.Order.GetOrderDetails)
	db.GET("/products", h.Order.ListProducts)
	db.GET("/products/search", h.Order.SearchProduct)
	db.GET("/customers/search", h.Order.SearchCustomers)
	db.GET("/customers/:id", h.Order.GetCustomer)
	db.GET("/stats", h.Order.GetStats)

	invoices := api.Group("/invoices")
	invoices.POST("/upload", h.Invoice.Upload)
	invoices.POST("/extract", h.Invoice.Extract)
	invoices.POST("/upload-stream", h.Invoice.UploadStream)
	invoices.POST("/save-edited", h.Invoice.SaveEdited)

	api.GET("/llm/status", h.LLM.Status)

	return r
}
