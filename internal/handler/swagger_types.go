package handler

import (
	"docextract/internal/domain"
	"docextract/internal/service"
	"docextract/internal/validator/invoice"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// SaveEditedRequest is the body of POST /invoices/save-edited.
type SaveEditedRequest struct {
	Data *invoice.Document `json:"data"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status   string             `json:"status" example:"healthy"`
	Message  string             `json:"message" example:"Document Extraction API is running"`
	Database *domain.StoreStats `json:"database"`
}

// ExtractPreviewResponse is the result of a preview extraction.
type ExtractPreviewResponse struct {
	Provider      string                    `json:"provider" example:"openai"`
	Confidence    *float64                  `json:"confidence" example:"0.95"`
	ExtractedData *invoice.Document         `json:"extracted_data"`
	Validation    service.ValidationSummary `json:"validation"`
}

// SaveEditedResponse reports the order created from edited data.
type SaveEditedResponse struct {
	Saved   bool   `json:"saved" example:"true"`
	OrderID int64  `json:"order_id" example:"75124"`
	Message string `json:"message" example:"Saved as Order #75124"`
}

// OrderDetailsResponse lists the line items of one order.
type OrderDetailsResponse struct {
	OrderID int64                `json:"order_id" example:"43659"`
	Items   []domain.OrderDetail `json:"items"`
	Count   int                  `json:"count" example:"12"`
}

// ProductResponse wraps a single product.
type ProductResponse struct {
	Product *domain.Product `json:"product"`
}

// CustomerResponse wraps a single customer.
type CustomerResponse struct {
	Customer *domain.Customer `json:"customer"`
}

// CustomerSearchResponse lists customer search matches.
type CustomerSearchResponse struct {
	Query   string                 `json:"query" example:"ann"`
	Results []domain.CustomerMatch `json:"results"`
	Count   int                    `json:"count" example:"2"`
}

// StreamResultEvent is the last server-sent event of an upload stream.
type StreamResultEvent struct {
	Type    string                 `json:"type" example:"result"`
	Success bool                   `json:"success"`
	Data    *service.InvoiceResult `json:"data,omitempty"`
	Error   *APIError              `json:"error,omitempty"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
