package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docextract/internal/domain"
	"docextract/internal/service"
	"docextract/internal/validator/invoice"
)

// InvoiceHandler handles invoice extraction endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	maxBytes       int64
}

// NewInvoiceHandler creates a new InvoiceHandler. maxBytes bounds how much of an
// uploaded file is read.
func NewInvoiceHandler(invoiceService service.InvoiceService, maxBytes int64) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, maxBytes: maxBytes}
}

// Upload handles POST /api/invoices/upload
// @Summary Upload and extract an invoice
// @Description Extract structured data from an invoice image or PDF. With save=true the invoice is stored as a sales order when it passes validation.
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Invoice file (png, jpg, jpeg, pdf, webp)"
// @Param save formData bool false "Save to the order store"
// @Success 200 {object} Response{data=service.InvoiceResult} "Extraction result"
// @Failure 400 {object} ErrorResponseBody "Invalid upload"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} ErrorResponseBody "Extraction failed"
// @Failure 503 {object} ErrorResponseBody "No provider configured"
// @Router /invoices/upload [post]
func (h *InvoiceHandler) Upload(c *gin.Context) {
	input, err := h.readInput(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	result, err := h.invoiceService.Upload(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Extract handles POST /api/invoices/extract
// @Summary Preview an invoice extraction
// @Description Same as upload but never saves.
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Invoice file (png, jpg, jpeg, pdf, webp)"
// @Success 200 {object} Response{data=ExtractPreviewResponse} "Extraction preview"
// @Failure 400 {object} ErrorResponseBody "Invalid upload"
// @Failure 422 {object} ErrorResponseBody "Extraction failed"
// @Failure 503 {object} ErrorResponseBody "No provider configured"
// @Router /invoices/extract [post]
func (h *InvoiceHandler) Extract(c *gin.Context) {
	input, err := h.readInput(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	result, err := h.invoiceService.Extract(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ExtractPreviewResponse{
		Provider:      result.Extraction.Provider,
		Confidence:    result.Extraction.Confidence,
		ExtractedData: result.Extraction.Data,
		Validation:    result.Validation,
	})
}

// UploadStream handles POST /api/invoices/upload-stream
// @Summary Upload an invoice with streamed progress
// @Description Streams server-sent events: one {step, status, message} event per step change, then a final {type: "result"} event.
// @Tags invoices
// @Accept multipart/form-data
// @Produce text/event-stream
// @Param file formData file true "Invoice file (png, jpg, jpeg, pdf, webp)"
// @Param save formData bool false "Save to the order store"
// @Success 200 {object} StreamResultEvent "Final event of the stream"
// @Router /invoices/upload-stream [post]
func (h *InvoiceHandler) UploadStream(c *gin.Context) {
	input, err := h.readInput(c)
	if err != nil && input == nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	events := h.invoiceService.UploadStream(c.Request.Context(), input)
	for ev := range events {
		if err := writeEvent(c.Writer, &ev); err != nil {
			log.Printf("invoiceHandler.UploadStream: writing event failed: %v", err)
			go func() {
				for range events {
				}
			}()
			return
		}
		c.Writer.Flush()
	}
}

// SaveEdited handles POST /api/invoices/save-edited
// @Summary Save edited invoice data
// @Description Saves reviewed invoice data as a sales order without re-validating it.
// @Tags invoices
// @Accept json
// @Produce json
// @Param body body SaveEditedRequest true "Edited invoice"
// @Success 200 {object} Response{data=SaveEditedResponse} "Saved order"
// @Failure 400 {object} ErrorResponseBody "Missing or malformed data"
// @Router /invoices/save-edited [post]
func (h *InvoiceHandler) SaveEdited(c *gin.Context) {
	var req struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be JSON")
		return
	}
	if len(req.Data) == 0 || string(req.Data) == "null" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "missing 'data' in request body")
		return
	}
	var doc invoice.Document
	if err := json.Unmarshal(req.Data, &doc); err != nil {
		HandleError(c, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err))
		return
	}

	orderID, err := h.invoiceService.SaveEdited(c.Request.Context(), &doc)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, SaveEditedResponse{
		Saved:   true,
		OrderID: orderID,
		Message: fmt.Sprintf("Saved as Order #%d", orderID),
	})
}

// readInput reads the multipart upload. A missing file yields an input without a file
// name together with the error, so the stream can report it as a validation step.
func (h *InvoiceHandler) readInput(c *gin.Context) (*service.InvoiceInput, error) {
	input := &service.InvoiceInput{Save: strings.EqualFold(c.PostForm("save"), "true")}

	header, err := c.FormFile("file")
	if err != nil {
		return input, fmt.Errorf("%w: no file uploaded", domain.ErrInvalidRequest)
	}
	if h.maxBytes > 0 && header.Size > h.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if h.maxBytes > 0 {
		r = io.LimitReader(f, h.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	input.FileName = header.Filename
	input.ContentType = header.Header.Get("Content-Type")
	input.Data = data
	return input, nil
}

// writeEvent encodes one stream event as "data: <json>\n\n".
func writeEvent(w io.Writer, ev *service.StreamEvent) error {
	var payload interface{}
	if ev.Final() {
		final := StreamResultEvent{Type: "result", Success: ev.Err == nil, Data: ev.Result}
		if ev.Err != nil {
			_, code, msg := MapDomainError(ev.Err)
			final.Error = &APIError{Code: code, Message: msg}
		}
		payload = final
	} else {
		payload = ev.Progress
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", b)
	return err
}
