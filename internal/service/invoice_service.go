package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docextract/internal/config"
	"docextract/internal/domain"
	"docextract/internal/parser"
	"docextract/internal/port"
	"docextract/internal/transform"
	"docextract/internal/validator"
	"docextract/internal/validator/invoice"
)

// EditedProvider is recorded as the provider of orders saved from edited data.
const EditedProvider = "manual"

// InvoiceInput is the DTO for an uploaded invoice file.
type InvoiceInput struct {
	FileName    string
	ContentType string
	Data        []byte
	Save        bool
}

// ExtractionSummary describes the provider output of one run.
type ExtractionSummary struct {
	Success    bool              `json:"success"`
	Provider   string            `json:"provider"`
	Confidence *float64          `json:"confidence"`
	Data       *invoice.Document `json:"data"`
}

// ValidationSummary carries the semantic validation outcome.
type ValidationSummary struct {
	IsValid bool     `json:"is_valid"`
	Issues  []string `json:"issues"`
}

// SaveSummary reports whether the invoice was written to the order store.
type SaveSummary struct {
	Saved   bool   `json:"saved"`
	OrderID *int64 `json:"order_id"`
}

// InvoiceResult is the outcome of an extraction run.
type InvoiceResult struct {
	Extraction ExtractionSummary `json:"extraction"`
	Validation ValidationSummary `json:"validation"`
	Database   SaveSummary       `json:"database"`
}

// StreamEvent is one element of a staged upload. Exactly one of Progress or the final
// pair (Result, Err) is meaningful; the final event is always the last one sent.
type StreamEvent struct {
	Progress *domain.ProgressEvent
	Result   *InvoiceResult
	Err      error
}

// Final reports whether the event carries the run outcome.
func (e *StreamEvent) Final() bool {
	return e.Progress == nil
}

// ProviderState describes one extraction provider.
type ProviderState struct {
	Configured bool   `json:"configured"`
	IsPrimary  bool   `json:"is_primary"`
	IsFallback bool   `json:"is_fallback"`
	Model      string `json:"model,omitempty"`
}

// ProviderStatus lists the extraction providers and the failover order.
type ProviderStatus struct {
	Providers map[string]ProviderState `json:"providers"`
	Primary   string                   `json:"primary"`
	Fallback  string                   `json:"fallback"`
}

// InvoiceService defines the invoice extraction contract.
type InvoiceService interface {
	// Extract runs extraction and validation without saving.
	Extract(ctx context.Context, input *InvoiceInput) (*InvoiceResult, error)
	// Upload runs extraction and validation, saving when input.Save is set and the
	// document is valid.
	Upload(ctx context.Context, input *InvoiceInput) (*InvoiceResult, error)
	// UploadStream runs Upload in the background, reporting progress on the returned
	// channel. The channel is closed after the final event.
	UploadStream(ctx context.Context, input *InvoiceInput) <-chan StreamEvent
	// SaveEdited saves a reviewed document regardless of validation.
	SaveEdited(ctx context.Context, doc *invoice.Document) (int64, error)
	ProviderStatus() *ProviderStatus
}

type invoiceService struct {
	extractor port.InvoiceExtractor
	store     port.OrderStore
	archive   port.ObjectStorage
	parserCfg *config.ParserConfig
	uploadCfg *config.UploadConfig
	archCfg   *config.ArchiveConfig
	now       func() time.Time
}

// NewInvoiceService creates a new InvoiceService implementation. archive may be nil
// when uploads are not archived.
func NewInvoiceService(
	extractor port.InvoiceExtractor,
	store port.OrderStore,
	archive port.ObjectStorage,
	parserCfg *config.ParserConfig,
	uploadCfg *config.UploadConfig,
	archCfg *config.ArchiveConfig,
) InvoiceService {
	return &invoiceService{
		extractor: extractor,
		store:     store,
		archive:   archive,
		parserCfg: parserCfg,
		uploadCfg: uploadCfg,
		archCfg:   archCfg,
		now:       time.Now,
	}
}

type runOptions struct {
	save    bool
	archive bool
	stream  bool
}

type emitFunc func(step domain.StreamStep, status domain.StepStatus, msg string)

func discard(domain.StreamStep, domain.StepStatus, string) {}

func (s *invoiceService) Extract(ctx context.Context, input *InvoiceInput) (*InvoiceResult, error) {
	return s.run(ctx, input, runOptions{}, discard)
}

func (s *invoiceService) Upload(ctx context.Context, input *InvoiceInput) (*InvoiceResult, error) {
	return s.run(ctx, input, runOptions{save: input.Save, archive: true}, discard)
}

func (s *invoiceService) UploadStream(ctx context.Context, input *InvoiceInput) <-chan StreamEvent {
	events := make(chan StreamEvent, 1)
	go func() {
		defer close(events)
		send := func(ev StreamEvent) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}
		emit := func(step domain.StreamStep, status domain.StepStatus, msg string) {
			send(StreamEvent{Progress: &domain.ProgressEvent{Step: step, Status: status, Message: msg}})
		}
		result, err := s.run(ctx, input, runOptions{save: input.Save, archive: true, stream: true}, emit)
		send(StreamEvent{Result: result, Err: err})
	}()
	return events
}

// run drives one upload through validate, upload, analyze, extract and save. Every step
// that starts is reported as active and then complete or error, in that order.
func (s *invoiceService) run(ctx context.Context, input *InvoiceInput, opts runOptions, emit emitFunc) (*InvoiceResult, error) {
	emit(domain.StepValidate, domain.StepActive, "Validating file...")
	ext, err := s.checkFile(input)
	if err != nil {
		emit(domain.StepValidate, domain.StepError, fileErrorMessage(err))
		return nil, err
	}
	emit(domain.StepValidate, domain.StepComplete, "File validated")

	emit(domain.StepUpload, domain.StepActive, "Reading image data...")
	mimeType := resolveMimeType(input.ContentType, ext)
	if opts.archive {
		s.archiveFile(ctx, input.Data, ext, mimeType)
	}
	emit(domain.StepUpload, domain.StepComplete, fmt.Sprintf("Image loaded (%d bytes)", len(input.Data)))

	emit(domain.StepAnalyze, domain.StepActive, fmt.Sprintf("Analyzing with %s...", strings.ToUpper(s.parserCfg.Primary)))
	res := s.extractor.Extract(ctx, input.Data, mimeType)
	if res == nil || !res.Succeeded {
		err := extractionError(res)
		msg := err.Error()
		if res != nil && res.ErrorMessage != "" {
			msg = res.ErrorMessage
		}
		log.Printf("invoiceService.run: extraction failed for %s: %s", input.FileName, msg)
		emit(domain.StepAnalyze, domain.StepError, msg)
		return nil, err
	}
	emit(domain.StepAnalyze, domain.StepComplete, analyzedMessage(res))

	emit(domain.StepExtract, domain.StepActive, "Validating extracted data...")
	valid, issues := validator.Validate(res.Document)
	if valid {
		emit(domain.StepExtract, domain.StepComplete, "All validation checks passed")
	} else {
		emit(domain.StepExtract, domain.StepComplete, fmt.Sprintf("Found %d validation issues", len(issues)))
	}

	result := &InvoiceResult{
		Extraction: ExtractionSummary{
			Success:    true,
			Provider:   res.Provider,
			Confidence: res.Confidence,
			Data:       res.Document,
		},
		Validation: ValidationSummary{IsValid: valid, Issues: issues},
	}
	if !opts.save {
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	emit(domain.StepSave, domain.StepActive, "Saving to database...")
	if !valid {
		emit(domain.StepSave, domain.StepError, "Cannot save - validation failed")
		return result, nil
	}
	orderID, err := s.save(ctx, res.Document, res.Provider)
	if err != nil {
		emit(domain.StepSave, domain.StepError, err.Error())
		if opts.stream {
			return result, nil
		}
		return nil, err
	}
	emit(domain.StepSave, domain.StepComplete, fmt.Sprintf("Saved as Order #%d", orderID))
	result.Database = SaveSummary{Saved: true, OrderID: &orderID}
	return result, nil
}

func (s *invoiceService) SaveEdited(ctx context.Context, doc *invoice.Document) (int64, error) {
	if doc == nil {
		return 0, fmt.Errorf("%w: missing 'data' in request body", domain.ErrInvalidRequest)
	}
	return s.save(ctx, doc, EditedProvider)
}

func (s *invoiceService) ProviderStatus() *ProviderStatus {
	fallback := s.parserCfg.FallbackProvider()
	status := &ProviderStatus{
		Providers: make(map[string]ProviderState, len(s.parserCfg.Providers)),
		Primary:   s.parserCfg.Primary,
		Fallback:  fallback,
	}
	for name := range s.parserCfg.Providers {
		pc := s.parserCfg.ProviderConfig(name)
		status.Providers[name] = ProviderState{
			Configured: pc.Configured(),
			IsPrimary:  name == s.parserCfg.Primary,
			IsFallback: name == fallback,
			Model:      pc.DefaultModel,
		}
	}
	return status
}

// save writes the header and then its lines. The two appends are separate store
// transactions; a failure between them leaves a header without lines.
func (s *invoiceService) save(ctx context.Context, doc *invoice.Document, provider string) (int64, error) {
	header, details := transform.ToSalesOrder(doc, nil)
	header.Provider = provider

	orderID, err := s.store.AddOrder(ctx, header)
	if err != nil {
		return 0, fmt.Errorf("saving order header: %w", err)
	}
	if _, err := s.store.AddOrderDetails(ctx, orderID, details); err != nil {
		return 0, fmt.Errorf("saving order %d details: %w", orderID, err)
	}
	log.Printf("invoiceService.save: saved invoice %q as order %d with %d lines (%s)",
		header.InvoiceNumber, orderID, len(details), provider)
	return orderID, nil
}

func (s *invoiceService) checkFile(input *InvoiceInput) (domain.FileType, error) {
	if input == nil || input.FileName == "" {
		return "", fmt.Errorf("%w: no file selected", domain.ErrInvalidRequest)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return "", domain.ErrUnsupportedFileType
	}
	if len(input.Data) == 0 {
		return "", domain.ErrEmptyFile
	}
	if maxBytes := s.uploadCfg.MaxBytes(); maxBytes > 0 && int64(len(input.Data)) > maxBytes {
		return "", domain.ErrFileTooLarge
	}
	return fileType, nil
}

// archiveFile copies the upload to object storage. Failures are logged only.
func (s *invoiceService) archiveFile(ctx context.Context, data []byte, fileType domain.FileType, mimeType string) {
	if s.archive == nil || s.archCfg == nil || !s.archCfg.Enabled {
		return
	}
	key := fmt.Sprintf("%s/%s/%s.%s",
		strings.Trim(s.archCfg.Prefix, "/"), s.now().UTC().Format("2006/01/02"), uuid.New(), fileType)
	out, err := s.archive.Upload(ctx, port.UploadInput{
		Bucket:      s.archCfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: mimeType,
		Size:        int64(len(data)),
	})
	if err != nil {
		log.Printf("invoiceService.archiveFile: archiving %s failed: %v", key, err)
		return
	}
	log.Printf("invoiceService.archiveFile: archived upload to %s", out.Location)
}

// resolveMimeType keeps the client's content type unless it is missing or generic.
func resolveMimeType(contentType string, fileType domain.FileType) string {
	ct := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if mt, ok := domain.AllowedFileTypes[fileType]; ok {
		return mt
	}
	return domain.DefaultMimeType
}

// extractionError maps a failed extraction to a domain error.
func extractionError(res *port.ExtractionResult) error {
	if res == nil {
		return fmt.Errorf("%w: no result from provider", domain.ErrExtractionFailed)
	}
	var fe *parser.FailoverError
	if errors.As(res.Err, &fe) {
		if fe.NoneConfigured() {
			return fmt.Errorf("%w: %s", domain.ErrNoProviderConfigured, fe.Error())
		}
	} else if errors.Is(res.Err, parser.ErrNotConfigured) {
		return fmt.Errorf("%w: %s", domain.ErrNoProviderConfigured, res.ErrorMessage)
	}
	return fmt.Errorf("%w: %s", domain.ErrExtractionFailed, res.ErrorMessage)
}

func fileErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return "Invalid file type"
	case errors.Is(err, domain.ErrFileTooLarge):
		return "File too large"
	case errors.Is(err, domain.ErrEmptyFile):
		return "File is empty"
	default:
		return "No file selected"
	}
}

func analyzedMessage(res *port.ExtractionResult) string {
	if res.Confidence == nil {
		return fmt.Sprintf("Extracted with %s", res.Provider)
	}
	return fmt.Sprintf("Extracted with %s (%.0f%% confidence)", res.Provider, *res.Confidence*100)
}
