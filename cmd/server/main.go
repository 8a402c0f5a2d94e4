// @title Document Extraction API
// @version 1.0
// @description Extracts structured sales orders from invoice images and PDFs and serves the order store.
// @BasePath /api
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"docextract/internal/config"
	"docextract/internal/handler"
	"docextract/internal/parser"
	"docextract/internal/parser/claude"
	"docextract/internal/parser/gemini"
	"docextract/internal/parser/openai"
	"docextract/internal/port"
	"docextract/internal/repository/xlsx"
	"docextract/internal/router"
	"docextract/internal/service"
	"docextract/internal/storage/noop"
	s3storage "docextract/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("main: ignoring .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !strings.EqualFold(cfg.Log.Level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Order store
	store, err := xlsx.New(&cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open order store: %w", err)
	}

	// Extraction providers
	registry := parser.NewRegistry()
	registry.Register(config.ProviderOpenAI, func(c *config.ParserProviderConfig) port.InvoiceExtractor {
		return openai.NewExtractor(c)
	})
	registry.Register(config.ProviderGemini, func(c *config.ParserProviderConfig) port.InvoiceExtractor {
		return gemini.NewExtractor(c)
	})
	registry.Register(config.ProviderClaude, func(c *config.ParserProviderConfig) port.InvoiceExtractor {
		return claude.NewExtractor(c)
	})
	extractor, err := registry.NewFailover(&cfg.Parser)
	if err != nil {
		return fmt.Errorf("failed to initialize extraction providers: %w", err)
	}
	log.Printf("main: extraction primary=%s fallback=%s", extractor.Primary(), extractor.Fallback())

	// Upload archive
	var archive port.ObjectStorage = noop.New()
	if cfg.Archive.Enabled {
		archive, err = s3storage.NewS3Client(ctx, &cfg.Archive)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		log.Printf("main: archiving uploads to s3://%s/%s", cfg.Archive.Bucket, cfg.Archive.Prefix)
	}

	// Services
	invoiceSvc := service.NewInvoiceService(extractor, store, archive, &cfg.Parser, &cfg.Upload, &cfg.Archive)
	orderSvc := service.NewOrderService(store)

	// Handlers
	maxBytes := cfg.Upload.MaxBytes()
	r := router.Setup(router.Handlers{
		Health:  handler.NewHealthHandler(orderSvc),
		Order:   handler.NewOrderHandler(orderSvc),
		Invoice: handler.NewInvoiceHandler(invoiceSvc, maxBytes),
		LLM:     handler.NewLLMHandler(invoiceSvc),
	}, cfg.CORS.AllowedOrigins, maxBytes)

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("main: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
