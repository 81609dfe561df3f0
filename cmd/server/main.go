package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlvinMun/bestbeforeai/config"
	httpDelivery "github.com/AlvinMun/bestbeforeai/internal/delivery/http"
	"github.com/AlvinMun/bestbeforeai/internal/infrastructure/cache"
	"github.com/AlvinMun/bestbeforeai/internal/infrastructure/storage"
	"github.com/AlvinMun/bestbeforeai/internal/infrastructure/tesseract"
	"github.com/AlvinMun/bestbeforeai/internal/infrastructure/token"
	"github.com/AlvinMun/bestbeforeai/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("Invalid server configuration: %v", err)
	}

	log.Printf("Starting BestBefore API v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Database: %s", cfg.Database.Path)

	// Initialize infrastructure dependencies
	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	scanCache := cache.NewMemoryCache(cfg.Cache.CleanupInterval)
	defer scanCache.Close()
	log.Printf("Scan cache TTL: %s", cfg.Cache.TTL)

	recognizer := tesseract.NewRecognizer(tesseract.Config{
		BinaryPath: cfg.OCR.TesseractPath,
		Languages:  cfg.OCR.Languages,
		Timeout:    cfg.OCR.Timeout,
	})
	if recognizer.Available() {
		log.Printf("OCR: %s (languages: %s)", cfg.OCR.TesseractPath, cfg.OCR.Languages)
	} else {
		log.Printf("WARNING: tesseract not found at %q - OCR uploads will fail!", cfg.OCR.TesseractPath)
	}

	issuer := token.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	// Initialize usecase layer
	authService := usecase.NewAuthService(store, issuer)
	itemService := usecase.NewItemService(store)
	ocrService := usecase.NewOCRService(recognizer, scanCache, usecase.OCRServiceConfig{
		CacheTTL:       cfg.Cache.TTL,
		MaxUploadBytes: cfg.OCR.MaxUploadBytes,
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(authService, itemService, ocrService, store)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, authService)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
		close(done)
	}()

	// Start server
	log.Printf("Server listening on %s", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}

	<-done
	log.Println("Server stopped")
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
