package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
)

// OCRServiceConfig holds configuration for the OCR service
type OCRServiceConfig struct {
	CacheTTL       time.Duration
	MaxUploadBytes int64

	// Clock returns the current instant; defaults to time.Now
	Clock func() time.Time
}

// OCRService recognizes text in uploaded images and extracts an expiry date from it
type OCRService struct {
	recognizer     domain.TextRecognizer
	cache          domain.ScanCache
	cacheTTL       time.Duration
	maxUploadBytes int64
	clock          func() time.Time
}

// NewOCRService creates a new OCR service with dependencies
func NewOCRService(recognizer domain.TextRecognizer, cache domain.ScanCache, config OCRServiceConfig) *OCRService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	return &OCRService{
		recognizer:     recognizer,
		cache:          cache,
		cacheTTL:       cacheTTL,
		maxUploadBytes: config.MaxUploadBytes,
		clock:          clock,
	}
}

// Scan recognizes the image's text and picks an expiry date.
// Flow: check cache by image digest -> recognize -> cache text -> extract expiry
func (s *OCRService) Scan(ctx context.Context, filename string, image []byte) (*domain.OCRScan, error) {
	if len(image) == 0 {
		return nil, domain.ErrEmptyUpload
	}
	if s.maxUploadBytes > 0 && int64(len(image)) > s.maxUploadBytes {
		return nil, domain.ErrUploadTooLarge
	}

	key := scanCacheKey(image)

	text, err := s.recognizedText(ctx, key, image)
	if err != nil {
		return nil, err
	}

	// expiry scoring depends on today, so only the text is reused from cache
	scan := &domain.OCRScan{
		Filename: filename,
		Text:     text,
		Expiry:   ExtractExpiry(text, domain.DateOf(s.clock())),
	}

	log.Printf("[OCR] %q: %d chars, expiry=%s confidence=%.2f",
		filename, len(text), scan.Expiry.ExpiryDate, scan.Expiry.Confidence)

	return scan, nil
}

func (s *OCRService) recognizedText(ctx context.Context, key string, image []byte) (string, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
			return cached.Text, nil
		}
	}

	text, err := s.recognizer.Recognize(ctx, image)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrOCRFailure, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, &domain.OCRScan{Text: text}, s.cacheTTL); err != nil {
			log.Printf("[OCR] Failed to cache scan %s: %v", key, err)
		}
	}

	return text, nil
}

// scanCacheKey is "ocr:{sha256 of image}"
func scanCacheKey(image []byte) string {
	sum := sha256.Sum256(image)
	return "ocr:" + hex.EncodeToString(sum[:])
}
