package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Config holds recognizer settings
type Config struct {
	// BinaryPath is the tesseract executable; defaults to "tesseract" on PATH
	BinaryPath string
	// Languages is passed as -l, e.g. "eng" or "eng+ind"
	Languages string
	// Timeout bounds one recognition run
	Timeout time.Duration
}

// Recognizer runs the tesseract CLI over an image
type Recognizer struct {
	binary    string
	languages string
	timeout   time.Duration
}

// NewRecognizer creates a recognizer
func NewRecognizer(config Config) *Recognizer {
	binary := config.BinaryPath
	if binary == "" {
		binary = "tesseract"
	}
	languages := config.Languages
	if languages == "" {
		languages = "eng"
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Recognizer{
		binary:    binary,
		languages: languages,
		timeout:   timeout,
	}
}

// Available reports whether the tesseract binary can be found
func (r *Recognizer) Available() bool {
	_, err := exec.LookPath(r.binary)
	return err == nil
}

// Recognize writes the image to a temporary file and returns tesseract's stdout
func (r *Recognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	tmp, err := os.CreateTemp("", "bestbefore-ocr-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary, tmp.Name(), "stdout", "-l", r.languages)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		log.Printf("[TESSERACT] %s failed: %v: %s", r.binary, err, msg)
		if msg != "" {
			return "", fmt.Errorf("tesseract: %v: %s", err, msg)
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}

	return stdout.String(), nil
}
