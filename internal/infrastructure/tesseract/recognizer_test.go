package tesseract

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBinary writes a shell script standing in for tesseract
func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "tesseract")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	return path
}

func TestNewRecognizer_Defaults(t *testing.T) {
	r := NewRecognizer(Config{})

	assert.Equal(t, "tesseract", r.binary)
	assert.Equal(t, "eng", r.languages)
	assert.Equal(t, 30*time.Second, r.timeout)
}

func TestRecognize_ReturnsStdout(t *testing.T) {
	// echo args so the test sees the invocation shape
	binary := fakeBinary(t, `echo "MILK 2%"; echo "$2 $3 $4"; cat "$1"`)
	r := NewRecognizer(Config{BinaryPath: binary, Languages: "eng+ind"})

	assert.True(t, r.Available())

	text, err := r.Recognize(context.Background(), []byte("EXP 12/06/2024"))
	require.NoError(t, err)
	assert.Equal(t, "MILK 2%\nstdout -l eng+ind\nEXP 12/06/2024", text)
}

func TestRecognize_Failure(t *testing.T) {
	binary := fakeBinary(t, `echo "Error in pixReadStream" >&2; exit 1`)
	r := NewRecognizer(Config{BinaryPath: binary})

	_, err := r.Recognize(context.Background(), []byte("not an image"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pixReadStream")
}

func TestRecognize_MissingBinary(t *testing.T) {
	r := NewRecognizer(Config{BinaryPath: filepath.Join(t.TempDir(), "missing")})

	assert.False(t, r.Available())
	_, err := r.Recognize(context.Background(), []byte("img"))
	assert.Error(t, err)
}

func TestRecognize_Timeout(t *testing.T) {
	binary := fakeBinary(t, `exec sleep 5`)
	r := NewRecognizer(Config{BinaryPath: binary, Timeout: 100 * time.Millisecond})

	start := time.Now()
	_, err := r.Recognize(context.Background(), []byte("img"))
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)
}
