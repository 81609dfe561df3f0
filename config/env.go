package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/subosito/gotenv"
)

// loadEnvFile exports the variables in ./.env into the process environment.
// Variables that are already set win over the file.
func loadEnvFile() error {
	if err := gotenv.Load(".env"); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}
