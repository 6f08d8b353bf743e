package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file into the process environment before Load
// reads DOCSEARCH_* variables, so a developer's local .env can seed
// config without a YAML file. Idempotent: existing environment variables
// are never overwritten. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := loadIfExists(p); err != nil {
			return err
		}
	}
	if len(paths) == 0 {
		return loadIfExists(filepath.Join(".", ".env"))
	}
	return nil
}

func loadIfExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}
