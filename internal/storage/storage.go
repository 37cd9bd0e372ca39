package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"qazaq-scraper/pkg/models"
)

// Storage owns the snapshot file on disk.
type Storage struct {
	path string
}

func NewStorage(path string) *Storage {
	return &Storage{path: path}
}

func (s *Storage) Path() string { return s.path }

// Load reads the last snapshot back. A missing file, read error or invalid
// JSON is returned as an error.
func (s *Storage) Load() ([]models.Product, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	if products == nil {
		// A literal "null" is not a snapshot we wrote.
		return nil, fmt.Errorf("decode snapshot %s: not a product list", s.path)
	}
	return products, nil
}
