package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/autoji/autoji/internal/models"
)

var (
	ErrMissingASIN = errors.New("ASIN is required")
	ErrNotFound    = errors.New("product not found")
)

// ProductStore keeps the extracted product list. The ASIN is the dedup key:
// adding a product whose ASIN already exists replaces the stored entry,
// last write wins.
type ProductStore interface {
	// Add inserts or replaces by ASIN and returns the new total count.
	Add(ctx context.Context, product *models.Product) (int, error)
	List(ctx context.Context) ([]*models.Product, error)
	Remove(ctx context.Context, asin string) error
	Clear(ctx context.Context) error
}

// FileStore persists the product list as one pretty-printed JSON array,
// the same shape the JSON export produces. Every mutation rewrites the
// whole list; the file is written to a temp path and renamed so a crash
// mid-write never corrupts existing data. Not safe across processes.
type FileStore struct {
	mu       sync.RWMutex
	products []*models.Product
	filename string
}

func NewFileStore(filename string) (*FileStore, error) {
	fs := &FileStore{filename: filename}

	if err := fs.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return fs, nil
}

func (fs *FileStore) Add(ctx context.Context, product *models.Product) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if product.ASIN == "" {
		return 0, ErrMissingASIN
	}

	replaced := false
	for i, p := range fs.products {
		if p.ASIN == product.ASIN {
			fs.products[i] = product
			replaced = true
			break
		}
	}
	if !replaced {
		fs.products = append(fs.products, product)
	}

	if err := fs.save(); err != nil {
		return 0, err
	}
	return len(fs.products), nil
}

func (fs *FileStore) List(ctx context.Context) ([]*models.Product, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	out := make([]*models.Product, len(fs.products))
	copy(out, fs.products)
	return out, nil
}

func (fs *FileStore) Remove(ctx context.Context, asin string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i, p := range fs.products {
		if p.ASIN == asin {
			fs.products = append(fs.products[:i], fs.products[i+1:]...)
			return fs.save()
		}
	}

	return fmt.Errorf("%w: %s", ErrNotFound, asin)
}

func (fs *FileStore) Clear(ctx context.Context) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.products = nil
	return fs.save()
}

func (fs *FileStore) save() error {
	list := fs.products
	if list == nil {
		list = []*models.Product{}
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := fs.filename + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, fs.filename)
}

func (fs *FileStore) load() error {
	data, err := os.ReadFile(fs.filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, &fs.products)
}
