// Package seed loads a product catalog into the store, creating or updating
// categories by name and products by (category, name).
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"milkdelivery/internal/cache"
	"milkdelivery/internal/dto"
	"milkdelivery/internal/model"
	"milkdelivery/internal/repository"
)

//go:embed catalog.json
var defaultCatalog []byte

// Catalog is the seed file format.
type Catalog struct {
	Categories []CategoryEntry `json:"categories"`
}

// CategoryEntry is one category with its products.
type CategoryEntry struct {
	Name     string         `json:"name"`
	ImageURL *string        `json:"image_url"`
	Products []ProductEntry `json:"products"`
}

// ProductEntry is one product; Price is a decimal string or number.
type ProductEntry struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       json.RawMessage `json:"price"`
	ImageURL    *string         `json:"image_url"`
}

// Result counts what a run changed.
type Result struct {
	CategoriesCreated int `json:"categories_created"`
	CategoriesUpdated int `json:"categories_updated"`
	ProductsCreated   int `json:"products_created"`
	ProductsUpdated   int `json:"products_updated"`
}

// DefaultCatalog returns the built-in dairy catalog.
func DefaultCatalog() (*Catalog, error) {
	var catalog Catalog
	if err := json.Unmarshal(defaultCatalog, &catalog); err != nil {
		return nil, fmt.Errorf("parse default catalog: %w", err)
	}
	return &catalog, nil
}

// Load reads a catalog from r.
func Load(r io.Reader) (*Catalog, error) {
	var catalog Catalog
	if err := json.NewDecoder(r).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &catalog, nil
}

// Seeder writes catalogs through the repositories.
type Seeder struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	cache      *cache.Client
}

// NewSeeder creates a Seeder. Cached records are dropped after each
// committed upsert; cache may be nil.
func NewSeeder(categories repository.CategoryRepository, products repository.ProductRepository, cache *cache.Client) *Seeder {
	return &Seeder{categories: categories, products: products, cache: cache}
}

// Run upserts every entry. Each category and each product is its own
// transaction; the first failure stops the run.
func (s *Seeder) Run(ctx context.Context, catalog *Catalog) (Result, error) {
	var result Result
	for _, entry := range catalog.Categories {
		category, created, err := s.upsertCategory(ctx, entry)
		if err != nil {
			return result, fmt.Errorf("category %q: %w", entry.Name, err)
		}
		if created {
			result.CategoriesCreated++
		} else {
			result.CategoriesUpdated++
		}

		for _, item := range entry.Products {
			created, err := s.upsertProduct(ctx, category.ID, item)
			if err != nil {
				return result, fmt.Errorf("product %q in %q: %w", item.Name, entry.Name, err)
			}
			if created {
				result.ProductsCreated++
			} else {
				result.ProductsUpdated++
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"categories_created": result.CategoriesCreated,
		"categories_updated": result.CategoriesUpdated,
		"products_created":   result.ProductsCreated,
		"products_updated":   result.ProductsUpdated,
	}).Info("catalog seeded")
	return result, nil
}

func (s *Seeder) upsertCategory(ctx context.Context, entry CategoryEntry) (*model.Category, bool, error) {
	payload := dto.CategoryPayload{Name: dto.Of(entry.Name), ImageURL: optional(entry.ImageURL)}
	if err := payload.Validate(false); err != nil {
		return nil, false, err
	}

	var (
		category *model.Category
		created  bool
	)
	err := s.categories.WithTransaction(ctx, func(ctx context.Context, tx repository.CategoryRepository) error {
		existing, err := tx.FindByName(ctx, payload.Name.Value)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			category = &model.Category{}
			payload.ApplyTo(category)
			created = true
			return tx.Create(ctx, category)
		case err != nil:
			return err
		}
		payload.ApplyTo(existing)
		category = existing
		return tx.Update(ctx, existing)
	})
	if err != nil {
		return nil, false, err
	}
	_ = s.cache.Delete(ctx, cache.CategoryKey(category.ID))
	return category, created, nil
}

func (s *Seeder) upsertProduct(ctx context.Context, categoryID uint, item ProductEntry) (bool, error) {
	payload := dto.ProductPayload{
		Name:        dto.Of(item.Name),
		Description: optional(item.Description),
		ImageURL:    optional(item.ImageURL),
		Category:    dto.Of(categoryID),
	}
	if item.Price != nil {
		payload.Price = dto.Of(item.Price)
	}
	if err := payload.Validate(false); err != nil {
		return false, err
	}

	var (
		productID uint
		created   bool
	)
	err := s.products.WithTransaction(ctx, func(ctx context.Context, tx repository.ProductRepository) error {
		existing, err := tx.FindByCategoryAndName(ctx, categoryID, payload.Name.Value)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			product := &model.Product{}
			payload.ApplyTo(product)
			created = true
			if err := tx.Create(ctx, product); err != nil {
				return err
			}
			productID = product.ID
			return nil
		case err != nil:
			return err
		}
		payload.ApplyTo(existing)
		productID = existing.ID
		return tx.Update(ctx, existing)
	})
	if err != nil {
		return false, err
	}
	_ = s.cache.Delete(ctx, cache.ProductKey(productID))
	return created, nil
}

func optional(s *string) dto.Optional[string] {
	if s == nil {
		return dto.Null[string]()
	}
	return dto.Of(*s)
}
