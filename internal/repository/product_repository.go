package repository

import (
	"context"

	"gorm.io/gorm"

	"milkdelivery/internal/model"
)

var productConstraints = constraintFields{reference: "category"}

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByCategoryAndName(ctx context.Context, categoryID uint, name string) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ProductRepository) error) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a GORM-backed repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return translateError(r.db.WithContext(ctx).Create(product).Error, productConstraints)
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return translateError(r.db.WithContext(ctx).Save(product).Error, productConstraints)
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if result.Error != nil {
		return translateError(result.Error, productConstraints)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, translateError(err, productConstraints)
	}
	return &product, nil
}

func (r *productRepository) FindByCategoryAndName(ctx context.Context, categoryID uint, name string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND name = ?", categoryID, name).
		Order("id").
		First(&product).Error
	if err != nil {
		return nil, translateError(err, productConstraints)
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("("+containsClause("name")+" OR "+containsClause("description")+")", pattern, pattern)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, productConstraints)
	}

	products := make([]model.Product, 0)
	if err := query.Order("id").Offset(filter.Offset).Limit(filter.Limit).Find(&products).Error; err != nil {
		return nil, 0, translateError(err, productConstraints)
	}
	return products, total, nil
}

// WithTransaction executes a function within a database transaction.
func (r *productRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &productRepository{db: tx})
	})
}
