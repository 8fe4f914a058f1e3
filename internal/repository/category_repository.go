package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"milkdelivery/internal/model"
)

var categoryConstraints = constraintFields{unique: "name"}

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	// Delete removes the category; the store cascades to its products.
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context, filter CategoryFilter) ([]model.Category, int64, error)
	// ProductIDs returns the ids of the category's products.
	ProductIDs(ctx context.Context, id uint) ([]uint, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo CategoryRepository) error) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a GORM-backed repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error
	return translateError(err, categoryConstraints)
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(category).Error
	return translateError(err, categoryConstraints)
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Category{}, id)
	if result.Error != nil {
		return translateError(result.Error, categoryConstraints)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translateError(err, categoryConstraints)
	}
	return &category, nil
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translateError(err, categoryConstraints)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, filter CategoryFilter) ([]model.Category, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Category{})
	if filter.Search != "" {
		query = query.Where(containsClause("name"), likePattern(filter.Search))
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, categoryConstraints)
	}

	categories := make([]model.Category, 0)
	if err := query.Order("id").Offset(filter.Offset).Limit(filter.Limit).Find(&categories).Error; err != nil {
		return nil, 0, translateError(err, categoryConstraints)
	}
	return categories, total, nil
}

func (r *categoryRepository) ProductIDs(ctx context.Context, id uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ?", id).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, translateError(err, categoryConstraints)
	}
	return ids, nil
}

// WithTransaction executes a function within a database transaction.
func (r *categoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo CategoryRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &categoryRepository{db: tx})
	})
}
