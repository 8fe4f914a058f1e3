package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"milkdelivery/internal/cache"
	"milkdelivery/internal/dto"
	apperrors "milkdelivery/internal/errors"
	"milkdelivery/internal/metrics"
	"milkdelivery/internal/model"
	"milkdelivery/internal/repository"
)

// CategoryService exposes category operations.
type CategoryService interface {
	CreateCategory(ctx context.Context, payload *dto.CategoryPayload) (*model.Category, error)
	GetCategory(ctx context.Context, id uint) (*model.Category, error)
	ListCategories(ctx context.Context, query dto.ListQuery) ([]model.Category, int64, error)
	UpdateCategory(ctx context.Context, id uint, payload *dto.CategoryPayload, partial bool) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache *cache.Client
	log   writeLog
}

// NewCategoryService builds a CategoryService with repository and cache.
func NewCategoryService(repo repository.CategoryRepository, cache *cache.Client, recorder metrics.WriteRecorder) CategoryService {
	return &categoryService{repo: repo, cache: cache, log: newWriteLog(recorder)}
}

func (s *categoryService) CreateCategory(ctx context.Context, payload *dto.CategoryPayload) (*model.Category, error) {
	category := &model.Category{}
	err := payload.Validate(false)
	if err == nil {
		payload.ApplyTo(category)
		err = s.repo.Create(ctx, category)
	}
	s.log.done("category", "create", logrus.Fields{"category_id": category.ID}, err)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	var cached model.Category
	if s.cache.GetJSON(ctx, cache.CategoryKey(id), &cached) {
		return &cached, nil
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCategoryNotFound)
	}
	_ = s.cache.SetJSON(ctx, cache.CategoryKey(id), category, cache.DefaultTTL)
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, query dto.ListQuery) ([]model.Category, int64, error) {
	if err := query.Normalize(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, repository.CategoryFilter{
		Search: query.Search,
		Page:   repository.Page{Offset: query.Offset(), Limit: query.PageSize},
	})
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uint, payload *dto.CategoryPayload, partial bool) (*model.Category, error) {
	var updated *model.Category
	err := payload.Validate(partial)
	if err == nil {
		err = s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.CategoryRepository) error {
			category, err := tx.FindByID(ctx, id)
			if err != nil {
				return err
			}
			payload.ApplyTo(category)
			if err := tx.Update(ctx, category); err != nil {
				return err
			}
			updated = category
			return nil
		})
		err = notFound(err, apperrors.ErrCategoryNotFound)
	}
	s.log.done("category", "update", logrus.Fields{"category_id": id, "partial": partial}, err)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, cache.CategoryKey(id))
	return updated, nil
}

// DeleteCategory removes the category and, through the store cascade, its products.
func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	var productIDs []uint
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.CategoryRepository) error {
		ids, err := tx.ProductIDs(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(ctx, id); err != nil {
			return err
		}
		productIDs = ids
		return nil
	})
	err = notFound(err, apperrors.ErrCategoryNotFound)
	s.log.done("category", "delete", logrus.Fields{"category_id": id, "products_removed": len(productIDs)}, err)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(productIDs)+1)
	keys = append(keys, cache.CategoryKey(id))
	for _, productID := range productIDs {
		keys = append(keys, cache.ProductKey(productID))
	}
	_ = s.cache.Delete(ctx, keys...)
	return nil
}
