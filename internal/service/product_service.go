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

// ProductService exposes product operations.
type ProductService interface {
	CreateProduct(ctx context.Context, payload *dto.ProductPayload) (*model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	ListProducts(ctx context.Context, query dto.ProductQuery) ([]model.Product, int64, error)
	// ListCategoryProducts lists the products owned by one category.
	ListCategoryProducts(ctx context.Context, categoryID uint, query dto.ListQuery) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, id uint, payload *dto.ProductPayload, partial bool) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type productService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	cache      *cache.Client
	log        writeLog
}

// NewProductService builds a ProductService.
func NewProductService(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	cache *cache.Client,
	recorder metrics.WriteRecorder,
) ProductService {
	return &productService{repo: repo, categories: categories, cache: cache, log: newWriteLog(recorder)}
}

func (s *productService) CreateProduct(ctx context.Context, payload *dto.ProductPayload) (*model.Product, error) {
	product := &model.Product{}
	err := payload.Validate(false)
	if err == nil {
		payload.ApplyTo(product)
		err = s.repo.Create(ctx, product)
	}
	s.log.done("product", "create", logrus.Fields{"product_id": product.ID, "category_id": product.CategoryID}, err)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	var cached model.Product
	if s.cache.GetJSON(ctx, cache.ProductKey(id), &cached) {
		return &cached, nil
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrProductNotFound)
	}
	_ = s.cache.SetJSON(ctx, cache.ProductKey(id), product, cache.DefaultTTL)
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, query dto.ProductQuery) ([]model.Product, int64, error) {
	if err := query.Normalize(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, repository.ProductFilter{
		CategoryID: query.Category,
		Search:     query.Search,
		Page:       repository.Page{Offset: query.Offset(), Limit: query.PageSize},
	})
}

func (s *productService) ListCategoryProducts(ctx context.Context, categoryID uint, query dto.ListQuery) ([]model.Product, int64, error) {
	if err := query.Normalize(); err != nil {
		return nil, 0, err
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, 0, notFound(err, apperrors.ErrCategoryNotFound)
	}
	return s.repo.List(ctx, repository.ProductFilter{
		CategoryID: &categoryID,
		Search:     query.Search,
		Page:       repository.Page{Offset: query.Offset(), Limit: query.PageSize},
	})
}

func (s *productService) UpdateProduct(ctx context.Context, id uint, payload *dto.ProductPayload, partial bool) (*model.Product, error) {
	var updated *model.Product
	err := payload.Validate(partial)
	if err == nil {
		err = s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.ProductRepository) error {
			product, err := tx.FindByID(ctx, id)
			if err != nil {
				return err
			}
			payload.ApplyTo(product)
			if err := tx.Update(ctx, product); err != nil {
				return err
			}
			updated = product
			return nil
		})
		err = notFound(err, apperrors.ErrProductNotFound)
	}
	s.log.done("product", "update", logrus.Fields{"product_id": id, "partial": partial}, err)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, cache.ProductKey(id))
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	err := notFound(s.repo.Delete(ctx, id), apperrors.ErrProductNotFound)
	s.log.done("product", "delete", logrus.Fields{"product_id": id}, err)
	if err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, cache.ProductKey(id))
	return nil
}
