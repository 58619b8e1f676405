package services

import (
	"context"

	"github.com/SigNoz/ecommerce-rest-api/internal/metrics"
	"github.com/SigNoz/ecommerce-rest-api/internal/models"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
)

const resourceCategory = "category"

// CategoryService handles category-related operations
type CategoryService struct {
	categories repository.CategoryRepository
	metrics    *metrics.AppMetrics
}

// NewCategoryService creates a new category service
func NewCategoryService(categories repository.CategoryRepository, metrics *metrics.AppMetrics) *CategoryService {
	return &CategoryService{
		categories: categories,
		metrics:    metrics,
	}
}

func (s *CategoryService) FindAll(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, translate(ctx, s.metrics, err, resourceCategory, "list", 0)
	}
	return categories, nil
}

func (s *CategoryService) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, translate(ctx, s.metrics, err, resourceCategory, "get", id)
	}
	return category, nil
}

func (s *CategoryService) Insert(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{Name: req.Name}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, translate(ctx, s.metrics, err, resourceCategory, "insert", 0)
	}
	return category, nil
}

// Delete removes a category no product is linked to
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.categories.DeleteByID(ctx, id); err != nil {
		return translate(ctx, s.metrics, err, resourceCategory, "delete", id)
	}
	return nil
}
