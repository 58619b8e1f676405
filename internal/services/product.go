package services

import (
	"context"

	"github.com/SigNoz/ecommerce-rest-api/internal/metrics"
	"github.com/SigNoz/ecommerce-rest-api/internal/models"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
)

const resourceProduct = "product"

// ProductService handles product-related operations
type ProductService struct {
	products repository.ProductRepository
	metrics  *metrics.AppMetrics
}

// NewProductService creates a new product service
func NewProductService(products repository.ProductRepository, metrics *metrics.AppMetrics) *ProductService {
	return &ProductService{
		products: products,
		metrics:  metrics,
	}
}

// FindAll returns every product with its categories
func (s *ProductService) FindAll(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, translate(ctx, s.metrics, err, resourceProduct, "list", 0)
	}
	return products, nil
}

// FindByID returns a product by ID
func (s *ProductService) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, translate(ctx, s.metrics, err, resourceProduct, "get", id)
	}
	return product, nil
}
