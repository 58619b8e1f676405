package services

import (
	"context"

	"github.com/SigNoz/ecommerce-rest-api/internal/metrics"
	"github.com/SigNoz/ecommerce-rest-api/internal/models"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
)

const resourceOrder = "order"

// OrderService handles order-related operations
type OrderService struct {
	orders  repository.OrderRepository
	metrics *metrics.AppMetrics
}

// NewOrderService creates a new order service
func NewOrderService(orders repository.OrderRepository, metrics *metrics.AppMetrics) *OrderService {
	return &OrderService{
		orders:  orders,
		metrics: metrics,
	}
}

// FindAll returns every order with its client, items and payment
func (s *OrderService) FindAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, translate(ctx, s.metrics, err, resourceOrder, "list", 0)
	}
	return orders, nil
}

// FindByID returns an order by ID
func (s *OrderService) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, translate(ctx, s.metrics, err, resourceOrder, "get", id)
	}
	return order, nil
}

// FindByClient returns the orders placed by a user, newest first
func (s *OrderService) FindByClient(ctx context.Context, clientID int64) ([]models.Order, error) {
	orders, err := s.orders.FindByClient(ctx, clientID)
	if err != nil {
		return nil, translate(ctx, s.metrics, err, resourceOrder, "list", clientID)
	}
	return orders, nil
}
