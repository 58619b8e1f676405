package services

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/SigNoz/ecommerce-rest-api/internal/metrics"
	"github.com/SigNoz/ecommerce-rest-api/internal/models"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
)

const resourceUser = "user"

// UserService handles user-related operations
type UserService struct {
	users   repository.UserRepository
	metrics *metrics.AppMetrics
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepository, metrics *metrics.AppMetrics) *UserService {
	return &UserService{
		users:   users,
		metrics: metrics,
	}
}

// FindAll returns every user
func (s *UserService) FindAll(ctx context.Context) ([]models.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, translate(ctx, s.metrics, err, resourceUser, "list", 0)
	}
	return users, nil
}

// FindByID returns a user by ID
func (s *UserService) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, translate(ctx, s.metrics, err, resourceUser, "get", id)
	}
	return user, nil
}

// Insert creates a new user. A duplicate email is a DatabaseError.
func (s *UserService) Insert(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, translate(ctx, s.metrics, err, resourceUser, "insert", 0)
	}

	s.metrics.UsersCreated.Add(ctx, 1, metric.WithAttributes(s.metrics.WithServiceName(nil)...))
	slog.InfoContext(ctx, "user created", "user_id", user.ID)
	return user, nil
}

// Update overwrites name, email and phone of an existing user
func (s *UserService) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, translate(ctx, s.metrics, err, resourceUser, "update", id)
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone

	if err := s.users.Save(ctx, user); err != nil {
		return nil, translate(ctx, s.metrics, err, resourceUser, "update", id)
	}
	return user, nil
}

// Delete removes a user. Users with orders cannot be deleted.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.DeleteByID(ctx, id); err != nil {
		return translate(ctx, s.metrics, err, resourceUser, "delete", id)
	}

	s.metrics.UsersDeleted.Add(ctx, 1, metric.WithAttributes(s.metrics.WithServiceName(nil)...))
	slog.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}
