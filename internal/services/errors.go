package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SigNoz/ecommerce-rest-api/internal/metrics"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
)

var (
	// ErrNotFound matches every *NotFoundError
	ErrNotFound = errors.New("resource not found")
	// ErrDatabase matches every *DatabaseError
	ErrDatabase = errors.New("database error")
)

// NotFoundError reports a lookup by id that matched nothing
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Resource not found. Id = %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DatabaseError reports a write rejected by an integrity constraint, such
// as deleting a user that still has orders
type DatabaseError struct {
	Resource string
	ID       int64
	Op       string
	Err      error
}

func (e *DatabaseError) Error() string {
	switch e.Op {
	case "delete":
		return fmt.Sprintf("Integrity violation: %s %d is referenced by other records", e.Resource, e.ID)
	default:
		return fmt.Sprintf("Integrity violation: %s %s conflicts with existing records", e.Op, e.Resource)
	}
}

func (e *DatabaseError) Is(target error) bool {
	return target == ErrDatabase
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// translate maps repository sentinels onto service errors. Anything else
// passes through untouched.
func translate(ctx context.Context, m *metrics.AppMetrics, err error, resource, op string, id int64) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		m.RecordNotFound(ctx, resource)
		return &NotFoundError{Resource: resource, ID: id}
	case errors.Is(err, repository.ErrIntegrityViolation):
		m.RecordIntegrityViolation(ctx, resource, op)
		return &DatabaseError{Resource: resource, ID: id, Op: op, Err: err}
	default:
		return fmt.Errorf("failed to %s %s: %w", op, resource, err)
	}
}
