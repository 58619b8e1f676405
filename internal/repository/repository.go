// Package repository defines the data access contract for each entity. Two
// implementations exist: mysql, backed by the relational schema, and memory,
// an in-process store enforcing the same constraints.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SigNoz/ecommerce-rest-api/internal/models"
)

var (
	// ErrNotFound is returned when no row has the requested key
	ErrNotFound = errors.New("record not found")
	// ErrIntegrityViolation is returned when a write conflicts with a
	// foreign key or unique constraint
	ErrIntegrityViolation = errors.New("integrity constraint violation")
)

// Error adds the failing operation and table to a repository error
type Error struct {
	Op    string
	Table string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError wraps err with operation and table context
func WrapError(err error, op, table string) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Table: table, Err: err}
}

// Pending holds surrogate ids that were unset before a write. A write may
// assign them before it commits; Settle withdraws them when it fails so
// the entities stay transient.
type Pending []*int64

// Transient returns the ids among ids that are still unset
func Transient(ids ...*int64) Pending {
	var p Pending
	for _, id := range ids {
		if id != nil && *id == 0 {
			p = append(p, id)
		}
	}
	return p
}

// Settle zeroes the pending ids when err is non-nil and returns err
func (p Pending) Settle(err error) error {
	if err != nil {
		for _, id := range p {
			*id = 0
		}
	}
	return err
}

// PendingUsers tracks the unset ids of users
func PendingUsers(users ...*models.User) Pending {
	ids := make([]*int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, &u.ID)
	}
	return Transient(ids...)
}

// PendingOrders tracks the unset ids of orders and of their payments
func PendingOrders(orders ...*models.Order) Pending {
	ids := make([]*int64, 0, 2*len(orders))
	for _, o := range orders {
		ids = append(ids, &o.ID)
		if o.Payment != nil {
			ids = append(ids, &o.Payment.ID)
		}
	}
	return Transient(ids...)
}

// PendingProducts tracks the unset ids of products
func PendingProducts(products ...*models.Product) Pending {
	ids := make([]*int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, &p.ID)
	}
	return Transient(ids...)
}

// PendingCategories tracks the unset ids of categories
func PendingCategories(categories ...*models.Category) Pending {
	ids := make([]*int64, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, &c.ID)
	}
	return Transient(ids...)
}

// UserRepository stores users
type UserRepository interface {
	FindAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
	SaveAll(ctx context.Context, users []*models.User) error
	DeleteByID(ctx context.Context, id int64) error
}

// OrderRepository stores orders with their payment. Reads return the
// client, items and payment of each order.
type OrderRepository interface {
	FindAll(ctx context.Context) ([]models.Order, error)
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	FindByClient(ctx context.Context, clientID int64) ([]models.Order, error)
	Save(ctx context.Context, o *models.Order) error
	SaveAll(ctx context.Context, orders []*models.Order) error
	DeleteByID(ctx context.Context, id int64) error
}

// ProductRepository stores products and their category links
type ProductRepository interface {
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	Save(ctx context.Context, p *models.Product) error
	SaveAll(ctx context.Context, products []*models.Product) error
	DeleteByID(ctx context.Context, id int64) error
}

// CategoryRepository stores categories
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	Save(ctx context.Context, c *models.Category) error
	SaveAll(ctx context.Context, categories []*models.Category) error
	DeleteByID(ctx context.Context, id int64) error
}

// OrderItemRepository stores order lines keyed by (order, product). Saving
// an existing key replaces its quantity and price.
type OrderItemRepository interface {
	FindAll(ctx context.Context) ([]models.OrderItem, error)
	FindByID(ctx context.Context, id models.OrderItemPK) (*models.OrderItem, error)
	FindByOrder(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	Save(ctx context.Context, oi *models.OrderItem) error
	SaveAll(ctx context.Context, items []*models.OrderItem) error
	DeleteByID(ctx context.Context, id models.OrderItemPK) error
}

// Store bundles one repository per entity
type Store struct {
	Users      UserRepository
	Orders     OrderRepository
	Products   ProductRepository
	Categories CategoryRepository
	OrderItems OrderItemRepository
}
