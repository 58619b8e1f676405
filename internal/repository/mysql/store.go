// Package mysql implements the repositories on the MySQL schema in
// internal/db/schema.sql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/SigNoz/ecommerce-rest-api/internal/db"
	"github.com/SigNoz/ecommerce-rest-api/internal/metrics"
	"github.com/SigNoz/ecommerce-rest-api/internal/models"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
)

const (
	tableUser            = "tb_user"
	tableOrder           = "tb_order"
	tablePayment         = "tb_payment"
	tableProduct         = "tb_product"
	tableCategory        = "tb_category"
	tableProductCategory = "tb_product_category"
	tableOrderItem       = "tb_order_item"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New returns the repositories backed by database
func New(database *db.DB, m *metrics.AppMetrics) repository.Store {
	b := base{db: database, metrics: m}
	return repository.Store{
		Users:      &UserRepository{base: b},
		Orders:     &OrderRepository{base: b},
		Products:   &ProductRepository{base: b},
		Categories: &CategoryRepository{base: b},
		OrderItems: &OrderItemRepository{base: b},
	}
}

type base struct {
	db      *db.DB
	metrics *metrics.AppMetrics
}

func (b base) exec(ctx context.Context, q querier, op, table, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := q.ExecContext(ctx, query, args...)
	b.metrics.RecordDBQuery(ctx, op, table, query, start, err == nil)
	if err != nil {
		return nil, translate(err, op, table)
	}
	return res, nil
}

func (b base) query(ctx context.Context, q querier, op, table, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := q.QueryContext(ctx, query, args...)
	b.metrics.RecordDBQuery(ctx, op, table, query, start, err == nil)
	if err != nil {
		return nil, translate(err, op, table)
	}
	return rows, nil
}

// translate maps driver errors onto the repository sentinels
func translate(err error, op, table string) error {
	if db.IsIntegrityViolation(err) {
		return repository.WrapError(fmt.Errorf("%w: %w", repository.ErrIntegrityViolation, err), op, table)
	}
	return repository.WrapError(err, op, table)
}

// exists reports whether table has a row with the given id
func (b base) exists(ctx context.Context, q querier, table, column string, id int64) (bool, error) {
	start := time.Now()
	query := "SELECT COUNT(*) FROM " + table + " WHERE " + column + " = ?"
	var n int
	err := q.QueryRowContext(ctx, query, id).Scan(&n)
	b.metrics.RecordDBQuery(ctx, "SELECT", table, query, start, err == nil)
	if err != nil {
		return false, repository.WrapError(err, "SELECT", table)
	}
	return n > 0, nil
}

// deleteByID removes one row, reporting ErrNotFound when nothing matched
func (b base) deleteByID(ctx context.Context, table, column string, id int64) error {
	query := "DELETE FROM " + table + " WHERE " + column + " = ?"
	res, err := b.exec(ctx, b.db, "DELETE", table, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return repository.WrapError(fmt.Errorf("failed to get rows affected: %w", err), "DELETE", table)
	}
	if n == 0 {
		return repository.WrapError(repository.ErrNotFound, "DELETE", table)
	}
	return nil
}

// updated checks the outcome of an UPDATE by id. MySQL reports zero
// affected rows for a no-op update, so a zero count falls back to an
// existence check.
func (b base) updated(ctx context.Context, q querier, res sql.Result, table string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return repository.WrapError(fmt.Errorf("failed to get rows affected: %w", err), "UPDATE", table)
	}
	if n > 0 {
		return nil
	}
	ok, err := b.exists(ctx, q, table, "id", id)
	if err != nil {
		return err
	}
	if !ok {
		return repository.WrapError(repository.ErrNotFound, "UPDATE", table)
	}
	return nil
}

func (b base) categoriesOf(ctx context.Context, q querier, productID int64) ([]models.Category, error) {
	query := `SELECT c.id, c.name
		FROM tb_category c
		JOIN tb_product_category pc ON pc.category_id = c.id
		WHERE pc.product_id = ?
		ORDER BY c.id`
	rows, err := b.query(ctx, q, "SELECT", tableProductCategory, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, repository.WrapError(fmt.Errorf("failed to scan category: %w", err), "SELECT", tableProductCategory)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

var (
	_ repository.UserRepository      = (*UserRepository)(nil)
	_ repository.OrderRepository     = (*OrderRepository)(nil)
	_ repository.ProductRepository   = (*ProductRepository)(nil)
	_ repository.CategoryRepository  = (*CategoryRepository)(nil)
	_ repository.OrderItemRepository = (*OrderItemRepository)(nil)
)
