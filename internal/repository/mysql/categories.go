package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SigNoz/ecommerce-rest-api/internal/models"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
)

// CategoryRepository implements repository.CategoryRepository
type CategoryRepository struct {
	base
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	query := "SELECT id, name FROM tb_category ORDER BY id"
	rows, err := r.query(ctx, r.db, "SELECT", tableCategory, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, repository.WrapError(fmt.Errorf("failed to scan category: %w", err), "SELECT", tableCategory)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	start := time.Now()
	query := "SELECT id, name FROM tb_category WHERE id = ?"

	var c models.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name)
	r.metrics.RecordDBQuery(ctx, "SELECT", tableCategory, query, start, err == nil || errors.Is(err, sql.ErrNoRows))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.WrapError(repository.ErrNotFound, "SELECT", tableCategory)
	}
	if err != nil {
		return nil, repository.WrapError(fmt.Errorf("failed to get category: %w", err), "SELECT", tableCategory)
	}
	return &c, nil
}

func (r *CategoryRepository) Save(ctx context.Context, c *models.Category) error {
	pending := repository.PendingCategories(c)
	return pending.Settle(r.save(ctx, r.db, c))
}

func (r *CategoryRepository) SaveAll(ctx context.Context, categories []*models.Category) error {
	pending := repository.PendingCategories(categories...)
	return pending.Settle(r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, c := range categories {
			if err := r.save(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (r *CategoryRepository) save(ctx context.Context, q querier, c *models.Category) error {
	if c.ID == 0 {
		query := "INSERT INTO tb_category (name) VALUES (?)"
		res, err := r.exec(ctx, q, "INSERT", tableCategory, query, c.Name)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return repository.WrapError(fmt.Errorf("failed to get category ID: %w", err), "INSERT", tableCategory)
		}
		c.ID = id
		return nil
	}

	query := "UPDATE tb_category SET name = ? WHERE id = ?"
	res, err := r.exec(ctx, q, "UPDATE", tableCategory, query, c.Name, c.ID)
	if err != nil {
		return err
	}
	return r.updated(ctx, q, res, tableCategory, c.ID)
}

func (r *CategoryRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, tableCategory, "id", id)
}
