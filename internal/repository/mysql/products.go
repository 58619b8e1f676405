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

// ProductRepository implements repository.ProductRepository. Saving a
// product replaces its category links with p.Categories.
type ProductRepository struct {
	base
}

const productColumns = "id, name, description, price, img_url"

func scanProduct(scan func(dest ...any) error) (models.Product, error) {
	var p models.Product
	var description sql.NullString
	if err := scan(&p.ID, &p.Name, &description, &p.Price, &p.ImgURL); err != nil {
		return p, err
	}
	p.Description = description.String
	return p, nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	query := "SELECT " + productColumns + " FROM tb_product ORDER BY id"
	rows, err := r.query(ctx, r.db, "SELECT", tableProduct, query)
	if err != nil {
		return nil, err
	}

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			rows.Close()
			return nil, repository.WrapError(fmt.Errorf("failed to scan product: %w", err), "SELECT", tableProduct)
		}
		products = append(products, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, repository.WrapError(err, "SELECT", tableProduct)
	}

	for i := range products {
		if products[i].Categories, err = r.categoriesOf(ctx, r.db, products[i].ID); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	start := time.Now()
	query := "SELECT " + productColumns + " FROM tb_product WHERE id = ?"

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id).Scan)
	r.metrics.RecordDBQuery(ctx, "SELECT", tableProduct, query, start, err == nil || errors.Is(err, sql.ErrNoRows))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.WrapError(repository.ErrNotFound, "SELECT", tableProduct)
	}
	if err != nil {
		return nil, repository.WrapError(fmt.Errorf("failed to get product: %w", err), "SELECT", tableProduct)
	}

	if p.Categories, err = r.categoriesOf(ctx, r.db, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save runs in a transaction; ids assigned by a failed save are withdrawn
func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	pending := repository.PendingProducts(p)
	return pending.Settle(r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return r.save(ctx, tx, p)
	}))
}

func (r *ProductRepository) SaveAll(ctx context.Context, products []*models.Product) error {
	pending := repository.PendingProducts(products...)
	return pending.Settle(r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, p := range products {
			if err := r.save(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (r *ProductRepository) save(ctx context.Context, q querier, p *models.Product) error {
	if p.ID == 0 {
		query := "INSERT INTO tb_product (name, description, price, img_url) VALUES (?, ?, ?, ?)"
		res, err := r.exec(ctx, q, "INSERT", tableProduct, query, p.Name, p.Description, p.Price, p.ImgURL)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return repository.WrapError(fmt.Errorf("failed to get product ID: %w", err), "INSERT", tableProduct)
		}
		p.ID = id
	} else {
		query := "UPDATE tb_product SET name = ?, description = ?, price = ?, img_url = ? WHERE id = ?"
		res, err := r.exec(ctx, q, "UPDATE", tableProduct, query, p.Name, p.Description, p.Price, p.ImgURL, p.ID)
		if err != nil {
			return err
		}
		if err := r.updated(ctx, q, res, tableProduct, p.ID); err != nil {
			return err
		}
	}

	unlink := "DELETE FROM tb_product_category WHERE product_id = ?"
	if _, err := r.exec(ctx, q, "DELETE", tableProductCategory, unlink, p.ID); err != nil {
		return err
	}

	link := "INSERT INTO tb_product_category (product_id, category_id) VALUES (?, ?)"
	for _, c := range p.Categories {
		if _, err := r.exec(ctx, q, "INSERT", tableProductCategory, link, p.ID, c.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, tableProduct, "id", id)
}
