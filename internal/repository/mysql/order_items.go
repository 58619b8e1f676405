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

// OrderItemRepository implements repository.OrderItemRepository
type OrderItemRepository struct {
	base
}

const orderItemSelect = `SELECT oi.order_id, oi.product_id, oi.quantity, oi.price,
		p.id, p.name, p.description, p.price, p.img_url
	FROM tb_order_item oi
	JOIN tb_product p ON p.id = oi.product_id`

func scanOrderItem(scan func(dest ...any) error) (models.OrderItem, error) {
	var oi models.OrderItem
	var p models.Product
	var description sql.NullString
	err := scan(&oi.OrderID, &oi.ProductID, &oi.Quantity, &oi.Price,
		&p.ID, &p.Name, &description, &p.Price, &p.ImgURL)
	if err != nil {
		return oi, err
	}
	p.Description = description.String
	oi.Product = &p
	return oi, nil
}

// itemsWhere runs orderItemSelect with the given filter and loads the
// categories of each product
func (b base) itemsWhere(ctx context.Context, q querier, filter string, args ...any) ([]models.OrderItem, error) {
	query := orderItemSelect + filter
	rows, err := b.query(ctx, q, "SELECT", tableOrderItem, query, args...)
	if err != nil {
		return nil, err
	}

	items := []models.OrderItem{}
	for rows.Next() {
		oi, err := scanOrderItem(rows.Scan)
		if err != nil {
			rows.Close()
			return nil, repository.WrapError(fmt.Errorf("failed to scan order item: %w", err), "SELECT", tableOrderItem)
		}
		items = append(items, oi)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, repository.WrapError(err, "SELECT", tableOrderItem)
	}

	for i := range items {
		if items[i].Product.Categories, err = b.categoriesOf(ctx, q, items[i].ProductID); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *OrderItemRepository) FindAll(ctx context.Context) ([]models.OrderItem, error) {
	return r.itemsWhere(ctx, r.db, " ORDER BY oi.order_id, oi.product_id")
}

func (r *OrderItemRepository) FindByOrder(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	return r.itemsWhere(ctx, r.db, " WHERE oi.order_id = ? ORDER BY oi.product_id", orderID)
}

func (r *OrderItemRepository) FindByID(ctx context.Context, id models.OrderItemPK) (*models.OrderItem, error) {
	start := time.Now()
	query := orderItemSelect + " WHERE oi.order_id = ? AND oi.product_id = ?"

	oi, err := scanOrderItem(r.db.QueryRowContext(ctx, query, id.OrderID, id.ProductID).Scan)
	r.metrics.RecordDBQuery(ctx, "SELECT", tableOrderItem, query, start, err == nil || errors.Is(err, sql.ErrNoRows))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.WrapError(repository.ErrNotFound, "SELECT", tableOrderItem)
	}
	if err != nil {
		return nil, repository.WrapError(fmt.Errorf("failed to get order item: %w", err), "SELECT", tableOrderItem)
	}

	if oi.Product.Categories, err = r.categoriesOf(ctx, r.db, oi.ProductID); err != nil {
		return nil, err
	}
	return &oi, nil
}

func (r *OrderItemRepository) Save(ctx context.Context, oi *models.OrderItem) error {
	return r.save(ctx, r.db, oi)
}

func (r *OrderItemRepository) SaveAll(ctx context.Context, items []*models.OrderItem) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, oi := range items {
			if err := r.save(ctx, tx, oi); err != nil {
				return err
			}
		}
		return nil
	})
}

// save inserts the line or, when the (order, product) pair exists,
// replaces its quantity and price
func (r *OrderItemRepository) save(ctx context.Context, q querier, oi *models.OrderItem) error {
	query := `INSERT INTO tb_order_item (order_id, product_id, quantity, price) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = VALUES(quantity), price = VALUES(price)`
	_, err := r.exec(ctx, q, "INSERT", tableOrderItem, query, oi.OrderID, oi.ProductID, oi.Quantity, oi.Price)
	return err
}

func (r *OrderItemRepository) DeleteByID(ctx context.Context, id models.OrderItemPK) error {
	query := "DELETE FROM tb_order_item WHERE order_id = ? AND product_id = ?"
	res, err := r.exec(ctx, r.db, "DELETE", tableOrderItem, query, id.OrderID, id.ProductID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return repository.WrapError(fmt.Errorf("failed to get rows affected: %w", err), "DELETE", tableOrderItem)
	}
	if n == 0 {
		return repository.WrapError(repository.ErrNotFound, "DELETE", tableOrderItem)
	}
	return nil
}
