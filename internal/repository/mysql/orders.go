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

// OrderRepository implements repository.OrderRepository. Saving an order
// writes its payment too; items are stored through OrderItemRepository.
type OrderRepository struct {
	base
}

const orderSelect = `SELECT o.id, o.moment, o.order_status,
		u.id, u.name, u.email, u.phone, u.password,
		pay.moment
	FROM tb_order o
	JOIN tb_user u ON u.id = o.client_id
	LEFT JOIN tb_payment pay ON pay.order_id = o.id`

// scanOrder fails on a status code with no OrderStatus
func scanOrder(scan func(dest ...any) error) (models.Order, error) {
	var o models.Order
	var client models.User
	var paidAt sql.NullTime
	err := scan(&o.ID, &o.Moment, &o.Status,
		&client.ID, &client.Name, &client.Email, &client.Phone, &client.Password,
		&paidAt)
	if err != nil {
		return o, err
	}
	o.Client = &client
	if paidAt.Valid {
		o.Payment = &models.Payment{ID: o.ID, Moment: paidAt.Time}
	}
	return o, nil
}

func (r *OrderRepository) ordersWhere(ctx context.Context, filter string, args ...any) ([]models.Order, error) {
	query := orderSelect + filter
	rows, err := r.query(ctx, r.db, "SELECT", tableOrder, query, args...)
	if err != nil {
		return nil, err
	}

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			rows.Close()
			return nil, repository.WrapError(fmt.Errorf("failed to scan order: %w", err), "SELECT", tableOrder)
		}
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, repository.WrapError(err, "SELECT", tableOrder)
	}

	for i := range orders {
		if orders[i].Items, err = r.itemsWhere(ctx, r.db, " WHERE oi.order_id = ? ORDER BY oi.product_id", orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	return r.ordersWhere(ctx, " ORDER BY o.id")
}

func (r *OrderRepository) FindByClient(ctx context.Context, clientID int64) ([]models.Order, error) {
	return r.ordersWhere(ctx, " WHERE o.client_id = ? ORDER BY o.moment DESC", clientID)
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	start := time.Now()
	query := orderSelect + " WHERE o.id = ?"

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id).Scan)
	r.metrics.RecordDBQuery(ctx, "SELECT", tableOrder, query, start, err == nil || errors.Is(err, sql.ErrNoRows))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.WrapError(repository.ErrNotFound, "SELECT", tableOrder)
	}
	if err != nil {
		return nil, repository.WrapError(fmt.Errorf("failed to get order: %w", err), "SELECT", tableOrder)
	}

	if o.Items, err = r.itemsWhere(ctx, r.db, " WHERE oi.order_id = ? ORDER BY oi.product_id", o.ID); err != nil {
		return nil, err
	}
	return &o, nil
}

// Save runs in a transaction; ids assigned by a failed save are withdrawn
func (r *OrderRepository) Save(ctx context.Context, o *models.Order) error {
	pending := repository.PendingOrders(o)
	return pending.Settle(r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return r.save(ctx, tx, o)
	}))
}

func (r *OrderRepository) SaveAll(ctx context.Context, orders []*models.Order) error {
	pending := repository.PendingOrders(orders...)
	return pending.Settle(r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, o := range orders {
			if err := r.save(ctx, tx, o); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (r *OrderRepository) save(ctx context.Context, q querier, o *models.Order) error {
	if !o.Status.Valid() {
		return repository.WrapError(fmt.Errorf("%w: %d", models.ErrInvalidStatusCode, int(o.Status)), "INSERT", tableOrder)
	}

	if o.ID == 0 {
		query := "INSERT INTO tb_order (moment, order_status, client_id) VALUES (?, ?, ?)"
		res, err := r.exec(ctx, q, "INSERT", tableOrder, query, o.Moment, o.Status.Code(), o.ClientID())
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return repository.WrapError(fmt.Errorf("failed to get order ID: %w", err), "INSERT", tableOrder)
		}
		o.ID = id
	} else {
		query := "UPDATE tb_order SET moment = ?, order_status = ?, client_id = ? WHERE id = ?"
		res, err := r.exec(ctx, q, "UPDATE", tableOrder, query, o.Moment, o.Status.Code(), o.ClientID(), o.ID)
		if err != nil {
			return err
		}
		if err := r.updated(ctx, q, res, tableOrder, o.ID); err != nil {
			return err
		}
	}

	if o.Payment == nil {
		query := "DELETE FROM tb_payment WHERE order_id = ?"
		_, err := r.exec(ctx, q, "DELETE", tablePayment, query, o.ID)
		return err
	}

	o.Payment.ID = o.ID
	query := `INSERT INTO tb_payment (order_id, moment) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE moment = VALUES(moment)`
	_, err := r.exec(ctx, q, "INSERT", tablePayment, query, o.ID, o.Payment.Moment)
	return err
}

// DeleteByID removes the order and its payment; orders with items are
// rejected by the foreign key on tb_order_item
func (r *OrderRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, tableOrder, "id", id)
}
