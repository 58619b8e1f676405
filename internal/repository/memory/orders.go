package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/SigNoz/ecommerce-rest-api/internal/models"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
)

// OrderRepository implements repository.OrderRepository. Saving an order
// writes its payment too; items are stored through OrderItemRepository.
type OrderRepository struct {
	db *DB
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	orders := make([]models.Order, 0, len(r.db.t.orders))
	for _, id := range sortedIDs(r.db.t.orders) {
		o, _ := r.db.order(id)
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	o, ok := r.db.order(id)
	if !ok {
		return nil, notFound("SELECT", tableOrder)
	}
	return &o, nil
}

func (r *OrderRepository) FindByClient(ctx context.Context, clientID int64) ([]models.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	orders := []models.Order{}
	for _, id := range sortedIDs(r.db.t.orders) {
		if r.db.t.orders[id].clientID == clientID {
			o, _ := r.db.order(id)
			orders = append(orders, o)
		}
	}
	// newest first
	slices.SortStableFunc(orders, func(a, b models.Order) int {
		return b.Moment.Compare(a.Moment)
	})
	return orders, nil
}

func (r *OrderRepository) Save(ctx context.Context, o *models.Order) error {
	pending := repository.PendingOrders(o)
	return pending.Settle(r.db.atomically(func() error { return r.save(o) }))
}

func (r *OrderRepository) SaveAll(ctx context.Context, orders []*models.Order) error {
	pending := repository.PendingOrders(orders...)
	return pending.Settle(r.db.atomically(func() error {
		for _, o := range orders {
			if err := r.save(o); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (r *OrderRepository) save(o *models.Order) error {
	if !o.Status.Valid() {
		return repository.WrapError(fmt.Errorf("%w: %d", models.ErrInvalidStatusCode, int(o.Status)), "INSERT", tableOrder)
	}
	if _, ok := r.db.t.users[o.ClientID()]; !ok {
		return integrity("INSERT", tableOrder)
	}

	if o.ID == 0 {
		o.ID = r.db.nextID(tableOrder)
	} else if _, ok := r.db.t.orders[o.ID]; !ok {
		return notFound("UPDATE", tableOrder)
	}

	r.db.t.orders[o.ID] = orderRow{
		id:       o.ID,
		moment:   o.Moment,
		status:   o.Status,
		clientID: o.ClientID(),
	}

	if o.Payment != nil {
		o.Payment.ID = o.ID
		r.db.t.payments[o.ID] = *o.Payment
	} else {
		delete(r.db.t.payments, o.ID)
	}
	return nil
}

func (r *OrderRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.db.atomically(func() error {
		if _, ok := r.db.t.orders[id]; !ok {
			return notFound("DELETE", tableOrder)
		}
		for key := range r.db.t.items {
			if key.OrderID == id {
				return integrity("DELETE", tableOrder)
			}
		}
		delete(r.db.t.payments, id)
		delete(r.db.t.orders, id)
		return nil
	})
}
