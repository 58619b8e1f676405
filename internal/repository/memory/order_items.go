package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/SigNoz/ecommerce-rest-api/internal/models"
)

// OrderItemRepository implements repository.OrderItemRepository
type OrderItemRepository struct {
	db *DB
}

func (r *OrderItemRepository) FindAll(ctx context.Context) ([]models.OrderItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	keys := make([]models.OrderItemPK, 0, len(r.db.t.items))
	for key := range r.db.t.items {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b models.OrderItemPK) int {
		if c := cmp.Compare(a.OrderID, b.OrderID); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductID, b.ProductID)
	})

	items := make([]models.OrderItem, 0, len(keys))
	for _, key := range keys {
		oi, _ := r.db.item(key)
		items = append(items, oi)
	}
	return items, nil
}

func (r *OrderItemRepository) FindByID(ctx context.Context, id models.OrderItemPK) (*models.OrderItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	oi, ok := r.db.item(id)
	if !ok {
		return nil, notFound("SELECT", tableOrderItem)
	}
	return &oi, nil
}

func (r *OrderItemRepository) FindByOrder(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return r.db.itemsOf(orderID), nil
}

func (r *OrderItemRepository) Save(ctx context.Context, oi *models.OrderItem) error {
	return r.db.atomically(func() error { return r.save(oi) })
}

func (r *OrderItemRepository) SaveAll(ctx context.Context, items []*models.OrderItem) error {
	return r.db.atomically(func() error {
		for _, oi := range items {
			if err := r.save(oi); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *OrderItemRepository) save(oi *models.OrderItem) error {
	if _, ok := r.db.t.orders[oi.OrderID]; !ok {
		return integrity("INSERT", tableOrderItem)
	}
	if _, ok := r.db.t.products[oi.ProductID]; !ok {
		return integrity("INSERT", tableOrderItem)
	}
	r.db.t.items[oi.Key()] = itemRow{quantity: oi.Quantity, price: oi.Price}
	return nil
}

func (r *OrderItemRepository) DeleteByID(ctx context.Context, id models.OrderItemPK) error {
	return r.db.atomically(func() error {
		if _, ok := r.db.t.items[id]; !ok {
			return notFound("DELETE", tableOrderItem)
		}
		delete(r.db.t.items, id)
		return nil
	})
}
