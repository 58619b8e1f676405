package memory

import (
	"context"

	"github.com/SigNoz/ecommerce-rest-api/internal/models"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
)

// CategoryRepository implements repository.CategoryRepository
type CategoryRepository struct {
	db *DB
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	categories := make([]models.Category, 0, len(r.db.t.categories))
	for _, id := range sortedIDs(r.db.t.categories) {
		categories = append(categories, r.db.t.categories[id])
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	c, ok := r.db.category(id)
	if !ok {
		return nil, notFound("SELECT", tableCategory)
	}
	return &c, nil
}

func (r *CategoryRepository) Save(ctx context.Context, c *models.Category) error {
	pending := repository.PendingCategories(c)
	return pending.Settle(r.db.atomically(func() error { return r.save(c) }))
}

func (r *CategoryRepository) SaveAll(ctx context.Context, categories []*models.Category) error {
	pending := repository.PendingCategories(categories...)
	return pending.Settle(r.db.atomically(func() error {
		for _, c := range categories {
			if err := r.save(c); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (r *CategoryRepository) save(c *models.Category) error {
	if c.ID == 0 {
		c.ID = r.db.nextID(tableCategory)
	} else if _, ok := r.db.t.categories[c.ID]; !ok {
		return notFound("UPDATE", tableCategory)
	}
	r.db.t.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.db.atomically(func() error {
		if _, ok := r.db.t.categories[id]; !ok {
			return notFound("DELETE", tableCategory)
		}
		for key := range r.db.t.productCategories {
			if key.categoryID == id {
				return integrity("DELETE", tableCategory)
			}
		}
		delete(r.db.t.categories, id)
		return nil
	})
}
