package memory

import (
	"context"

	"github.com/SigNoz/ecommerce-rest-api/internal/models"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
)

// ProductRepository implements repository.ProductRepository. Saving a
// product replaces its category links with p.Categories.
type ProductRepository struct {
	db *DB
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	products := make([]models.Product, 0, len(r.db.t.products))
	for _, id := range sortedIDs(r.db.t.products) {
		p, _ := r.db.product(id)
		products = append(products, p)
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.product(id)
	if !ok {
		return nil, notFound("SELECT", tableProduct)
	}
	return &p, nil
}

func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	pending := repository.PendingProducts(p)
	return pending.Settle(r.db.atomically(func() error { return r.save(p) }))
}

func (r *ProductRepository) SaveAll(ctx context.Context, products []*models.Product) error {
	pending := repository.PendingProducts(products...)
	return pending.Settle(r.db.atomically(func() error {
		for _, p := range products {
			if err := r.save(p); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (r *ProductRepository) save(p *models.Product) error {
	for _, c := range p.Categories {
		if _, ok := r.db.t.categories[c.ID]; !ok {
			return integrity("INSERT", tableProductCategory)
		}
	}

	if p.ID == 0 {
		p.ID = r.db.nextID(tableProduct)
	} else if _, ok := r.db.t.products[p.ID]; !ok {
		return notFound("UPDATE", tableProduct)
	}

	r.db.t.products[p.ID] = productRow{
		id:          p.ID,
		name:        p.Name,
		description: p.Description,
		price:       p.Price,
		imgURL:      p.ImgURL,
	}

	for key := range r.db.t.productCategories {
		if key.productID == p.ID {
			delete(r.db.t.productCategories, key)
		}
	}
	for _, c := range p.Categories {
		r.db.t.productCategories[productCategoryKey{productID: p.ID, categoryID: c.ID}] = struct{}{}
	}
	return nil
}

func (r *ProductRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.db.atomically(func() error {
		if _, ok := r.db.t.products[id]; !ok {
			return notFound("DELETE", tableProduct)
		}
		for key := range r.db.t.items {
			if key.ProductID == id {
				return integrity("DELETE", tableProduct)
			}
		}
		for key := range r.db.t.productCategories {
			if key.productID == id {
				return integrity("DELETE", tableProduct)
			}
		}
		delete(r.db.t.products, id)
		return nil
	})
}
