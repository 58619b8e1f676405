package memory

import (
	"context"

	"github.com/SigNoz/ecommerce-rest-api/internal/models"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
)

// UserRepository implements repository.UserRepository
type UserRepository struct {
	db *DB
}

func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	users := make([]models.User, 0, len(r.db.t.users))
	for _, id := range sortedIDs(r.db.t.users) {
		users = append(users, r.db.t.users[id])
	}
	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.user(id)
	if !ok {
		return nil, notFound("SELECT", tableUser)
	}
	return &u, nil
}

func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	pending := repository.PendingUsers(u)
	return pending.Settle(r.db.atomically(func() error { return r.save(u) }))
}

func (r *UserRepository) SaveAll(ctx context.Context, users []*models.User) error {
	pending := repository.PendingUsers(users...)
	return pending.Settle(r.db.atomically(func() error {
		for _, u := range users {
			if err := r.save(u); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (r *UserRepository) save(u *models.User) error {
	op := "INSERT"
	if u.ID != 0 {
		op = "UPDATE"
	}
	for id, existing := range r.db.t.users {
		if existing.Email == u.Email && id != u.ID {
			return integrity(op, tableUser)
		}
	}

	if u.ID == 0 {
		u.ID = r.db.nextID(tableUser)
	} else if _, ok := r.db.t.users[u.ID]; !ok {
		return notFound("UPDATE", tableUser)
	}
	r.db.t.users[u.ID] = *u
	return nil
}

func (r *UserRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.db.atomically(func() error {
		if _, ok := r.db.t.users[id]; !ok {
			return notFound("DELETE", tableUser)
		}
		for _, o := range r.db.t.orders {
			if o.clientID == id {
				return integrity("DELETE", tableUser)
			}
		}
		delete(r.db.t.users, id)
		return nil
	})
}
