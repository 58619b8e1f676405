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

// UserRepository implements repository.UserRepository
type UserRepository struct {
	base
}

const userColumns = "id, name, email, phone, password"

func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	query := "SELECT " + userColumns + " FROM tb_user ORDER BY id"
	rows, err := r.query(ctx, r.db, "SELECT", tableUser, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Password); err != nil {
			return nil, repository.WrapError(fmt.Errorf("failed to scan user: %w", err), "SELECT", tableUser)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	start := time.Now()
	query := "SELECT " + userColumns + " FROM tb_user WHERE id = ?"

	var u models.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Password)
	r.metrics.RecordDBQuery(ctx, "SELECT", tableUser, query, start, err == nil || errors.Is(err, sql.ErrNoRows))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.WrapError(repository.ErrNotFound, "SELECT", tableUser)
	}
	if err != nil {
		return nil, repository.WrapError(fmt.Errorf("failed to get user: %w", err), "SELECT", tableUser)
	}
	return &u, nil
}

func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	pending := repository.PendingUsers(u)
	return pending.Settle(r.save(ctx, r.db, u))
}

func (r *UserRepository) SaveAll(ctx context.Context, users []*models.User) error {
	pending := repository.PendingUsers(users...)
	return pending.Settle(r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, u := range users {
			if err := r.save(ctx, tx, u); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (r *UserRepository) save(ctx context.Context, q querier, u *models.User) error {
	if u.ID == 0 {
		query := "INSERT INTO tb_user (name, email, phone, password) VALUES (?, ?, ?, ?)"
		res, err := r.exec(ctx, q, "INSERT", tableUser, query, u.Name, u.Email, u.Phone, u.Password)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return repository.WrapError(fmt.Errorf("failed to get user ID: %w", err), "INSERT", tableUser)
		}
		u.ID = id
		return nil
	}

	query := "UPDATE tb_user SET name = ?, email = ?, phone = ?, password = ? WHERE id = ?"
	res, err := r.exec(ctx, q, "UPDATE", tableUser, query, u.Name, u.Email, u.Phone, u.Password, u.ID)
	if err != nil {
		return err
	}
	return r.updated(ctx, q, res, tableUser, u.ID)
}

func (r *UserRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, tableUser, "id", id)
}
