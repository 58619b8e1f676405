//go:build integration
// +build integration

package mysql_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/SigNoz/ecommerce-rest-api/internal/db"
	"github.com/SigNoz/ecommerce-rest-api/internal/metrics"
	"github.com/SigNoz/ecommerce-rest-api/internal/models"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository/mysql"
	"github.com/SigNoz/ecommerce-rest-api/internal/seed"
)

// setupStore starts a MySQL container, applies the schema and loads the
// seed data
func setupStore(t *testing.T) repository.Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcmysql.Run(ctx,
		"mysql:8.0.36",
		tcmysql.WithDatabase("ecommerce"),
		tcmysql.WithUsername("ecommerce"),
		tcmysql.WithPassword("ecommerce"),
	)
	if err != nil {
		t.Fatalf("Failed to start MySQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "parseTime=true", "charset=utf8mb4")
	require.NoError(t, err)

	database, err := db.NewDB(dsn, noop.NewMeterProvider(), "ecommerce-rest-api-test")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, database.Migrate(ctx))

	m := metrics.Discard()
	store := mysql.New(database, m)
	require.NoError(t, seed.Load(ctx, store, m))
	return store
}

func TestMySQLStore(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	t.Run("seeded users", func(t *testing.T) {
		users, err := store.Users.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "maria@gmail.com", users[0].Email)
	})

	t.Run("order aggregate", func(t *testing.T) {
		o, err := store.Orders.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, models.Paid, o.Status)
		assert.Equal(t, int64(1), o.Client.ID)
		require.NotNil(t, o.Payment)
		assert.True(t, o.Payment.Moment.Equal(time.Date(2019, 6, 20, 21, 53, 7, 0, time.UTC)))
		require.Len(t, o.Items, 2)
		assert.True(t, decimal.RequireFromString("1431").Equal(o.Total()))
	})

	t.Run("product categories", func(t *testing.T) {
		p, err := store.Products.FindByID(ctx, 2)
		require.NoError(t, err)
		require.Len(t, p.Categories, 2)
		assert.Equal(t, "Electronics", p.Categories[0].Name)
		assert.Equal(t, "Computers", p.Categories[1].Name)
	})

	t.Run("delete user with orders", func(t *testing.T) {
		err := store.Users.DeleteByID(ctx, 1)
		assert.ErrorIs(t, err, repository.ErrIntegrityViolation)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := store.Users.Save(ctx, &models.User{Name: "Maria", Email: "maria@gmail.com"})
		assert.ErrorIs(t, err, repository.ErrIntegrityViolation)
	})

	t.Run("update and delete", func(t *testing.T) {
		u := &models.User{Name: "Bob Grey", Email: "bob@gmail.com", Phone: "955555555", Password: "123456"}
		require.NoError(t, store.Users.Save(ctx, u))

		u.Name = "Bob Gray"
		require.NoError(t, store.Users.Save(ctx, u))
		require.NoError(t, store.Users.Save(ctx, u))

		got, err := store.Users.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bob Gray", got.Name)

		require.NoError(t, store.Users.DeleteByID(ctx, u.ID))
		_, err = store.Users.FindByID(ctx, u.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.ErrorIs(t, store.Users.DeleteByID(ctx, u.ID), repository.ErrNotFound)
	})

	t.Run("order item upsert", func(t *testing.T) {
		oi := models.OrderItem{OrderID: 2, ProductID: 3, Quantity: 5, Price: decimal.NewFromInt(1250)}
		require.NoError(t, store.OrderItems.Save(ctx, &oi))

		items, err := store.OrderItems.FindByOrder(ctx, 2)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 5, items[0].Quantity)
	})
}
