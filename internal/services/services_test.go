package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/SigNoz/ecommerce-rest-api/internal/metrics"
	"github.com/SigNoz/ecommerce-rest-api/internal/models"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository/memory"
	"github.com/SigNoz/ecommerce-rest-api/internal/seed"
)

func seededStore(t *testing.T) repository.Store {
	t.Helper()
	store := memory.New().Store()
	require.NoError(t, seed.Load(context.Background(), store, metrics.Discard()))
	return store
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	svc := NewUserService(store.Users, metrics.Discard())

	t.Run("find all", func(t *testing.T) {
		users, err := svc.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("find missing", func(t *testing.T) {
		_, err := svc.FindByID(ctx, 99)
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "Resource not found. Id = 99", err.Error())

		var nf *NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "user", nf.Resource)
	})

	t.Run("insert", func(t *testing.T) {
		u, err := svc.Insert(ctx, models.CreateUserRequest{Name: "Bob Grey", Email: "bob@gmail.com", Phone: "955555555", Password: "123456"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), u.ID)

		got, err := svc.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "123456", got.Password)
	})

	t.Run("insert duplicate email", func(t *testing.T) {
		_, err := svc.Insert(ctx, models.CreateUserRequest{Name: "Maria", Email: "maria@gmail.com"})
		assert.ErrorIs(t, err, ErrDatabase)
	})

	t.Run("update merges name email phone", func(t *testing.T) {
		u, err := svc.Update(ctx, 2, models.UpdateUserRequest{Name: "Alex Grey", Email: "alex.grey@gmail.com", Phone: "966666666"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), u.ID)
		assert.Equal(t, "Alex Grey", u.Name)
		assert.Equal(t, "123456", u.Password)

		got, err := svc.FindByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "alex.grey@gmail.com", got.Email)
	})

	t.Run("update missing", func(t *testing.T) {
		_, err := svc.Update(ctx, 99, models.UpdateUserRequest{Name: "Nobody"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete referenced", func(t *testing.T) {
		err := svc.Delete(ctx, 1)
		require.ErrorIs(t, err, ErrDatabase)
		assert.ErrorIs(t, err, repository.ErrIntegrityViolation)

		_, err = svc.FindByID(ctx, 1)
		assert.NoError(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, 3))
		_, err := svc.FindByID(ctx, 3)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, svc.Delete(ctx, 3), ErrNotFound)
	})
}

func TestOrderService(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(seededStore(t).Orders, metrics.Discard())

	orders, err := svc.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 3)

	o, err := svc.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.Paid, o.Status)
	assert.Len(t, o.Items, 2)

	mine, err := svc.FindByClient(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, int64(3), mine[0].ID)

	_, err = svc.FindByID(ctx, 4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductService(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(seededStore(t).Products, metrics.Discard())

	products, err := svc.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5)

	p, err := svc.FindByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Macbook Pro", p.Name)

	_, err = svc.FindByID(ctx, 6)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryService(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(seededStore(t).Categories, metrics.Discard())

	c, err := svc.Insert(ctx, models.CreateCategoryRequest{Name: "Games"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), c.ID)

	categories, err := svc.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 4)

	assert.ErrorIs(t, svc.Delete(ctx, 1), ErrDatabase)
	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = svc.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTranslateCountsEachViolationOnce(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := metrics.New(provider.Meter("test"), "test-service")
	require.NoError(t, err)

	store := seededStore(t)
	users := NewUserService(store.Users, m)
	categories := NewCategoryService(store.Categories, m)

	require.ErrorIs(t, users.Delete(ctx, 1), ErrDatabase)
	_, err = users.Insert(ctx, models.CreateUserRequest{Name: "Maria", Email: "maria@gmail.com"})
	require.ErrorIs(t, err, ErrDatabase)
	require.ErrorIs(t, categories.Delete(ctx, 1), ErrDatabase)
	_, err = users.FindByID(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				resource, _ := dp.Attributes.Value("resource")
				counts[md.Name+"/"+resource.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), counts["integrity_violations_total/user"])
	assert.Equal(t, int64(1), counts["integrity_violations_total/category"])
	assert.Equal(t, int64(1), counts["resource_not_found_total/user"])
}
