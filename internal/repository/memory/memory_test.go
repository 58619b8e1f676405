package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SigNoz/ecommerce-rest-api/internal/models"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store repository.Store
	maria *models.User
	order *models.Order
	book  *models.Product
	books *models.Category
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := New().Store()

	maria := &models.User{Name: "Maria Brown", Email: "maria@gmail.com", Phone: "988888888", Password: "123456"}
	require.NoError(t, store.Users.Save(ctx, maria))

	books := &models.Category{Name: "Books"}
	require.NoError(t, store.Categories.Save(ctx, books))

	book := &models.Product{Name: "The Lord of the Rings", Price: decimal.RequireFromString("90.5")}
	book.AddCategory(*books)
	require.NoError(t, store.Products.Save(ctx, book))

	order := &models.Order{Moment: time.Date(2019, 6, 20, 19, 53, 7, 0, time.UTC), Status: models.Paid, Client: maria}
	require.NoError(t, store.Orders.Save(ctx, order))

	return &fixture{store: store, maria: maria, order: order, book: book, books: books, ctx: ctx}
}

func TestSaveAssignsSurrogateIDs(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, int64(1), f.maria.ID)
	assert.Equal(t, int64(1), f.order.ID)
	assert.Equal(t, int64(1), f.book.ID)

	alex := &models.User{Name: "Alex Green", Email: "alex@gmail.com"}
	require.NoError(t, f.store.Users.Save(f.ctx, alex))
	assert.Equal(t, int64(2), alex.ID)

	users, err := f.store.Users.FindAll(f.ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestFindByIDMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.Users.FindByID(f.ctx, 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.store.Orders.FindByID(f.ctx, 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.store.Products.FindByID(f.ctx, 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.store.Categories.FindByID(f.ctx, 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.store.OrderItems.FindByID(f.ctx, models.OrderItemPK{OrderID: 1, ProductID: 99})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateExistingUser(t *testing.T) {
	f := newFixture(t)

	f.maria.Phone = "911111111"
	require.NoError(t, f.store.Users.Save(f.ctx, f.maria))

	got, err := f.store.Users.FindByID(f.ctx, f.maria.ID)
	require.NoError(t, err)
	assert.Equal(t, "911111111", got.Phone)

	err = f.store.Users.Save(f.ctx, &models.User{ID: 42, Email: "ghost@example.com"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDuplicateEmailRejected(t *testing.T) {
	f := newFixture(t)
	err := f.store.Users.Save(f.ctx, &models.User{Name: "Other", Email: "maria@gmail.com"})
	assert.ErrorIs(t, err, repository.ErrIntegrityViolation)

	alex := &models.User{Name: "Alex Green", Email: "alex@gmail.com"}
	require.NoError(t, f.store.Users.Save(f.ctx, alex))
	alex.Email = "maria@gmail.com"
	err = f.store.Users.Save(f.ctx, alex)
	require.ErrorIs(t, err, repository.ErrIntegrityViolation)

	var repoErr *repository.Error
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, "UPDATE", repoErr.Op)
}

func TestDeleteUserWithOrdersRejected(t *testing.T) {
	f := newFixture(t)

	err := f.store.Users.DeleteByID(f.ctx, f.maria.ID)
	assert.ErrorIs(t, err, repository.ErrIntegrityViolation)

	_, err = f.store.Users.FindByID(f.ctx, f.maria.ID)
	assert.NoError(t, err, "rejected delete keeps the row")

	alex := &models.User{Name: "Alex Green", Email: "alex@gmail.com"}
	require.NoError(t, f.store.Users.Save(f.ctx, alex))
	require.NoError(t, f.store.Users.DeleteByID(f.ctx, alex.ID))
	assert.ErrorIs(t, f.store.Users.DeleteByID(f.ctx, alex.ID), repository.ErrNotFound)
}

func TestOrderReadsAggregate(t *testing.T) {
	f := newFixture(t)

	item := models.NewOrderItem(f.order, f.book, 2, f.book.Price)
	require.NoError(t, f.store.OrderItems.Save(f.ctx, &item))

	f.order.Payment = &models.Payment{Moment: time.Date(2019, 6, 20, 21, 53, 7, 0, time.UTC)}
	require.NoError(t, f.store.Orders.Save(f.ctx, f.order))
	assert.Equal(t, f.order.ID, f.order.Payment.ID)

	got, err := f.store.Orders.FindByID(f.ctx, f.order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Client)
	assert.Equal(t, "Maria Brown", got.Client.Name)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "The Lord of the Rings", got.Items[0].Product.Name)
	require.NotNil(t, got.Payment)
	assert.True(t, decimal.NewFromInt(181).Equal(got.Total()))

	byClient, err := f.store.Orders.FindByClient(f.ctx, f.maria.ID)
	require.NoError(t, err)
	assert.Len(t, byClient, 1)
}

func TestOrderItemCompositeKeyUpserts(t *testing.T) {
	f := newFixture(t)

	first := models.NewOrderItem(f.order, f.book, 2, f.book.Price)
	require.NoError(t, f.store.OrderItems.Save(f.ctx, &first))

	second := models.NewOrderItem(f.order, f.book, 7, decimal.NewFromInt(80))
	require.NoError(t, f.store.OrderItems.Save(f.ctx, &second))

	items, err := f.store.OrderItems.FindAll(f.ctx)
	require.NoError(t, err)
	require.Len(t, items, 1, "one line per (order, product)")
	assert.Equal(t, 7, items[0].Quantity)

	require.NoError(t, f.store.OrderItems.DeleteByID(f.ctx, first.Key()))
	items, err = f.store.OrderItems.FindByOrder(f.ctx, f.order.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestForeignKeysOnInsert(t *testing.T) {
	f := newFixture(t)

	err := f.store.Orders.Save(f.ctx, &models.Order{Status: models.Paid, Client: &models.User{ID: 77}})
	assert.ErrorIs(t, err, repository.ErrIntegrityViolation)

	orphan := models.OrderItem{OrderID: 55, ProductID: f.book.ID, Quantity: 1}
	assert.ErrorIs(t, f.store.OrderItems.Save(f.ctx, &orphan), repository.ErrIntegrityViolation)

	p := &models.Product{Name: "Ghost", Categories: []models.Category{{ID: 77}}}
	assert.ErrorIs(t, f.store.Products.Save(f.ctx, p), repository.ErrIntegrityViolation)
}

func TestInvalidStatusRejected(t *testing.T) {
	f := newFixture(t)
	err := f.store.Orders.Save(f.ctx, &models.Order{Status: models.OrderStatus(0), Client: f.maria})
	assert.ErrorIs(t, err, models.ErrInvalidStatusCode)
}

func TestSaveAllIsAtomic(t *testing.T) {
	f := newFixture(t)

	err := f.store.Users.SaveAll(f.ctx, []*models.User{
		{Name: "Alex Green", Email: "alex@gmail.com"},
		{Name: "Clone", Email: "maria@gmail.com"},
	})
	assert.ErrorIs(t, err, repository.ErrIntegrityViolation)

	users, err := f.store.Users.FindAll(f.ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1, "failed batch leaves no rows behind")
}

func TestFailedSaveWithdrawsAssignedIDs(t *testing.T) {
	f := newFixture(t)

	t.Run("users", func(t *testing.T) {
		alex := &models.User{Name: "Alex Green", Email: "alex@gmail.com"}
		err := f.store.Users.SaveAll(f.ctx, []*models.User{alex, {Name: "Clone", Email: "maria@gmail.com"}})
		require.ErrorIs(t, err, repository.ErrIntegrityViolation)
		assert.Zero(t, alex.ID)

		require.NoError(t, f.store.Users.Save(f.ctx, alex))
		got, err := f.store.Users.FindByID(f.ctx, alex.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alex Green", got.Name)
	})

	t.Run("orders", func(t *testing.T) {
		paid := &models.Order{Status: models.Paid, Client: f.maria, Payment: &models.Payment{Moment: time.Now().UTC()}}
		broken := &models.Order{Status: models.OrderStatus(9), Client: f.maria}
		err := f.store.Orders.SaveAll(f.ctx, []*models.Order{paid, broken})
		require.ErrorIs(t, err, models.ErrInvalidStatusCode)
		assert.Zero(t, paid.ID)
		assert.Zero(t, paid.Payment.ID)

		require.NoError(t, f.store.Orders.Save(f.ctx, paid))
		assert.Equal(t, paid.ID, paid.Payment.ID)
		_, err = f.store.Orders.FindByID(f.ctx, paid.ID)
		assert.NoError(t, err)
	})

	t.Run("products and categories", func(t *testing.T) {
		lamp := &models.Product{Name: "Lamp"}
		ghost := &models.Product{Name: "Ghost", Categories: []models.Category{{ID: 77}}}
		require.ErrorIs(t, f.store.Products.SaveAll(f.ctx, []*models.Product{lamp, ghost}), repository.ErrIntegrityViolation)
		assert.Zero(t, lamp.ID)
		assert.Zero(t, ghost.ID)

		require.NoError(t, f.store.Products.Save(f.ctx, lamp))
		assert.NotZero(t, lamp.ID)

		garden := &models.Category{Name: "Garden"}
		updateMissing := &models.Category{ID: 42, Name: "Missing"}
		require.Error(t, f.store.Categories.SaveAll(f.ctx, []*models.Category{garden, updateMissing}))
		assert.Zero(t, garden.ID)
		assert.Equal(t, int64(42), updateMissing.ID, "caller supplied ids are left alone")
	})
}

func TestCategoryDeleteRestrictedByProducts(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.store.Categories.DeleteByID(f.ctx, f.books.ID), repository.ErrIntegrityViolation)

	empty := &models.Category{Name: "Garden"}
	require.NoError(t, f.store.Categories.Save(f.ctx, empty))
	assert.NoError(t, f.store.Categories.DeleteByID(f.ctx, empty.ID))
}

func TestProductCategoriesReplacedOnSave(t *testing.T) {
	f := newFixture(t)

	computers := &models.Category{Name: "Computers"}
	require.NoError(t, f.store.Categories.Save(f.ctx, computers))

	f.book.Categories = []models.Category{*computers}
	require.NoError(t, f.store.Products.Save(f.ctx, f.book))

	got, err := f.store.Products.FindByID(f.ctx, f.book.ID)
	require.NoError(t, err)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "Computers", got.Categories[0].Name)
}

func TestConcurrentSaves(t *testing.T) {
	store := New().Store()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Categories.Save(ctx, &models.Category{Name: "c"}))
		}()
	}
	wg.Wait()

	categories, err := store.Categories.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 50)
	for i, c := range categories {
		assert.Equal(t, int64(i+1), c.ID)
	}
}
