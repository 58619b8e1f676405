// Package seed loads the sample catalogue used by the test profile.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/SigNoz/ecommerce-rest-api/internal/metrics"
	"github.com/SigNoz/ecommerce-rest-api/internal/models"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
)

// Load inserts the sample users, orders, categories, products, order items
// and payment through the store. The store is expected to be empty.
func Load(ctx context.Context, store repository.Store, m *metrics.AppMetrics) error {
	u1 := &models.User{Name: "Maria Brown", Email: "maria@gmail.com", Phone: "988888888", Password: "123456"}
	u2 := &models.User{Name: "Alex Green", Email: "alex@gmail.com", Phone: "977777777", Password: "123456"}
	if err := store.Users.SaveAll(ctx, []*models.User{u1, u2}); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	record(ctx, m, "user", 2)

	o1 := &models.Order{Moment: instant("2019-06-20T19:53:07Z"), Status: models.Paid, Client: u1}
	o2 := &models.Order{Moment: instant("2019-07-21T03:42:10Z"), Status: models.WaitingPayment, Client: u2}
	o3 := &models.Order{Moment: instant("2019-07-22T15:21:22Z"), Status: models.Delivered, Client: u1}
	if err := store.Orders.SaveAll(ctx, []*models.Order{o1, o2, o3}); err != nil {
		return fmt.Errorf("failed to seed orders: %w", err)
	}
	record(ctx, m, "order", 3)

	electronics := &models.Category{Name: "Electronics"}
	books := &models.Category{Name: "Books"}
	computers := &models.Category{Name: "Computers"}
	if err := store.Categories.SaveAll(ctx, []*models.Category{electronics, books, computers}); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	record(ctx, m, "category", 3)

	p1 := &models.Product{Name: "The Lord of the Rings", Description: "Lorem ipsum dolor sit amet, consectetur.", Price: decimal.RequireFromString("90.5")}
	p2 := &models.Product{Name: "Smart TV", Description: "Nulla eu imperdiet purus. Maecenas ante.", Price: decimal.RequireFromString("2190.0")}
	p3 := &models.Product{Name: "Macbook Pro", Description: "Nam eleifend maximus tortor, at mollis.", Price: decimal.RequireFromString("1250.0")}
	p4 := &models.Product{Name: "PC Gamer", Description: "Donec aliquet odio ac rhoncus cursus.", Price: decimal.RequireFromString("1200.0")}
	p5 := &models.Product{Name: "Rails for Dummies", Description: "Cras fringilla convallis sem vel faucibus.", Price: decimal.RequireFromString("100.99")}
	p1.AddCategory(*books)
	p2.AddCategory(*electronics)
	p2.AddCategory(*computers)
	p3.AddCategory(*computers)
	p4.AddCategory(*computers)
	p5.AddCategory(*books)
	if err := store.Products.SaveAll(ctx, []*models.Product{p1, p2, p3, p4, p5}); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	record(ctx, m, "product", 5)

	items := []models.OrderItem{
		models.NewOrderItem(o1, p1, 2, p1.Price),
		models.NewOrderItem(o1, p3, 1, p3.Price),
		models.NewOrderItem(o2, p3, 2, p3.Price),
		models.NewOrderItem(o3, p5, 2, p5.Price),
	}
	ptrs := make([]*models.OrderItem, len(items))
	for i := range items {
		ptrs[i] = &items[i]
	}
	if err := store.OrderItems.SaveAll(ctx, ptrs); err != nil {
		return fmt.Errorf("failed to seed order items: %w", err)
	}
	record(ctx, m, "order_item", len(items))

	o1.Payment = &models.Payment{Moment: instant("2019-06-20T21:53:07Z")}
	if err := store.Orders.Save(ctx, o1); err != nil {
		return fmt.Errorf("failed to seed payment: %w", err)
	}
	record(ctx, m, "payment", 1)

	slog.InfoContext(ctx, "seed data loaded", "users", 2, "orders", 3, "products", 5)
	return nil
}

// LoadIfEmpty runs Load unless the store already holds users, so a test
// profile restarted against a persistent database keeps its data. It
// reports whether the seed data was loaded.
func LoadIfEmpty(ctx context.Context, store repository.Store, m *metrics.AppMetrics) (bool, error) {
	users, err := store.Users.FindAll(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing data: %w", err)
	}
	if len(users) > 0 {
		slog.InfoContext(ctx, "seed skipped, store already has data", "users", len(users))
		return false, nil
	}
	if err := Load(ctx, store, m); err != nil {
		return false, err
	}
	return true, nil
}

func record(ctx context.Context, m *metrics.AppMetrics, resource string, n int) {
	m.SeedRows.Add(ctx, int64(n), metric.WithAttributes(m.WithServiceName([]attribute.KeyValue{
		attribute.String("resource", resource),
	})...))
}

func instant(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
