// Package memory is an in-process implementation of the repositories. It
// enforces the same keys and foreign keys as the MySQL schema, so the
// "test" profile and the test suites behave like the real store.
package memory

import (
	"cmp"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/SigNoz/ecommerce-rest-api/internal/models"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
	"github.com/shopspring/decimal"
)

const (
	tableUser            = "tb_user"
	tableOrder           = "tb_order"
	tablePayment         = "tb_payment"
	tableProduct         = "tb_product"
	tableCategory        = "tb_category"
	tableProductCategory = "tb_product_category"
	tableOrderItem       = "tb_order_item"
)

type orderRow struct {
	id       int64
	moment   time.Time
	status   models.OrderStatus
	clientID int64
}

type productRow struct {
	id          int64
	name        string
	description string
	price       decimal.Decimal
	imgURL      string
}

type itemRow struct {
	quantity int
	price    decimal.Decimal
}

type productCategoryKey struct {
	productID  int64
	categoryID int64
}

type tables struct {
	users             map[int64]models.User
	orders            map[int64]orderRow
	payments          map[int64]models.Payment
	products          map[int64]productRow
	categories        map[int64]models.Category
	productCategories map[productCategoryKey]struct{}
	items             map[models.OrderItemPK]itemRow
	sequences         map[string]int64
}

func (t *tables) clone() tables {
	return tables{
		users:             maps.Clone(t.users),
		orders:            maps.Clone(t.orders),
		payments:          maps.Clone(t.payments),
		products:          maps.Clone(t.products),
		categories:        maps.Clone(t.categories),
		productCategories: maps.Clone(t.productCategories),
		items:             maps.Clone(t.items),
		sequences:         maps.Clone(t.sequences),
	}
}

// DB holds every table behind one lock
type DB struct {
	mu sync.RWMutex
	t  tables
}

// New returns an empty store
func New() *DB {
	return &DB{t: tables{
		users:             make(map[int64]models.User),
		orders:            make(map[int64]orderRow),
		payments:          make(map[int64]models.Payment),
		products:          make(map[int64]productRow),
		categories:        make(map[int64]models.Category),
		productCategories: make(map[productCategoryKey]struct{}),
		items:             make(map[models.OrderItemPK]itemRow),
		sequences:         make(map[string]int64),
	}}
}

// Store returns the repositories backed by db
func (db *DB) Store() repository.Store {
	return repository.Store{
		Users:      &UserRepository{db: db},
		Orders:     &OrderRepository{db: db},
		Products:   &ProductRepository{db: db},
		Categories: &CategoryRepository{db: db},
		OrderItems: &OrderItemRepository{db: db},
	}
}

func (db *DB) nextID(table string) int64 {
	db.t.sequences[table]++
	return db.t.sequences[table]
}

// atomically runs fn under the write lock and rolls every table back when
// fn fails
func (db *DB) atomically(fn func() error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	saved := db.t.clone()
	if err := fn(); err != nil {
		db.t = saved
		return err
	}
	return nil
}

func integrity(op, table string) error {
	return repository.WrapError(repository.ErrIntegrityViolation, op, table)
}

func notFound(op, table string) error {
	return repository.WrapError(repository.ErrNotFound, op, table)
}

// reads below expect db.mu to be held

func (db *DB) user(id int64) (models.User, bool) {
	u, ok := db.t.users[id]
	return u, ok
}

func (db *DB) category(id int64) (models.Category, bool) {
	c, ok := db.t.categories[id]
	return c, ok
}

func (db *DB) product(id int64) (models.Product, bool) {
	row, ok := db.t.products[id]
	if !ok {
		return models.Product{}, false
	}
	p := models.Product{
		ID:          row.id,
		Name:        row.name,
		Description: row.description,
		Price:       row.price,
		ImgURL:      row.imgURL,
		Categories:  []models.Category{},
	}
	ids := make(map[int64]struct{})
	for key := range db.t.productCategories {
		if key.productID == id {
			ids[key.categoryID] = struct{}{}
		}
	}
	for _, cid := range sortedIDs(ids) {
		if c, ok := db.t.categories[cid]; ok {
			p.Categories = append(p.Categories, c)
		}
	}
	return p, true
}

func (db *DB) item(key models.OrderItemPK) (models.OrderItem, bool) {
	row, ok := db.t.items[key]
	if !ok {
		return models.OrderItem{}, false
	}
	oi := models.OrderItem{
		OrderID:   key.OrderID,
		ProductID: key.ProductID,
		Quantity:  row.quantity,
		Price:     row.price,
	}
	if p, ok := db.product(key.ProductID); ok {
		oi.Product = &p
	}
	return oi, true
}

func (db *DB) itemsOf(orderID int64) []models.OrderItem {
	var keys []models.OrderItemPK
	for key := range db.t.items {
		if key.OrderID == orderID {
			keys = append(keys, key)
		}
	}
	slices.SortFunc(keys, func(a, b models.OrderItemPK) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})

	items := make([]models.OrderItem, 0, len(keys))
	for _, key := range keys {
		if oi, ok := db.item(key); ok {
			items = append(items, oi)
		}
	}
	return items
}

func (db *DB) order(id int64) (models.Order, bool) {
	row, ok := db.t.orders[id]
	if !ok {
		return models.Order{}, false
	}
	o := models.Order{
		ID:     row.id,
		Moment: row.moment,
		Status: row.status,
		Items:  db.itemsOf(id),
	}
	if u, ok := db.t.users[row.clientID]; ok {
		o.Client = &u
	}
	if p, ok := db.t.payments[id]; ok {
		o.Payment = &p
	}
	return o, true
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := slices.Collect(maps.Keys(m))
	slices.Sort(ids)
	return ids
}

var (
	_ repository.UserRepository      = (*UserRepository)(nil)
	_ repository.OrderRepository     = (*OrderRepository)(nil)
	_ repository.ProductRepository   = (*ProductRepository)(nil)
	_ repository.CategoryRepository  = (*CategoryRepository)(nil)
	_ repository.OrderItemRepository = (*OrderItemRepository)(nil)
)
