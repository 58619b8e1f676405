package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromCode(t *testing.T) {
	want := map[int]OrderStatus{
		1: WaitingPayment,
		2: Paid,
		3: Shipped,
		4: Delivered,
		5: Canceled,
	}
	for code, status := range want {
		got, err := StatusFromCode(code)
		require.NoError(t, err)
		assert.Equal(t, status, got)
		assert.Equal(t, code, got.Code())
	}

	for _, code := range []int{-1, 0, 6, 42} {
		_, err := StatusFromCode(code)
		assert.ErrorIs(t, err, ErrInvalidStatusCode, "code %d", code)
	}
}

func TestOrderStatusJSON(t *testing.T) {
	data, err := json.Marshal(Shipped)
	require.NoError(t, err)
	assert.JSONEq(t, `"SHIPPED"`, string(data))

	var s OrderStatus
	require.NoError(t, json.Unmarshal([]byte(`"CANCELED"`), &s))
	assert.Equal(t, Canceled, s)

	err = json.Unmarshal([]byte(`"LOST"`), &s)
	assert.True(t, errors.Is(err, ErrInvalidStatusCode))

	_, err = json.Marshal(OrderStatus(9))
	assert.Error(t, err)
}

func TestOrderStatusScan(t *testing.T) {
	var s OrderStatus
	require.NoError(t, s.Scan(int64(2)))
	assert.Equal(t, Paid, s)

	require.NoError(t, s.Scan([]byte("4")))
	assert.Equal(t, Delivered, s)

	assert.ErrorIs(t, s.Scan(int64(0)), ErrInvalidStatusCode)
	assert.ErrorIs(t, s.Scan(nil), ErrInvalidStatusCode)
	assert.Error(t, s.Scan("PAID"))

	v, err := Paid.Value()
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	_, err = OrderStatus(0).Value()
	assert.ErrorIs(t, err, ErrInvalidStatusCode)
}

func TestOrderItemEquality(t *testing.T) {
	order := &Order{ID: 1}
	product := &Product{ID: 3, Price: decimal.NewFromInt(10)}

	a := NewOrderItem(order, product, 2, decimal.NewFromInt(10))
	b := NewOrderItem(order, product, 5, decimal.RequireFromString("12.50"))
	assert.True(t, a.Equal(&b))
	assert.Equal(t, a.Key(), b.Key())

	b.Quantity = 9
	b.Price = decimal.NewFromInt(1)
	assert.True(t, a.Equal(&b), "changing quantity or price keeps identity")

	other := NewOrderItem(&Order{ID: 2}, product, 2, decimal.NewFromInt(10))
	assert.False(t, a.Equal(&other))

	set := map[OrderItemPK]OrderItem{a.Key(): a}
	set[b.Key()] = b
	assert.Len(t, set, 1)
}

func TestTransientEntitiesAreNeverEqual(t *testing.T) {
	now := time.Now()
	o1 := &Order{Moment: now, Status: Paid}
	o2 := &Order{Moment: now, Status: Paid}
	assert.False(t, o1.Equal(o2))
	assert.True(t, o1.Equal(o1))

	saved1 := &Order{ID: 5, Status: Paid}
	saved2 := &Order{ID: 5, Status: Canceled, Moment: now}
	assert.True(t, saved1.Equal(saved2))

	u1 := &User{ID: 1, Name: "Maria"}
	u2 := &User{ID: 1, Name: "Someone else"}
	assert.True(t, u1.Equal(u2))
	assert.False(t, (&User{}).Equal(&User{}))

	assert.False(t, (&Category{}).Equal(&Category{}))
	assert.True(t, (&Payment{ID: 3}).Equal(&Payment{ID: 3}))
}

func TestOrderTotalAndJSON(t *testing.T) {
	order := &Order{
		ID:     1,
		Moment: time.Date(2019, 6, 20, 19, 53, 7, 0, time.UTC),
		Status: Paid,
		Client: &User{ID: 1, Name: "Maria Brown", Password: "123456"},
	}
	book := &Product{ID: 1, Name: "The Lord of the Rings", Price: decimal.RequireFromString("90.5")}
	laptop := &Product{ID: 3, Name: "Macbook Pro", Price: decimal.NewFromInt(1250)}
	order.Items = []OrderItem{
		NewOrderItem(order, book, 2, book.Price),
		NewOrderItem(order, laptop, 1, laptop.Price),
	}

	assert.True(t, decimal.RequireFromString("1431").Equal(order.Total()))

	data, err := json.Marshal(order)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "PAID", out["order_status"])
	assert.EqualValues(t, 1431, out["total"])
	assert.NotContains(t, out["client"], "password")

	items := out["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.EqualValues(t, 181, first["sub_total"])
	assert.NotContains(t, first, "order")
	assert.Contains(t, first, "product")
}

func TestProductAddCategory(t *testing.T) {
	p := &Product{ID: 1}
	p.AddCategory(Category{ID: 2, Name: "Books"})
	p.AddCategory(Category{ID: 2, Name: "Books again"})
	p.AddCategory(Category{ID: 3, Name: "Computers"})
	assert.Len(t, p.Categories, 2)
}
