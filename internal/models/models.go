package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are rendered as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// User represents a client account. Password is accepted on create but
// never rendered.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"-"`
}

// Equal reports whether both users refer to the same persisted row
func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return false
	}
	return u == other || (u.ID != 0 && u.ID == other.ID)
}

// Order represents a purchase placed by a client
type Order struct {
	ID      int64       `json:"id"`
	Moment  time.Time   `json:"moment"`
	Status  OrderStatus `json:"order_status"`
	Client  *User       `json:"client"`
	Items   []OrderItem `json:"items"`
	Payment *Payment    `json:"payment,omitempty"`
}

// Equal compares orders by id only; unsaved orders are never equal to
// another instance
func (o *Order) Equal(other *Order) bool {
	if o == nil || other == nil {
		return false
	}
	return o == other || (o.ID != 0 && o.ID == other.ID)
}

// ClientID returns the id of the owning user, or 0 when unset
func (o *Order) ClientID() int64 {
	if o.Client == nil {
		return 0
	}
	return o.Client.ID
}

// Total is the sum of the item subtotals
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].SubTotal())
	}
	return total
}

// MarshalJSON adds the computed total
func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	items := o.Items
	if items == nil {
		items = []OrderItem{}
	}
	a := alias(o)
	a.Items = items
	return json.Marshal(struct {
		alias
		Total decimal.Decimal `json:"total"`
	}{a, o.Total()})
}

// Product represents a catalog entry
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImgURL      string          `json:"img_url"`
	Categories  []Category      `json:"categories"`
}

// Equal compares products by id only
func (p *Product) Equal(other *Product) bool {
	if p == nil || other == nil {
		return false
	}
	return p == other || (p.ID != 0 && p.ID == other.ID)
}

// AddCategory links c to the product unless it is already linked
func (p *Product) AddCategory(c Category) {
	for i := range p.Categories {
		if p.Categories[i].Equal(&c) {
			return
		}
	}
	p.Categories = append(p.Categories, c)
}

// Category groups products. Products are not rendered from this side.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Equal compares categories by id only
func (c *Category) Equal(other *Category) bool {
	if c == nil || other == nil {
		return false
	}
	return c == other || (c.ID != 0 && c.ID == other.ID)
}

// Payment settles an order. It shares its id with the order it pays.
type Payment struct {
	ID     int64     `json:"id"`
	Moment time.Time `json:"moment"`
}

// Equal compares payments by id only
func (p *Payment) Equal(other *Payment) bool {
	if p == nil || other == nil {
		return false
	}
	return p == other || (p.ID != 0 && p.ID == other.ID)
}

// OrderItemPK is the composite key of an order line: one line per
// (order, product) pair
type OrderItemPK struct {
	OrderID   int64
	ProductID int64
}

// Valid reports whether both halves of the key refer to persisted rows
func (pk OrderItemPK) Valid() bool {
	return pk.OrderID != 0 && pk.ProductID != 0
}

// OrderItem is a line of an order. Its identity is the (order, product)
// pair; the order is not rendered from this side.
type OrderItem struct {
	OrderID   int64           `json:"-"`
	ProductID int64           `json:"-"`
	Product   *Product        `json:"product,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// NewOrderItem builds a line for product in order
func NewOrderItem(order *Order, product *Product, quantity int, price decimal.Decimal) OrderItem {
	return OrderItem{
		OrderID:   order.ID,
		ProductID: product.ID,
		Product:   product,
		Quantity:  quantity,
		Price:     price,
	}
}

// Key returns the composite key
func (oi *OrderItem) Key() OrderItemPK {
	return OrderItemPK{OrderID: oi.OrderID, ProductID: oi.ProductID}
}

// Equal compares lines by composite key only
func (oi *OrderItem) Equal(other *OrderItem) bool {
	if oi == nil || other == nil {
		return false
	}
	if oi == other {
		return true
	}
	return oi.Key().Valid() && oi.Key() == other.Key()
}

// SubTotal is price times quantity
func (oi *OrderItem) SubTotal() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}

// MarshalJSON adds the computed subtotal
func (oi OrderItem) MarshalJSON() ([]byte, error) {
	type alias OrderItem
	return json.Marshal(struct {
		alias
		SubTotal decimal.Decimal `json:"sub_total"`
	}{alias(oi), oi.SubTotal()})
}

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// UpdateUserRequest carries the fields a user update may change. Any other
// field in the payload, such as id or password, is ignored.
type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// StandardError is the body of every error response
type StandardError struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}
