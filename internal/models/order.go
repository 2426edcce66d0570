package models

import (
	"time"

	"livraria/pkg/money"
)

// OrderStatusPending is the status of a freshly placed order.
const OrderStatusPending = "pendente"

// OrderItem represents a single book within an order.
type OrderItem struct {
	BookID    string       `json:"book_id" validate:"required"`
	Quantity  int          `json:"quantity" validate:"gte=1"`
	UnitPrice money.Amount `json:"unit_price"` // Price at the time of order
}

// Subtotal is the unit price times the quantity.
func (i OrderItem) Subtotal() money.Amount {
	return i.UnitPrice.MulInt(int64(i.Quantity))
}

// Order represents a customer order. UserID and the book references are
// not checked against their collections.
type Order struct {
	ID     string       `json:"id"`
	UserID string       `json:"user_id" validate:"required"`
	Items  []OrderItem  `json:"items" validate:"dive"`
	Date   time.Time    `json:"date"`
	Total  money.Amount `json:"total"`
	Status string       `json:"status"`
}

// ApplyDefaults sets the order date to now and the status to pending when
// they are empty.
func (o *Order) ApplyDefaults(now time.Time) {
	if o.Date.IsZero() {
		o.Date = now
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	if o.Items == nil {
		o.Items = []OrderItem{}
	}
}

// ItemsTotal sums the subtotals of every item.
func (o *Order) ItemsTotal() money.Amount {
	total := money.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}
