package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// Statuses past PROCESSED are only reachable through an explicit
// administrative update.
const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusProcessed OrderStatus = "PROCESSED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch status := OrderStatus(strings.ToUpper(s)); status {
	case OrderStatusCreated, OrderStatusProcessed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("unknown order status: %q", s)
	}
}

type Order struct {
	ID           int64       `db:"id" json:"id"`
	UserID       int64       `db:"user_id" json:"user_id"`
	Status       OrderStatus `db:"status" json:"status"`
	CreationDate time.Time   `db:"creation_date" json:"creation_date"`
	Items        []OrderLine `json:"items"`
}

// OrderLine is owned by its parent order and holds only the order id as a
// back-reference. Price is snapshotted from the catalog at order time and
// never re-fetched.
type OrderLine struct {
	ID       int64           `db:"id" json:"id"`
	OrderID  int64           `db:"order_id" json:"order_id"`
	ItemID   int64           `db:"item_id" json:"item_id"`
	ItemName string          `db:"item_name" json:"item_name"`
	Price    decimal.Decimal `db:"price" json:"price"`
	Quantity int32           `db:"quantity" json:"quantity"`
}

// Total sums price*quantity across all lines with decimal arithmetic.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Items {
		total = total.Add(line.Price.Mul(decimal.NewFromInt32(line.Quantity)))
	}
	return total
}
