package domain

import "github.com/shopspring/decimal"

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailure PaymentStatus = "FAILURE"
)

// OrderCreatedEvent is published after an order is durably persisted.
// Amount is the decimal-exact total of the snapshotted lines.
type OrderCreatedEvent struct {
	OrderID int64           `json:"order_id"`
	UserID  int64           `json:"user_id"`
	Amount  decimal.Decimal `json:"amount"`
}

type PaymentEvent struct {
	PaymentID string        `json:"payment_id"`
	OrderID   int64         `json:"order_id"`
	UserID    int64         `json:"user_id"`
	Status    PaymentStatus `json:"status"`
}
