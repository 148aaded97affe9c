package domain_test

import (
	"testing"

	"github.com/Zaharysh37/order-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTotal(t *testing.T) {
	order := &domain.Order{
		Items: []domain.OrderLine{
			{Price: decimal.RequireFromString("10.50"), Quantity: 2},
			{Price: decimal.RequireFromString("4.00"), Quantity: 1},
		},
	}

	assert.True(t, order.Total().Equal(decimal.RequireFromString("25.00")),
		"got %s", order.Total())
}

func TestOrderTotalEmpty(t *testing.T) {
	order := &domain.Order{}
	assert.True(t, order.Total().IsZero())
}

func TestOrderTotalNoFloatDrift(t *testing.T) {
	// 0.1 * 3 is famously 0.30000000000000004 in binary floating point.
	order := &domain.Order{
		Items: []domain.OrderLine{
			{Price: decimal.RequireFromString("0.10"), Quantity: 3},
		},
	}

	assert.Equal(t, "0.30", order.Total().StringFixed(2))
}

func TestParseOrderStatus(t *testing.T) {
	status, err := domain.ParseOrderStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, status)

	_, err = domain.ParseOrderStatus("TELEPORTED")
	assert.Error(t, err)
}

func TestUserIsFallback(t *testing.T) {
	assert.True(t, domain.FallbackUser().IsFallback())
	assert.True(t, (*domain.User)(nil).IsFallback())
	assert.False(t, (&domain.User{ID: 10}).IsFallback())
}
