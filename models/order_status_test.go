package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusShipped, true},
		{StatusPending, StatusDelivered, true},
		{StatusPending, StatusCancelled, true},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusDelivered, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},
		{StatusProcessing, StatusPending, false},
		{StatusShipped, StatusProcessing, false},
		{StatusDelivered, StatusShipped, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusDelivered, false},
		{StatusPending, StatusPending, false},
		{OrderStatus("BOGUS"), StatusShipped, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestParseUpdateStatus(t *testing.T) {
	for _, valid := range []string{"PROCESSING", "SHIPPED", "DELIVERED", "CANCELLED"} {
		status, ok := ParseUpdateStatus(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, OrderStatus(valid), status)
	}

	for _, invalid := range []string{"PENDING", "pending", "shipped", "DONE", ""} {
		_, ok := ParseUpdateStatus(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestHoldsReservation(t *testing.T) {
	assert.True(t, StatusPending.HoldsReservation())
	assert.True(t, StatusProcessing.HoldsReservation())
	assert.False(t, StatusShipped.HoldsReservation())
	assert.False(t, StatusDelivered.HoldsReservation())
	assert.False(t, StatusCancelled.HoldsReservation())
}
