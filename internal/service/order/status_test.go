package order

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dokkan/bookstore/internal/models"
)

func TestCanTransition(t *testing.T) {
	require.True(t, CanTransition(models.OrderStatusPending, models.OrderStatusProcessing))
	require.True(t, CanTransition(models.OrderStatusPending, models.OrderStatusCancelled))
	require.True(t, CanTransition(models.OrderStatusProcessing, models.OrderStatusShipped))
	require.True(t, CanTransition(models.OrderStatusProcessing, models.OrderStatusCancelled))
	require.True(t, CanTransition(models.OrderStatusShipped, models.OrderStatusDelivered))

	require.False(t, CanTransition(models.OrderStatusPending, models.OrderStatusShipped))
	require.False(t, CanTransition(models.OrderStatusShipped, models.OrderStatusCancelled))
	require.False(t, CanTransition(models.OrderStatusDelivered, models.OrderStatusPending))
	require.False(t, CanTransition(models.OrderStatusCancelled, models.OrderStatusProcessing))
	require.False(t, CanTransition(models.OrderStatusPending, models.OrderStatusPending))
}

func TestValidStatus(t *testing.T) {
	require.True(t, ValidStatus("pending"))
	require.True(t, ValidStatus("cancelled"))
	require.False(t, ValidStatus("new"))
	require.False(t, ValidStatus(""))
}
