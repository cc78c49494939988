package order

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/furniture-shop/internal/model"
	"github.com/example/furniture-shop/internal/store/storetest"
)

func seedOrder(s *storetest.Store, userID string) *model.Order {
	o := &model.Order{
		ID:            uuid.New().String(),
		UserID:        userID,
		Items:         []model.OrderItem{{ProductID: uuid.New().String(), Quantity: 2}},
		PaymentMethod: model.PaymentCOD,
		PaymentStatus: model.PaymentStatusPending,
		Status:        model.OrderStatusProcessing,
		TotalAmount:   decimal.NewFromInt(240),
		CreatedAt:     time.Now(),
	}
	s.SeedOrder(o)
	return o
}

func TestUpdateStatus_Fulfillment(t *testing.T) {
	s := storetest.New()
	svc := NewService(s.Orders, nil)
	ctx := context.Background()

	o := seedOrder(s, "user-1")

	updated, err := svc.UpdateStatus(ctx, o.ID, StatusUpdate{Key: KeyStatus, Value: model.OrderStatusShipped})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, updated.Status)
	assert.Nil(t, updated.DeliveredAt)
}

func TestUpdateStatus_DeliveredStampsTime(t *testing.T) {
	s := storetest.New()
	svc := NewService(s.Orders, nil)
	ctx := context.Background()

	o := seedOrder(s, "user-1")

	updated, err := svc.UpdateStatus(ctx, o.ID, StatusUpdate{Key: KeyStatus, Value: model.OrderStatusDelivered})
	require.NoError(t, err)
	require.NotNil(t, updated.DeliveredAt)
	assert.WithinDuration(t, time.Now(), *updated.DeliveredAt, 5*time.Second)

	stored, err := s.Orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.DeliveredAt)
}

func TestUpdateStatus_PaymentAxis(t *testing.T) {
	s := storetest.New()
	svc := NewService(s.Orders, nil)
	ctx := context.Background()

	o := seedOrder(s, "user-1")

	updated, err := svc.UpdateStatus(ctx, o.ID, StatusUpdate{Key: KeyPaymentStatus, Value: model.PaymentStatusPaid})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, model.OrderStatusProcessing, updated.Status, "fulfillment axis untouched")
	assert.Nil(t, updated.DeliveredAt)
}

func TestUpdateStatus_InvalidValues(t *testing.T) {
	s := storetest.New()
	svc := NewService(s.Orders, nil)
	ctx := context.Background()

	o := seedOrder(s, "user-1")

	_, err := svc.UpdateStatus(ctx, o.ID, StatusUpdate{Key: KeyStatus, Value: "Teleported"})
	assert.ErrorIs(t, err, model.ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, o.ID, StatusUpdate{Key: KeyPaymentStatus, Value: "Maybe"})
	assert.ErrorIs(t, err, model.ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, o.ID, StatusUpdate{Key: "color", Value: "red"})
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	s := storetest.New()
	svc := NewService(s.Orders, nil)

	_, err := svc.UpdateStatus(context.Background(), uuid.New().String(),
		StatusUpdate{Key: KeyStatus, Value: model.OrderStatusShipped})
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestListForUser_OnlyOwnOrders(t *testing.T) {
	s := storetest.New()
	svc := NewService(s.Orders, nil)
	ctx := context.Background()

	seedOrder(s, "user-1")
	seedOrder(s, "user-1")
	seedOrder(s, "user-2")

	mine, err := svc.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListForUser_EmptyIsNotNil(t *testing.T) {
	s := storetest.New()
	svc := NewService(s.Orders, nil)

	orders, err := svc.ListForUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}
