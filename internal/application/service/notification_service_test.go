package service

import (
	"context"
	"testing"
	"time"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWebhookSecret(t *testing.T) {
	env := newTestEnv(t)
	assert.False(t, NewNotificationService(env.sessions, "", zap.NewNop()).Authorize(""))

	svc := NewNotificationService(env.sessions, "s3cret", zap.NewNop())
	assert.True(t, svc.Authorize("s3cret"))
	assert.False(t, svc.Authorize("s3cre"))
}

func TestDeletionProcessedRefreshesEveryLiveList(t *testing.T) {
	env := newTestEnv(t)
	seedToday(env, entity.Invoice{InvoiceNo: "INV-1", Total: dec("50")})
	invoices := NewInvoiceService(env.backend, zap.NewNop())
	svc := NewNotificationService(env.sessions, "s", zap.NewNop())
	ctx := context.Background()

	cashier := env.login(enum.RoleCashier)
	admin := env.login(enum.RoleAdmin)
	idle := env.login(enum.RoleWorker)

	_, err := invoices.View(ctx, cashier)
	require.NoError(t, err)
	_, err = invoices.RequestDeletion(ctx, cashier, 1, "duplicate")
	require.NoError(t, err)
	_, err = invoices.View(ctx, admin)
	require.NoError(t, err)
	require.NoError(t, env.backend.ProcessDeletion(1, true))

	target := int64(cashierID)
	invoiceID := int64(1)
	delivered, err := svc.Publish(ctx, PushEvent{
		Type:       entity.NotificationDeletionProcessed,
		Message:    "INV-1 deleted",
		InvoiceID:  &invoiceID,
		EmployeeID: &target,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	assert.Len(t, cashier.Notifications(), 1)
	assert.Empty(t, admin.Notifications())
	assert.Nil(t, idle.ActiveInvoiceList())

	assert.Equal(t, enum.InvoiceStatusDeleted, cashier.InvoiceList().Peek().Rows[0].Status)
	assert.Equal(t, enum.InvoiceStatusDeleted, admin.InvoiceList().Peek().Rows[0].Status)
}

func TestPushRefreshFetchesAsListOwner(t *testing.T) {
	env := newTestEnv(t)
	seedToday(env, entity.Invoice{InvoiceNo: "INV-1", Total: dec("50")})
	invoices := NewInvoiceService(env.backend, zap.NewNop())
	svc := NewNotificationService(env.sessions, "s", zap.NewNop())

	cashier := env.login(enum.RoleCashier)
	_, err := invoices.View(context.Background(), cashier)
	require.NoError(t, err)

	// the webhook request carries no employee
	_, err = svc.Publish(context.Background(), PushEvent{Type: entity.NotificationDeletionProcessed, Message: "processed"})
	require.NoError(t, err)

	assert.Equal(t, []int64{cashierID, cashierID}, env.backend.actors())
}

func TestStreamReceivesNotifications(t *testing.T) {
	env := newTestEnv(t)
	svc := NewNotificationService(env.sessions, "s", zap.NewNop())
	sess := env.login(enum.RoleCashier)

	events, cancel := svc.Subscribe(sess.ID())
	defer cancel()

	_, err := svc.Publish(context.Background(), PushEvent{Type: entity.NotificationInfo, Message: "hello"})
	require.NoError(t, err)

	select {
	case n := <-events:
		assert.Equal(t, "hello", n.Message)
	case <-time.After(time.Second):
		t.Fatal("no notification streamed")
	}

	assert.Equal(t, 1, sess.UnreadCount())
	svc.MarkAllRead(sess)
	assert.Zero(t, sess.UnreadCount())

	cancel()
	_, open := <-events
	assert.False(t, open)
}

func TestPublishRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t)
	svc := NewNotificationService(env.sessions, "s", zap.NewNop())

	_, err := svc.Publish(context.Background(), PushEvent{Type: "party", Message: "x"})
	assert.Error(t, err)
	_, err = svc.Publish(context.Background(), PushEvent{Type: entity.NotificationInfo})
	assert.Error(t, err)
}
