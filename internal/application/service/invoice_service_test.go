package service

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/forto/backoffice/internal/application/invoicelist"
	"github.com/forto/backoffice/internal/application/session"
	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedToday(env *testEnv, invoices ...entity.Invoice) {
	for i := range invoices {
		if invoices[i].IssuedAt.IsZero() {
			invoices[i].IssuedAt = testNow
		}
	}
	env.backend.AddInvoices(invoices...)
}

func TestPayMixedIsValidatedBeforeBackend(t *testing.T) {
	env := newTestEnv(t)
	seedToday(env, entity.Invoice{InvoiceNo: "INV-1", Total: dec("100"), Subtotal: dec("100")})
	svc := NewInvoiceService(env.backend, zap.NewNop())
	sess := env.login(enum.RoleCashier)
	ctx := context.Background()

	for _, cash := range []string{"0", "100", "150", "-5"} {
		amount := dec(cash)
		_, err := svc.Pay(ctx, sess, 1, PayInput{Method: enum.PaymentMethodMixed, CashAmount: &amount})
		assert.True(t, apperror.HasCode(err, http.StatusUnprocessableEntity), cash)
	}
	_, err := svc.Pay(ctx, sess, 1, PayInput{Method: enum.PaymentMethodMixed})
	assert.True(t, apperror.HasCode(err, http.StatusUnprocessableEntity))
	_, err = svc.Pay(ctx, sess, 1, PayInput{Method: enum.PaymentMethodAll})
	assert.True(t, apperror.HasCode(err, http.StatusUnprocessableEntity))

	assert.Zero(t, env.backend.pays.Load())
}

func TestPayRefreshesListAndClosesModal(t *testing.T) {
	env := newTestEnv(t)
	seedToday(env, entity.Invoice{InvoiceNo: "INV-1", Total: dec("100"), Subtotal: dec("100")})
	svc := NewInvoiceService(env.backend, zap.NewNop())
	sess := env.login(enum.RoleCashier)
	ctx := context.Background()

	page, err := svc.View(ctx, sess)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, enum.InvoiceStatusUnpaid, page.Rows[0].Status)

	_, err = svc.OpenModal(ctx, sess, session.ModalPay, 1)
	require.NoError(t, err)

	cash := dec("40")
	result, err := svc.Pay(ctx, sess, 1, PayInput{Method: enum.PaymentMethodMixed, CashAmount: &cash})
	require.NoError(t, err)
	assert.Equal(t, int32(1), env.backend.pays.Load())
	assert.Equal(t, session.ModalState{}, sess.Modal())

	require.NotNil(t, result.List)
	assert.Greater(t, result.List.Seq, page.Seq)
	assert.Equal(t, enum.InvoiceStatusPaid, result.List.Rows[0].Status)
	require.NotNil(t, result.List.Summary)
	assert.True(t, dec("40").Equal(result.List.Summary.TotalCash))
	assert.True(t, dec("60").Equal(result.List.Summary.TotalCard))
}

func TestFailedMutationKeepsState(t *testing.T) {
	env := newTestEnv(t)
	seedToday(env, entity.Invoice{InvoiceNo: "INV-1", Total: dec("100"), Status: enum.InvoiceStatusPaid, PaymentMethod: enum.PaymentMethodCash})
	svc := NewInvoiceService(env.backend, zap.NewNop())
	sess := env.login(enum.RoleCashier)
	ctx := context.Background()

	page, err := svc.View(ctx, sess)
	require.NoError(t, err)
	_, err = svc.OpenModal(ctx, sess, session.ModalAdjust, 1)
	require.NoError(t, err)

	_, err = svc.Pay(ctx, sess, 1, PayInput{Method: enum.PaymentMethodCash})
	assert.True(t, apperror.IsConflict(err))

	assert.Equal(t, session.ModalAdjust, sess.Modal().Kind)
	assert.Equal(t, page.Seq, sess.InvoiceList().Peek().Seq)
}

func TestAdjustValidation(t *testing.T) {
	env := newTestEnv(t)
	seedToday(env, entity.Invoice{InvoiceNo: "INV-1", Total: dec("80"), Subtotal: dec("80")})
	svc := NewInvoiceService(env.backend, zap.NewNop())
	sess := env.login(enum.RoleCashier)

	_, err := svc.Adjust(context.Background(), sess, 1, AdjustInput{Total: dec("-0.01"), Reason: "x"})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "total", appErr.Errors[0].Field)

	_, err = svc.Adjust(context.Background(), sess, 1, AdjustInput{Total: dec("10"), Reason: "  "})
	assert.True(t, apperror.HasCode(err, http.StatusUnprocessableEntity))
	assert.Zero(t, env.backend.adjusts.Load())

	result, err := svc.Adjust(context.Background(), sess, 1, AdjustInput{Total: dec("0"), Reason: "goodwill"})
	require.NoError(t, err)
	require.NotNil(t, result.Invoice)
	assert.True(t, result.Invoice.Total.IsZero())
}

func TestRequestDeletion(t *testing.T) {
	env := newTestEnv(t)
	seedToday(env, entity.Invoice{InvoiceNo: "INV-1", Total: dec("80")})
	svc := NewInvoiceService(env.backend, zap.NewNop())
	sess := env.login(enum.RoleCashier)

	_, err := svc.RequestDeletion(context.Background(), sess, 1, "")
	assert.True(t, apperror.HasCode(err, http.StatusUnprocessableEntity))

	result, err := svc.RequestDeletion(context.Background(), sess, 1, "duplicate")
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPendingDeletion, result.Invoice.Status)
}

func TestStatelessListDoesNotTouchSession(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 23; i++ {
		seedToday(env, entity.Invoice{InvoiceNo: "INV", Total: dec("10")})
	}
	svc := NewInvoiceService(env.backend, zap.NewNop())

	filters := invoicelist.DefaultFilters(testNow)
	filters.Page = 3
	result, err := svc.List(context.Background(), filters)
	require.NoError(t, err)
	assert.Len(t, result.Invoices, 3)
	assert.Equal(t, 3, result.Pagination.TotalPages)
	assert.Equal(t, int64(21), result.Pagination.StartIndex)
	assert.Equal(t, int64(23), result.Pagination.EndIndex)

	filters.From, filters.To = "2024-03-20", "2024-03-01"
	_, err = svc.List(context.Background(), filters)
	assert.True(t, apperror.HasCode(err, http.StatusUnprocessableEntity))
}

func TestUpdateViewAndPaging(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 23; i++ {
		seedToday(env, entity.Invoice{InvoiceNo: "INV", Total: dec("10")})
	}
	svc := NewInvoiceService(env.backend, zap.NewNop())
	sess := env.login(enum.RoleCashier)
	ctx := context.Background()

	page, moved, err := svc.GoToPage(ctx, sess, 3)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, int64(21), page.StartIndex)

	_, moved, err = svc.GoToPage(ctx, sess, 4)
	require.NoError(t, err)
	assert.False(t, moved)

	search := "nothing-matches"
	page, err = svc.UpdateView(ctx, sess, invoicelist.Patch{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Filters.Page)
	assert.Empty(t, page.Rows)
	assert.Equal(t, 1, page.TotalPages)
}

func TestExportCollectsEveryPage(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 130; i++ {
		seedToday(env, entity.Invoice{InvoiceNo: "INV", Total: dec("1")})
	}
	svc := NewInvoiceService(env.backend, zap.NewNop())

	data, err := svc.Export(context.Background(), invoicelist.DefaultFilters(testNow))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Invoice", rows[0][0])

	dataRows := 0
	for _, row := range rows[1:] {
		if len(row) > 0 && row[0] == "INV" {
			dataRows++
		}
	}
	assert.Equal(t, 130, dataRows)
	last := rows[len(rows)-1]
	assert.Equal(t, "130.00", last[len(last)-1])
}

func TestOpenModalValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewInvoiceService(env.backend, zap.NewNop())
	sess := env.login(enum.RoleCashier)

	_, err := svc.OpenModal(context.Background(), sess, session.ModalKind("print"), 1)
	assert.Error(t, err)
	_, err = svc.OpenModal(context.Background(), sess, session.ModalPay, 0)
	assert.Error(t, err)

	state, err := svc.OpenModal(context.Background(), sess, session.ModalInvoiceDetails, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), state.InvoiceID)
}
