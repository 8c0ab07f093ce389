package service

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newReportService(env *testEnv) *ReportService {
	svc := NewReportService(env.backend)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestDashboardDefaultsToCurrentMonth(t *testing.T) {
	env := newTestEnv(t)
	seedToday(env,
		entity.Invoice{Total: dec("25"), Status: enum.InvoiceStatusPaid, PaymentMethod: enum.PaymentMethodCash, CashierID: cashierID},
		entity.Invoice{Total: dec("10"), IssuedAt: testNow.AddDate(0, -1, 0), CashierID: cashierID},
	)

	stats, err := newReportService(env).Dashboard(context.Background(), DateRange{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", stats.From)
	assert.Equal(t, "2024-03-15", stats.To)
	assert.Equal(t, int64(1), stats.InvoiceCount)
	assert.True(t, dec("25").Equal(stats.TotalCash))
}

func TestReportRangeValidation(t *testing.T) {
	env := newTestEnv(t)
	_, err := newReportService(env).EmployeeReport(context.Background(), DateRange{From: "2024-03-10", To: "2024-03-01"})
	assert.True(t, apperror.HasCode(err, http.StatusUnprocessableEntity))

	_, err = newReportService(env).Dashboard(context.Background(), DateRange{From: "March"})
	assert.True(t, apperror.HasCode(err, http.StatusUnprocessableEntity))
}

func TestExportEmployeeReport(t *testing.T) {
	env := newTestEnv(t)
	seedToday(env, entity.Invoice{Total: dec("25"), CashierID: cashierID})

	data, err := newReportService(env).ExportEmployeeReport(context.Background(), DateRange{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Employees")
	require.NoError(t, err)
	assert.Equal(t, []string{"Employee", "Role", "Invoices", "Revenue", "Shifts"}, rows[0])
	assert.Len(t, rows[1:4], 3)
}
