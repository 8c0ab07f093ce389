package service

import (
	"context"
	"time"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/forto/backoffice/pkg/export"
	"github.com/shopspring/decimal"
)

// ReportService provides the admin dashboard and employee reports
type ReportService struct {
	reports repository.ReportGateway
	now     func() time.Time
}

// NewReportService creates a new report service
func NewReportService(reports repository.ReportGateway) *ReportService {
	return &ReportService{reports: reports, now: time.Now}
}

// DateRange is an inclusive range of calendar days
type DateRange struct {
	From string
	To   string
}

// resolve fills an empty range with the current month up to today
func (s *ReportService) resolve(r DateRange) (DateRange, error) {
	today := s.now()
	if r.From == "" {
		r.From = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).Format(reservationDateLayout)
	}
	if r.To == "" {
		r.To = today.Format(reservationDateLayout)
	}

	from, errFrom := time.Parse(reservationDateLayout, r.From)
	to, errTo := time.Parse(reservationDateLayout, r.To)
	var errs []apperror.FieldError
	if errFrom != nil {
		errs = append(errs, apperror.FieldError{Field: "from", Message: "must be a date in YYYY-MM-DD format"})
	}
	if errTo != nil {
		errs = append(errs, apperror.FieldError{Field: "to", Message: "must be a date in YYYY-MM-DD format"})
	}
	if len(errs) > 0 {
		return r, apperror.NewValidationError(errs)
	}
	if from.After(to) {
		return r, apperror.NewFieldError("to", "must not be before from")
	}
	return r, nil
}

// Dashboard returns the totals for the range
func (s *ReportService) Dashboard(ctx context.Context, r DateRange) (*entity.DashboardStats, error) {
	r, err := s.resolve(r)
	if err != nil {
		return nil, err
	}
	return s.reports.Dashboard(ctx, r.From, r.To)
}

// EmployeeReport returns per-employee activity for the range
func (s *ReportService) EmployeeReport(ctx context.Context, r DateRange) ([]entity.EmployeeReportRow, error) {
	r, err := s.resolve(r)
	if err != nil {
		return nil, err
	}
	rows, err := s.reports.EmployeeReport(ctx, r.From, r.To)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []entity.EmployeeReportRow{}
	}
	return rows, nil
}

// ExportEmployeeReport renders the employee report as a workbook
func (s *ReportService) ExportEmployeeReport(ctx context.Context, r DateRange) ([]byte, error) {
	rows, err := s.EmployeeReport(ctx, r)
	if err != nil {
		return nil, err
	}

	var (
		invoices int64
		revenue  = decimal.Zero
		shifts   int64
	)
	data := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		data = append(data, []interface{}{row.Name, row.Role, row.InvoiceCount, row.Revenue.StringFixed(2), row.ShiftCount})
		invoices += row.InvoiceCount
		revenue = revenue.Add(row.Revenue)
		shifts += row.ShiftCount
	}

	return export.WriteXLSX(export.Table{
		Sheet:   "Employees",
		Headers: []string{"Employee", "Role", "Invoices", "Revenue", "Shifts"},
		Rows:    data,
		Footer:  []interface{}{"Total", "", invoices, revenue.StringFixed(2), shifts},
	})
}
