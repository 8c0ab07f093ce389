package repository

import (
	"context"

	"github.com/forto/backoffice/internal/domain/entity"
)

// ReportGateway is the backend surface for reporting
type ReportGateway interface {
	Dashboard(ctx context.Context, from, to string) (*entity.DashboardStats, error)
	EmployeeReport(ctx context.Context, from, to string) ([]entity.EmployeeReportRow, error)
}
