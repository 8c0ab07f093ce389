package backend

import (
	"context"
	"net/http"

	"github.com/forto/backoffice/internal/domain/entity"
)

func rangeParams(from, to string) map[string]string {
	params := map[string]string{}
	if from != "" {
		params["from"] = from
	}
	if to != "" {
		params["to"] = to
	}
	return params
}

func (c *Client) Dashboard(ctx context.Context, from, to string) (*entity.DashboardStats, error) {
	var stats entity.DashboardStats
	_, err := c.send(c.request(ctx).
		SetQueryParams(rangeParams(from, to)).
		SetResult(&stats), http.MethodGet, "/api/reports/dashboard")
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) EmployeeReport(ctx context.Context, from, to string) ([]entity.EmployeeReportRow, error) {
	var rows []entity.EmployeeReportRow
	_, err := c.send(c.request(ctx).
		SetQueryParams(rangeParams(from, to)).
		SetResult(&rows), http.MethodGet, "/api/reports/employees")
	if err != nil {
		return nil, err
	}
	return rows, nil
}
