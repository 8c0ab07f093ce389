package entity

import "github.com/shopspring/decimal"

// DashboardStats is the admin dashboard for a date range
type DashboardStats struct {
	From            string          `json:"from"`
	To              string          `json:"to"`
	InvoiceCount    int64           `json:"invoice_count"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalCash       decimal.Decimal `json:"total_cash"`
	TotalCard       decimal.Decimal `json:"total_card"`
	TotalProfit     decimal.Decimal `json:"total_profit"`
	UnpaidCount     int64           `json:"unpaid_count"`
	ReservationsDue int64           `json:"reservations_due"`
	DailyRevenue    []DailyRevenue  `json:"daily_revenue"`
}

// DailyRevenue is one point of the dashboard revenue series
type DailyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// EmployeeReportRow aggregates one employee's activity over a range
type EmployeeReportRow struct {
	EmployeeID   int64           `json:"employee_id"`
	Name         string          `json:"name"`
	Role         string          `json:"role"`
	InvoiceCount int64           `json:"invoice_count"`
	Revenue      decimal.Decimal `json:"revenue"`
	ShiftCount   int64           `json:"shift_count"`
}
