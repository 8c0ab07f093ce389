package handler

import (
	"github.com/forto/backoffice/internal/application/service"
	"github.com/forto/backoffice/internal/presentation/http/dto/request"
	"github.com/forto/backoffice/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles the admin dashboard and employee reports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func reportRange(c *gin.Context) (service.DateRange, bool) {
	var q request.ReportRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return service.DateRange{}, false
	}
	return service.DateRange{From: q.From, To: q.To}, true
}

// Dashboard returns the totals of a range, this month by default
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	r, ok := reportRange(c)
	if !ok {
		return
	}

	stats, err := h.reportService.Dashboard(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Dashboard stats retrieved successfully", stats)
}

// Employees returns per-employee activity
// @Router /reports/employees [get]
func (h *ReportHandler) Employees(c *gin.Context) {
	r, ok := reportRange(c)
	if !ok {
		return
	}

	rows, err := h.reportService.EmployeeReport(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Employee report retrieved", rows)
}

// ExportEmployees downloads the employee report
// @Router /reports/employees/export [get]
func (h *ReportHandler) ExportEmployees(c *gin.Context) {
	r, ok := reportRange(c)
	if !ok {
		return
	}

	data, err := h.reportService.ExportEmployeeReport(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Spreadsheet(c, "employees.xlsx", data)
}
