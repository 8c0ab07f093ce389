package request

// CreateReservationRequest books a slot
type CreateReservationRequest struct {
	CustomerName  string `json:"customer_name" binding:"required,max=255"`
	CustomerPhone string `json:"customer_phone" binding:"max=50"`
	PlateNumber   string `json:"plate_number" binding:"max=20"`
	ServiceID     int64  `json:"service_id" binding:"required"`
	Date          string `json:"date" binding:"required"`
	SlotStart     string `json:"slot_start" binding:"required"`
}

// ReportRangeQuery is the optional date range of the reports
type ReportRangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}
