package request

// StartShiftRequest picks the shift definition to open
type StartShiftRequest struct {
	ShiftID int64 `json:"shift_id" binding:"required,gt=0"`
}
