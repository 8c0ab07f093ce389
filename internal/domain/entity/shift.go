package entity

import "time"

// Shift is an open (or closed) cashier shift at a branch
type Shift struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	BranchID int64      `json:"branch_id"`
	OpenedBy int64      `json:"opened_by"`
	OpenedAt time.Time  `json:"opened_at"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`
	Active   bool       `json:"active"`
}

// IsOwnedBy reports whether the shift is active and was opened by the employee
func (s *Shift) IsOwnedBy(employeeID int64) bool {
	return s != nil && s.Active && s.OpenedBy == employeeID
}

// ShiftDefinition is a named shift template a cashier can open
type ShiftDefinition struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
