package entity

import "github.com/forto/backoffice/internal/domain/enum"

// Identity is the authenticated staff member
type Identity struct {
	EmployeeID int64     `json:"employee_id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Role       enum.Role `json:"role"`
	BranchID   int64     `json:"branch_id"`
}

// IsCashier reports whether the identity holds the cashier role
func (i *Identity) IsCashier() bool {
	return i != nil && i.Role == enum.RoleCashier
}

// IsAdmin reports whether the identity holds the admin role
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == enum.RoleAdmin
}
