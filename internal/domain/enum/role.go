package enum

// Role is the staff role carried by the authenticated identity
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
	RoleWorker  Role = "worker"
)

func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCashier, RoleWorker:
		return true
	}
	return false
}
