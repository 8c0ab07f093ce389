package repository

import (
	"context"

	"gorm.io/gorm"
)

type ctxKey string

const (
	// ActorIDKey is the context key for the acting employee ID
	ActorIDKey ctxKey = "actor_id"
	// BranchIDKey is the context key for the branch the request runs against
	BranchIDKey ctxKey = "branch_id"
)

// EmployeeScope returns a GORM scope that filters by the acting employee.
// Rows without an actor in context are never visible.
func EmployeeScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		actorID, ok := GetActor(ctx)
		if !ok {
			return db.Where("1 = 0")
		}
		return db.Where("employee_id = ?", actorID)
	}
}

// WithActor adds the acting employee ID to context
func WithActor(ctx context.Context, employeeID int64) context.Context {
	return context.WithValue(ctx, ActorIDKey, employeeID)
}

// GetActor extracts the acting employee ID from context
func GetActor(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ActorIDKey).(int64)
	return id, ok && id != 0
}

// WithBranch adds the branch ID to context
func WithBranch(ctx context.Context, branchID int64) context.Context {
	return context.WithValue(ctx, BranchIDKey, branchID)
}

// GetBranchID extracts the branch ID from context
func GetBranchID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(BranchIDKey).(int64)
	return id, ok && id != 0
}

// ForEmployee binds the acting employee and the branch to ctx.
// Work done on an employee's behalf outside their own request uses it.
func ForEmployee(ctx context.Context, employeeID, branchID int64) context.Context {
	ctx = WithActor(ctx, employeeID)
	if branchID != 0 {
		ctx = WithBranch(ctx, branchID)
	}
	return ctx
}
