package repository

import (
	"context"

	"github.com/forto/backoffice/internal/domain/entity"
)

// ShiftGateway is the backend surface for cashier shifts
type ShiftGateway interface {
	// CurrentShift returns nil, nil when the branch has no open shift
	CurrentShift(ctx context.Context, branchID int64) (*entity.Shift, error)
	StartShift(ctx context.Context, branchID, cashierID, shiftID int64) (*entity.Shift, error)
	CloseShift(ctx context.Context, branchID, shiftID, cashierID int64) error
	ShiftDefinitions(ctx context.Context, branchID int64) ([]entity.ShiftDefinition, error)
}
