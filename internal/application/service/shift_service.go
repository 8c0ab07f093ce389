package service

import (
	"context"

	"github.com/forto/backoffice/internal/application/session"
	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/pkg/apperror"
	"go.uber.org/zap"
)

// ShiftService opens and closes cashier shifts. Together with the shift gate it
// is the only writer of a session's shift cache.
type ShiftService struct {
	shifts   repository.ShiftGateway
	branchID int64
	log      *zap.Logger
}

// NewShiftService creates a shift service; branchID 0 uses each cashier's own branch
func NewShiftService(shifts repository.ShiftGateway, branchID int64, log *zap.Logger) *ShiftService {
	return &ShiftService{shifts: shifts, branchID: branchID, log: log}
}

func (s *ShiftService) branchFor(identity entity.Identity) int64 {
	if s.branchID != 0 {
		return s.branchID
	}
	return identity.BranchID
}

// ShiftStatus is the branch's open shift as seen by one employee
type ShiftStatus struct {
	Shift *entity.Shift `json:"shift"`
	// Owned is true when the open shift belongs to the caller
	Owned bool `json:"owned"`
}

// Current looks up the branch's open shift and refreshes the session cache
func (s *ShiftService) Current(ctx context.Context, sess *session.Context) (*ShiftStatus, error) {
	identity, ok := sess.Identity()
	if !ok {
		return nil, apperror.ErrSessionClosed
	}

	shift, err := s.shifts.CurrentShift(ctx, s.branchFor(identity))
	if err != nil {
		return nil, err
	}

	owned := shift.IsOwnedBy(identity.EmployeeID)
	if owned {
		sess.ReplaceShift(shift)
	} else {
		sess.ReplaceShift(nil)
	}
	return &ShiftStatus{Shift: shift, Owned: owned}, nil
}

// Start opens a shift for the calling cashier
func (s *ShiftService) Start(ctx context.Context, sess *session.Context, shiftID int64) (*entity.Shift, error) {
	identity, ok := sess.Identity()
	if !ok {
		return nil, apperror.ErrSessionClosed
	}
	if !identity.IsCashier() {
		return nil, apperror.NewAppError(apperror.ErrForbidden.Code, "Only cashiers open shifts")
	}
	if shiftID <= 0 {
		return nil, apperror.NewFieldError("shift_id", "is required")
	}

	branchID := s.branchFor(identity)
	current, err := s.shifts.CurrentShift(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if current.IsOwnedBy(identity.EmployeeID) {
		sess.ReplaceShift(current)
		return nil, apperror.NewConflictError("Shift is already active")
	}
	if current != nil && current.Active {
		return nil, apperror.NewConflictError("Another employee has an open shift at this branch")
	}

	shift, err := s.shifts.StartShift(ctx, branchID, identity.EmployeeID, shiftID)
	if err != nil {
		return nil, err
	}
	sess.ReplaceShift(shift)

	s.log.Info("shift started",
		zap.Int64("employee_id", identity.EmployeeID),
		zap.Int64("branch_id", branchID),
		zap.Int64("shift_id", shift.ID),
	)
	return shift, nil
}

// Close ends the caller's open shift and clears the cache
func (s *ShiftService) Close(ctx context.Context, sess *session.Context) error {
	identity, ok := sess.Identity()
	if !ok {
		return apperror.ErrSessionClosed
	}

	branchID := s.branchFor(identity)
	current, err := s.shifts.CurrentShift(ctx, branchID)
	if err != nil {
		return err
	}
	if !current.IsOwnedBy(identity.EmployeeID) {
		sess.ReplaceShift(nil)
		return apperror.NewNotFoundError("Open shift")
	}

	if err := s.shifts.CloseShift(ctx, branchID, current.ID, identity.EmployeeID); err != nil {
		return err
	}
	sess.ReplaceShift(nil)

	s.log.Info("shift closed",
		zap.Int64("employee_id", identity.EmployeeID),
		zap.Int64("branch_id", branchID),
		zap.Int64("shift_id", current.ID),
	)
	return nil
}

// Definitions lists the named shifts a cashier can open
func (s *ShiftService) Definitions(ctx context.Context, sess *session.Context) ([]entity.ShiftDefinition, error) {
	identity, ok := sess.Identity()
	if !ok {
		return nil, apperror.ErrSessionClosed
	}
	return s.shifts.ShiftDefinitions(ctx, s.branchFor(identity))
}
