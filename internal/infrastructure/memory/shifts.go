package memory

import (
	"context"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/pkg/apperror"
)

func (s *Store) CurrentShift(ctx context.Context, branchID int64) (*entity.Shift, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	shift, ok := s.activeShift[branchID]
	if !ok {
		return nil, nil
	}
	cp := *shift
	return &cp, nil
}

func (s *Store) StartShift(_ context.Context, branchID, cashierID, shiftID int64) (*entity.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, open := s.activeShift[branchID]; open {
		return nil, apperror.NewConflictError("A shift is already open at this branch")
	}
	var def *entity.ShiftDefinition
	for i := range s.definitions {
		if s.definitions[i].ID == shiftID {
			def = &s.definitions[i]
			break
		}
	}
	if def == nil {
		return nil, apperror.NewFieldError("shift_id", "unknown shift")
	}

	s.nextShiftID++
	shift := &entity.Shift{
		ID:       s.nextShiftID,
		Name:     def.Name,
		BranchID: branchID,
		OpenedBy: cashierID,
		OpenedAt: s.now(),
		Active:   true,
	}
	s.activeShift[branchID] = shift
	cp := *shift
	return &cp, nil
}

func (s *Store) CloseShift(_ context.Context, branchID, shiftID, cashierID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shift, ok := s.activeShift[branchID]
	if !ok || shift.ID != shiftID {
		return apperror.NewNotFoundError("Open shift")
	}
	if shift.OpenedBy != cashierID {
		return apperror.NewConflictError("Shift was opened by another employee")
	}

	closedAt := s.now()
	shift.ClosedAt = &closedAt
	shift.Active = false
	s.shifts = append(s.shifts, *shift)
	delete(s.activeShift, branchID)
	return nil
}

func (s *Store) ShiftDefinitions(_ context.Context, _ int64) ([]entity.ShiftDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.ShiftDefinition, len(s.definitions))
	copy(out, s.definitions)
	return out, nil
}

// OpenShiftAs opens a shift directly, for demo setup and tests
func (s *Store) OpenShiftAs(branchID, cashierID int64) *entity.Shift {
	shift, err := s.StartShift(context.Background(), branchID, cashierID, s.definitions[0].ID)
	if err != nil {
		cur, _ := s.CurrentShift(context.Background(), branchID)
		return cur
	}
	return shift
}
