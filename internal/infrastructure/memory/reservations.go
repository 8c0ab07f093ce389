package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/pkg/apperror"
)

const (
	ReservationBooked    = "booked"
	ReservationCancelled = "cancelled"

	firstSlotHour = 8
	lastSlotHour  = 18
)

func hourLabel(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

func slotStarts() []string {
	starts := make([]string, 0, lastSlotHour-firstSlotHour)
	for h := firstSlotHour; h < lastSlotHour; h++ {
		starts = append(starts, hourLabel(h))
	}
	return starts
}

func (s *Store) ListReservations(_ context.Context, date string) ([]entity.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Reservation, 0)
	for _, r := range s.reservations {
		if date == "" || r.Date == date {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].SlotStart < out[j].SlotStart
	})
	return out, nil
}

func (s *Store) takenLocked(date, start string) bool {
	for _, r := range s.reservations {
		if r.Date == date && r.SlotStart == start && r.Status != ReservationCancelled {
			return true
		}
	}
	return false
}

func (s *Store) AvailableSlots(_ context.Context, date string, _ int64) ([]entity.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slots := make([]entity.Slot, 0, lastSlotHour-firstSlotHour)
	for h := firstSlotHour; h < lastSlotHour; h++ {
		start := hourLabel(h)
		slots = append(slots, entity.Slot{
			Start:     start,
			End:       hourLabel(h + 1),
			Available: !s.takenLocked(date, start),
		})
	}
	return slots, nil
}

func (s *Store) CreateReservation(_ context.Context, r *entity.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	valid := false
	for _, start := range slotStarts() {
		if start == r.SlotStart {
			valid = true
			break
		}
	}
	if !valid {
		return apperror.NewFieldError("slot_start", "not a bookable slot")
	}
	if s.takenLocked(r.Date, r.SlotStart) {
		return apperror.NewConflictError("Slot already booked")
	}

	s.nextReservationID++
	r.ID = s.nextReservationID
	r.Status = ReservationBooked
	r.CreatedAt = s.now()
	cp := *r
	s.reservations[r.ID] = &cp
	return nil
}

func (s *Store) CancelReservation(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return apperror.NewNotFoundError("Reservation")
	}
	r.Status = ReservationCancelled
	return nil
}
