package repository

import (
	"context"

	"github.com/forto/backoffice/internal/domain/entity"
)

// ReservationGateway is the backend surface for bookings.
// Create returns a 409 AppError when the slot has been taken meanwhile.
type ReservationGateway interface {
	ListReservations(ctx context.Context, date string) ([]entity.Reservation, error)
	AvailableSlots(ctx context.Context, date string, serviceID int64) ([]entity.Slot, error)
	CreateReservation(ctx context.Context, reservation *entity.Reservation) error
	CancelReservation(ctx context.Context, id int64) error
}
