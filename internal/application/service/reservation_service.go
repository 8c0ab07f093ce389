package service

import (
	"context"
	"strings"
	"time"

	"github.com/forto/backoffice/internal/application/session"
	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/pkg/apperror"
	"go.uber.org/zap"
)

const reservationDateLayout = "2006-01-02"

// ReservationService books wash slots
type ReservationService struct {
	reservations repository.ReservationGateway
	log          *zap.Logger
}

// NewReservationService creates a new reservation service
func NewReservationService(reservations repository.ReservationGateway, log *zap.Logger) *ReservationService {
	return &ReservationService{reservations: reservations, log: log}
}

// CreateReservationInput represents a booking request
type CreateReservationInput struct {
	CustomerName  string
	CustomerPhone string
	PlateNumber   string
	ServiceID     int64
	Date          string
	SlotStart     string
}

// SlotConflict is attached to a 409 so the client can offer the remaining slots
type SlotConflict struct {
	Date  string        `json:"date"`
	Slots []entity.Slot `json:"slots"`
}

func validDate(day string) bool {
	_, err := time.Parse(reservationDateLayout, day)
	return err == nil
}

// List returns the reservations of a day
func (s *ReservationService) List(ctx context.Context, date string) ([]entity.Reservation, error) {
	if !validDate(date) {
		return nil, apperror.NewFieldError("date", "must be a date in YYYY-MM-DD format")
	}
	return s.reservations.ListReservations(ctx, date)
}

// Slots returns the bookable windows of a day for a service
func (s *ReservationService) Slots(ctx context.Context, date string, serviceID int64) ([]entity.Slot, error) {
	if !validDate(date) {
		return nil, apperror.NewFieldError("date", "must be a date in YYYY-MM-DD format")
	}
	return s.reservations.AvailableSlots(ctx, date, serviceID)
}

// Create books a slot. When the slot was taken in the meantime the 409 carries
// the freshly fetched slots of that day.
func (s *ReservationService) Create(ctx context.Context, sess *session.Context, input *CreateReservationInput) (*entity.Reservation, error) {
	identity, ok := sess.Identity()
	if !ok {
		return nil, apperror.ErrSessionClosed
	}

	var errs []apperror.FieldError
	if strings.TrimSpace(input.CustomerName) == "" {
		errs = append(errs, apperror.FieldError{Field: "customer_name", Message: "is required"})
	}
	if input.ServiceID <= 0 {
		errs = append(errs, apperror.FieldError{Field: "service_id", Message: "is required"})
	}
	if !validDate(input.Date) {
		errs = append(errs, apperror.FieldError{Field: "date", Message: "must be a date in YYYY-MM-DD format"})
	}
	if input.SlotStart == "" {
		errs = append(errs, apperror.FieldError{Field: "slot_start", Message: "is required"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	reservation := &entity.Reservation{
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		PlateNumber:   strings.ToUpper(strings.TrimSpace(input.PlateNumber)),
		ServiceID:     input.ServiceID,
		Date:          input.Date,
		SlotStart:     input.SlotStart,
		CreatedBy:     identity.EmployeeID,
	}

	err := s.reservations.CreateReservation(ctx, reservation)
	if err == nil {
		return reservation, nil
	}
	if !apperror.IsConflict(err) {
		return nil, err
	}

	slots, slotErr := s.reservations.AvailableSlots(ctx, input.Date, input.ServiceID)
	if slotErr != nil {
		s.log.Warn("could not refresh slots after booking conflict",
			zap.String("date", input.Date),
			zap.Error(slotErr),
		)
		return nil, err
	}
	return nil, apperror.GetAppError(err).WithDetails(SlotConflict{Date: input.Date, Slots: slots})
}

// Cancel cancels a reservation
func (s *ReservationService) Cancel(ctx context.Context, id int64) error {
	return s.reservations.CancelReservation(ctx, id)
}
