package handler

import (
	"strconv"

	"github.com/forto/backoffice/internal/application/service"
	"github.com/forto/backoffice/internal/presentation/http/dto/request"
	"github.com/forto/backoffice/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// ReservationHandler handles car-wash bookings
type ReservationHandler struct {
	reservationService *service.ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// List returns the bookings of a day
// @Router /reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	reservations, err := h.reservationService.List(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Reservations retrieved", reservations)
}

// Slots returns the bookable windows of a day
// @Router /reservations/slots [get]
func (h *ReservationHandler) Slots(c *gin.Context) {
	var serviceID int64
	if raw := c.Query("service_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(c, "Invalid service_id")
			return
		}
		serviceID = id
	}

	slots, err := h.reservationService.Slots(c.Request.Context(), c.Query("date"), serviceID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Slots retrieved", slots)
}

// Create books a slot; a 409 carries the remaining slots of the day
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}

	var req request.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	reservation, err := h.reservationService.Create(c.Request.Context(), sess, &service.CreateReservationInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PlateNumber:   req.PlateNumber,
		ServiceID:     req.ServiceID,
		Date:          req.Date,
		SlotStart:     req.SlotStart,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Reservation created", reservation)
}

// Cancel cancels a booking
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.reservationService.Cancel(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
