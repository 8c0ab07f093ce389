package backend

import (
	"context"
	"net/http"

	"github.com/forto/backoffice/internal/domain/entity"
)

func (c *Client) ListReservations(ctx context.Context, date string) ([]entity.Reservation, error) {
	var out []entity.Reservation
	_, err := c.send(c.request(ctx).
		SetQueryParam("date", date).
		SetResult(&out), http.MethodGet, "/api/reservations")
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AvailableSlots(ctx context.Context, date string, serviceID int64) ([]entity.Slot, error) {
	var out []entity.Slot
	_, err := c.send(c.request(ctx).
		SetQueryParams(map[string]string{"date": date, "service_id": itoa(serviceID)}).
		SetResult(&out), http.MethodGet, "/api/reservations/slots")
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateReservation(ctx context.Context, reservation *entity.Reservation) error {
	_, err := c.send(c.request(ctx).
		SetBody(reservation).
		SetResult(reservation), http.MethodPost, "/api/reservations")
	return err
}

func (c *Client) CancelReservation(ctx context.Context, id int64) error {
	_, err := c.send(c.request(ctx), http.MethodDelete, "/api/reservations/"+itoa(id))
	return err
}
