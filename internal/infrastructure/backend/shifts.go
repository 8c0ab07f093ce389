package backend

import (
	"context"
	"net/http"

	"github.com/forto/backoffice/internal/domain/entity"
)

type startShiftRequest struct {
	CashierID int64 `json:"cashier_id"`
	ShiftID   int64 `json:"shift_id"`
}

type closeShiftRequest struct {
	CashierID int64 `json:"cashier_id"`
}

func branchPath(branchID int64) string {
	return "/api/branches/" + itoa(branchID)
}

// CurrentShift treats 204 and 404 as "no open shift"
func (c *Client) CurrentShift(ctx context.Context, branchID int64) (*entity.Shift, error) {
	var shift entity.Shift
	path := branchPath(branchID) + "/shifts/current"
	resp, err := c.request(ctx).SetResult(&shift).Get(path)
	if err != nil {
		return nil, c.transportError(http.MethodGet, path, err)
	}

	switch resp.StatusCode() {
	case http.StatusNoContent, http.StatusNotFound:
		return nil, nil
	}
	if resp.IsError() {
		return nil, c.statusError(resp, http.MethodGet, path)
	}
	if shift.ID == 0 {
		return nil, nil
	}
	return &shift, nil
}

func (c *Client) StartShift(ctx context.Context, branchID, cashierID, shiftID int64) (*entity.Shift, error) {
	var shift entity.Shift
	_, err := c.send(c.request(ctx).
		SetBody(startShiftRequest{CashierID: cashierID, ShiftID: shiftID}).
		SetResult(&shift), http.MethodPost, branchPath(branchID)+"/shifts")
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (c *Client) CloseShift(ctx context.Context, branchID, shiftID, cashierID int64) error {
	_, err := c.send(c.request(ctx).
		SetBody(closeShiftRequest{CashierID: cashierID}),
		http.MethodPost, branchPath(branchID)+"/shifts/"+itoa(shiftID)+"/close")
	return err
}

func (c *Client) ShiftDefinitions(ctx context.Context, branchID int64) ([]entity.ShiftDefinition, error) {
	var defs []entity.ShiftDefinition
	_, err := c.send(c.request(ctx).SetResult(&defs), http.MethodGet, branchPath(branchID)+"/shift-definitions")
	if err != nil {
		return nil, err
	}
	return defs, nil
}
