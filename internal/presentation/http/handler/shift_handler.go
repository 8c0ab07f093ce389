package handler

import (
	"github.com/forto/backoffice/internal/application/service"
	"github.com/forto/backoffice/internal/application/shiftgate"
	"github.com/forto/backoffice/internal/presentation/http/dto/request"
	"github.com/forto/backoffice/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// ShiftHandler handles the cashier shift lifecycle
type ShiftHandler struct {
	shiftService *service.ShiftService
	gate         *shiftgate.Gate
}

// NewShiftHandler creates a new shift handler
func NewShiftHandler(shiftService *service.ShiftService, gate *shiftgate.Gate) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService, gate: gate}
}

// Current returns the branch's open shift
// @Router /shifts/current [get]
func (h *ShiftHandler) Current(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}

	status, err := h.shiftService.Current(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Shift status retrieved", status)
}

// Start opens a shift and tells the client where to go next
// @Router /shifts/start [post]
func (h *ShiftHandler) Start(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}

	var req request.StartShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	shift, err := h.shiftService.Start(c.Request.Context(), sess, req.ShiftID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Shift started", gin.H{
		"shift":       shift,
		"redirect_to": h.gate.LandingPath(),
	})
}

// Close ends the caller's shift
// @Router /shifts/close [post]
func (h *ShiftHandler) Close(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}

	if err := h.shiftService.Close(c.Request.Context(), sess); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Shift closed", gin.H{"redirect_to": h.gate.StartShiftPath()})
}

// Definitions lists the shifts a cashier can open
// @Router /shifts/definitions [get]
func (h *ShiftHandler) Definitions(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}

	defs, err := h.shiftService.Definitions(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Shift definitions retrieved", defs)
}
