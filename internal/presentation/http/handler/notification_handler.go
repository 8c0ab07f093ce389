package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/forto/backoffice/internal/application/service"
	"github.com/forto/backoffice/internal/presentation/http/dto/request"
	"github.com/forto/backoffice/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// WebhookSecretHeader carries the shared secret of backend push calls
const WebhookSecretHeader = "X-Webhook-Secret"

const streamKeepAlive = 25 * time.Second

// NotificationHandler handles backend pushes and the staff notification feed
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Hook receives a push event from the backend
// @Router /hooks/notifications [post]
func (h *NotificationHandler) Hook(c *gin.Context) {
	if !h.notificationService.Authorize(c.GetHeader(WebhookSecretHeader)) {
		response.Unauthorized(c, "Invalid webhook secret")
		return
	}

	var req request.NotificationHookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	delivered, err := h.notificationService.Publish(c.Request.Context(), service.PushEvent{
		Type:       req.Type,
		Message:    req.Message,
		InvoiceID:  req.InvoiceID,
		EmployeeID: req.EmployeeID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, "Notification accepted", gin.H{"delivered": delivered})
}

// List returns the caller's notifications, newest first
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}

	response.OK(c, "Notifications retrieved", gin.H{
		"notifications": h.notificationService.List(sess),
		"unread":        sess.UnreadCount(),
	})
}

// MarkRead flags every notification as read
// @Router /notifications/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}

	h.notificationService.MarkAllRead(sess)
	response.OK(c, "Notifications marked as read", gin.H{"unread": 0})
}

// Stream pushes new notifications as server-sent events until the client leaves
// @Router /notifications/stream [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}

	events, cancel := h.notificationService.Subscribe(sess.ID())
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case n, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("notification", n)
			return true
		case <-ticker.C:
			if sess.Closed() {
				return false
			}
			c.SSEvent("ping", gin.H{"unread": sess.UnreadCount()})
			return true
		}
	})
}
