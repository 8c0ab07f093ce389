package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"github.com/forto/backoffice/internal/application/session"
	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const streamBuffer = 16

// PushEvent is a notification pushed by the backend.
// EmployeeID targets one employee; nil broadcasts to every session.
type PushEvent struct {
	Type       entity.NotificationType `json:"type"`
	Message    string                  `json:"message"`
	InvoiceID  *int64                  `json:"invoice_id,omitempty"`
	EmployeeID *int64                  `json:"employee_id,omitempty"`
}

// NotificationService fans backend push events out to live sessions
type NotificationService struct {
	sessions      *session.Store
	webhookSecret string
	log           *zap.Logger
	now           func() time.Time

	mu      sync.Mutex
	streams map[string]map[int]chan entity.Notification
	nextID  int
}

// NewNotificationService creates a new notification service. An empty secret
// rejects every webhook call.
func NewNotificationService(sessions *session.Store, webhookSecret string, log *zap.Logger) *NotificationService {
	return &NotificationService{
		sessions:      sessions,
		webhookSecret: webhookSecret,
		log:           log,
		now:           time.Now,
		streams:       make(map[string]map[int]chan entity.Notification),
	}
}

// Authorize checks the shared secret presented by the backend
func (s *NotificationService) Authorize(secret string) bool {
	if s.webhookSecret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(s.webhookSecret)) == 1
}

// Publish stores the event on the targeted sessions and streams it to their
// subscribers. A processed deletion refreshes every live invoice list since
// the affected invoice may be on anyone's screen.
func (s *NotificationService) Publish(ctx context.Context, event PushEvent) (int, error) {
	switch event.Type {
	case entity.NotificationDeletionProcessed, entity.NotificationInfo:
	default:
		return 0, apperror.NewFieldError("type", "unknown notification type")
	}
	if strings.TrimSpace(event.Message) == "" {
		return 0, apperror.NewFieldError("message", "is required")
	}

	n := entity.Notification{
		ID:        uuid.New(),
		Type:      event.Type,
		Message:   event.Message,
		InvoiceID: event.InvoiceID,
		CreatedAt: s.now(),
	}

	var (
		delivered int
		wg        sync.WaitGroup
	)
	s.sessions.Each(func(sess *session.Context) {
		identity, ok := sess.Identity()
		if !ok {
			return
		}
		if event.EmployeeID == nil || *event.EmployeeID == identity.EmployeeID {
			sess.AddNotification(n)
			s.stream(sess.ID(), n)
			delivered++
		}

		if event.Type != entity.NotificationDeletionProcessed {
			return
		}
		if list := sess.ActiveInvoiceList(); list != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				list.Refresh(ctx)
			}()
		}
	})
	wg.Wait()

	s.log.Info("notification published",
		zap.String("type", string(event.Type)),
		zap.Int("delivered", delivered),
	)
	return delivered, nil
}

// List returns the notifications stored on the session
func (s *NotificationService) List(sess *session.Context) []entity.Notification {
	return sess.Notifications()
}

// MarkAllRead flags every notification of the session as read
func (s *NotificationService) MarkAllRead(sess *session.Context) {
	sess.MarkAllRead()
}

// Subscribe opens a live stream for the session. A subscriber that falls
// behind loses events; the stored list stays complete.
func (s *NotificationService) Subscribe(sessionID string) (<-chan entity.Notification, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan entity.Notification, streamBuffer)
	id := s.nextID
	s.nextID++
	if s.streams[sessionID] == nil {
		s.streams[sessionID] = make(map[int]chan entity.Notification)
	}
	s.streams[sessionID][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.streams[sessionID], id)
			if len(s.streams[sessionID]) == 0 {
				delete(s.streams, sessionID)
			}
			close(ch)
		})
	}
}

func (s *NotificationService) stream(sessionID string, n entity.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.streams[sessionID] {
		select {
		case ch <- n:
		default:
			s.log.Debug("notification stream full, event dropped", zap.String("session_id", sessionID))
		}
	}
}
