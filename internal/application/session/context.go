// Package session holds the per-login application context.
//
// Ownership: the auth flow is the only writer of the identity; the shift gate and
// the shift service are the only writers of the shift cache. Everything else reads
// snapshots and must re-read after any blocking call instead of holding them.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/forto/backoffice/internal/application/invoicelist"
	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
)

// ModalKind names the dialog currently open over the invoice list
type ModalKind string

const (
	ModalNone           ModalKind = ""
	ModalPay            ModalKind = "pay"
	ModalAdjust         ModalKind = "adjust"
	ModalDeleteRequest  ModalKind = "delete_request"
	ModalInvoiceDetails ModalKind = "details"
)

// IsValid reports whether k names a known dialog
func (k ModalKind) IsValid() bool {
	switch k {
	case ModalNone, ModalPay, ModalAdjust, ModalDeleteRequest, ModalInvoiceDetails:
		return true
	}
	return false
}

// ModalState is the dialog flag observed by the rendering layer
type ModalState struct {
	Kind      ModalKind `json:"kind"`
	InvoiceID int64     `json:"invoice_id,omitempty"`
}

const maxNotifications = 100

// Context is the application context of one logged-in staff member
type Context struct {
	id        string
	createdAt time.Time
	newList   func() *invoicelist.Controller
	// unix nanoseconds of the last authenticated request
	lastSeen atomic.Int64

	mu            sync.RWMutex
	identity      *entity.Identity
	shift         *entity.Shift
	notifications []entity.Notification
	invoices      *invoicelist.Controller
	modal         ModalState
	closed        bool
}

func newContext(id string, identity entity.Identity, newList func() *invoicelist.Controller) *Context {
	ctx := &Context{
		id:        id,
		createdAt: time.Now(),
		newList:   newList,
		identity:  &identity,
	}
	ctx.lastSeen.Store(ctx.createdAt.UnixNano())
	return ctx
}

// ID is the session identifier (the JWT ID of its tokens)
func (s *Context) ID() string {
	return s.id
}

// CreatedAt is when the session was opened
func (s *Context) CreatedAt() time.Time {
	return s.createdAt
}

// Touch records use of the session
func (s *Context) Touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

// LastSeen is when the session was last used
func (s *Context) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Identity returns a copy of the authenticated identity; false once the session is cleared
func (s *Context) Identity() (entity.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return entity.Identity{}, false
	}
	return *s.identity, true
}

// Role is the identity's role, empty after logout
func (s *Context) Role() enum.Role {
	id, ok := s.Identity()
	if !ok {
		return ""
	}
	return id.Role
}

// Closed reports whether the session has been cleared
func (s *Context) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Shift returns a copy of the cached shift, nil when none is cached
func (s *Context) Shift() *entity.Shift {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.shift == nil {
		return nil
	}
	cp := *s.shift
	return &cp
}

// ReplaceShift swaps the cached shift wholesale; nil clears it
func (s *Context) ReplaceShift(shift *entity.Shift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if shift == nil {
		s.shift = nil
		return
	}
	cp := *shift
	s.shift = &cp
}

// InvoiceList returns the session's list controller, creating it on first use
func (s *Context) InvoiceList() *invoicelist.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.invoices == nil && !s.closed && s.newList != nil {
		s.invoices = s.newList()
	}
	return s.invoices
}

// ActiveInvoiceList returns the controller only if it was already created
func (s *Context) ActiveInvoiceList() *invoicelist.Controller {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.invoices
}

// Modal returns the open dialog
func (s *Context) Modal() ModalState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modal
}

// OpenModal sets the open dialog
func (s *Context) OpenModal(kind ModalKind, invoiceID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = ModalState{Kind: kind, InvoiceID: invoiceID}
}

// CloseModal clears the dialog flag
func (s *Context) CloseModal() {
	s.OpenModal(ModalNone, 0)
}

// AddNotification appends a push event, keeping the newest ones
func (s *Context) AddNotification(n entity.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.notifications = append(s.notifications, n)
	if over := len(s.notifications) - maxNotifications; over > 0 {
		s.notifications = append([]entity.Notification(nil), s.notifications[over:]...)
	}
}

// Notifications returns the stored events, newest last
func (s *Context) Notifications() []entity.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// UnreadCount counts events not yet marked read
func (s *Context) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, item := range s.notifications {
		if !item.Read {
			n++
		}
	}
	return n
}

// MarkAllRead flags every stored event as read
func (s *Context) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
}

// Clear drops identity, shift cache, notifications and the list controller.
// It is the only reset of a context and is called on logout.
func (s *Context) Clear() {
	s.mu.Lock()
	list := s.invoices
	s.identity = nil
	s.shift = nil
	s.notifications = nil
	s.invoices = nil
	s.modal = ModalState{}
	s.closed = true
	s.mu.Unlock()

	if list != nil {
		list.Close()
	}
}
