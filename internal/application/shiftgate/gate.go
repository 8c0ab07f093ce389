// Package shiftgate decides whether a cashier may reach an operational page.
//
// A cashier needs an active shift that they opened themselves; without one every
// gated page redirects to the start-shift page, and with one the start-shift page
// redirects to the landing page. The check runs in full on every navigation.
package shiftgate

import (
	"context"
	"path"
	"strings"

	"github.com/forto/backoffice/internal/application/session"
	"github.com/forto/backoffice/internal/domain/entity"
	"go.uber.org/zap"
)

// State is the gate's view of the cashier's shift during one check
type State string

const (
	StateUnknown  State = "unknown"
	StateChecking State = "checking"
	StateActive   State = "active"
	StateInactive State = "inactive"
)

// Outcome is the terminal result of a navigation attempt
type Outcome string

const (
	OutcomeAllow    Outcome = "allow"
	OutcomeRedirect Outcome = "redirect"
)

const (
	DefaultGatedPrefix    = "/cashier"
	DefaultStartShiftPath = "/cashier/start-shift"
	DefaultLandingPath    = "/cashier/invoices"
)

// Decision is exactly one of allow or redirect-and-block
type Decision struct {
	Outcome    Outcome       `json:"outcome"`
	RedirectTo string        `json:"redirect_to,omitempty"`
	State      State         `json:"state"`
	Target     string        `json:"target"`
	Shift      *entity.Shift `json:"shift,omitempty"`
	Reason     string        `json:"reason,omitempty"`
}

// Allowed reports whether the navigation may proceed
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}

// ShiftProvider looks up the open shift of a branch; nil, nil means none
type ShiftProvider interface {
	CurrentShift(ctx context.Context, branchID int64) (*entity.Shift, error)
}

// Config describes the gated area
type Config struct {
	// BranchID is the fixed branch context; 0 falls back to the cashier's own branch
	BranchID       int64
	GatedPrefixes  []string
	StartShiftPath string
	LandingPath    string
	// OnTransition observes every state entered during a check
	OnTransition func(State)
}

// Gate is the cashier-shift navigation guard
type Gate struct {
	provider ShiftProvider
	cfg      Config
	log      *zap.Logger
}

// New creates a gate; empty config fields take the defaults
func New(provider ShiftProvider, cfg Config, log *zap.Logger) *Gate {
	if len(cfg.GatedPrefixes) == 0 {
		cfg.GatedPrefixes = []string{DefaultGatedPrefix}
	}
	for i, p := range cfg.GatedPrefixes {
		cfg.GatedPrefixes[i] = normalize(p)
	}
	if cfg.StartShiftPath == "" {
		cfg.StartShiftPath = DefaultStartShiftPath
	}
	if cfg.LandingPath == "" {
		cfg.LandingPath = DefaultLandingPath
	}
	cfg.StartShiftPath = normalize(cfg.StartShiftPath)
	cfg.LandingPath = normalize(cfg.LandingPath)
	if log == nil {
		log = zap.NewNop()
	}

	return &Gate{provider: provider, cfg: cfg, log: log}
}

// StartShiftPath is where cashiers without a shift are sent
func (g *Gate) StartShiftPath() string {
	return g.cfg.StartShiftPath
}

// LandingPath is where cashiers with a shift are sent from the start-shift page
func (g *Gate) LandingPath() string {
	return g.cfg.LandingPath
}

// Gated reports whether target lies under one of the gated prefixes
func (g *Gate) Gated(target string) bool {
	target = normalize(target)
	for _, prefix := range g.cfg.GatedPrefixes {
		if target == prefix || strings.HasPrefix(target, prefix+"/") {
			return true
		}
	}
	return false
}

// Check runs the gate for one navigation attempt of the session's user
func (g *Gate) Check(ctx context.Context, sess *session.Context, target string) Decision {
	target = normalize(target)
	decision := Decision{Outcome: OutcomeAllow, State: StateUnknown, Target: target}
	g.enter(StateUnknown)

	if !g.Gated(target) {
		return decision
	}

	if sess == nil {
		return decision
	}
	identity, ok := sess.Identity()
	if !ok || !identity.IsCashier() {
		return decision
	}

	branchID := g.cfg.BranchID
	if branchID == 0 {
		branchID = identity.BranchID
	}

	g.enter(StateChecking)
	shift, err := g.provider.CurrentShift(ctx, branchID)
	onStartPage := target == g.cfg.StartShiftPath

	if err != nil {
		g.log.Warn("shift lookup failed",
			zap.Int64("employee_id", identity.EmployeeID),
			zap.Int64("branch_id", branchID),
			zap.String("target", target),
			zap.Error(err),
		)
		g.enter(StateInactive)
		decision.State = StateInactive
		decision.Reason = "shift lookup failed"
		if !onStartPage {
			decision.Outcome = OutcomeRedirect
			decision.RedirectTo = g.cfg.StartShiftPath
		}
		return decision
	}

	if shift.IsOwnedBy(identity.EmployeeID) {
		sess.ReplaceShift(shift)
		g.enter(StateActive)
		decision.State = StateActive
		decision.Shift = sess.Shift()
		if onStartPage {
			decision.Outcome = OutcomeRedirect
			decision.RedirectTo = g.cfg.LandingPath
			decision.Reason = "shift already active"
		}
		return decision
	}

	// A shift opened by another cashier counts as no shift at all.
	sess.ReplaceShift(nil)
	g.enter(StateInactive)
	decision.State = StateInactive
	if shift != nil && shift.Active {
		decision.Reason = "open shift belongs to another employee"
	} else {
		decision.Reason = "no active shift"
	}
	if !onStartPage {
		decision.Outcome = OutcomeRedirect
		decision.RedirectTo = g.cfg.StartShiftPath
	}
	return decision
}

func (g *Gate) enter(s State) {
	if g.cfg.OnTransition != nil {
		g.cfg.OnTransition(s)
	}
}

func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
