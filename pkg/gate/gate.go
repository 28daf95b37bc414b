package gate

import (
	"context"
	"log/slog"
	"time"

	"github.com/trafficlearn/platform-auth/pkg/session"
	"github.com/trafficlearn/platform-auth/pkg/subscription"
	"github.com/trafficlearn/platform-auth/pkg/user"
)

// Reason classifies why access was denied
type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonRole            Reason = "role"
	ReasonSubscription    Reason = "subscription"
)

// Decision is the outcome of an access check. A denial carries exactly one
// redirect target and one flash notice.
type Decision struct {
	Allowed        bool
	Reason         Reason
	RedirectTarget string
	Notice         session.Flash
}

// Paths holds the redirect targets the gate sends denied requests to
type Paths struct {
	Login               string
	AdminDashboard      string
	LearnerDashboard    string
	SchoolDashboard     string
	LearnerSubscription string
	SchoolSubscription  string
}

// DefaultPaths returns the platform's route map
func DefaultPaths() Paths {
	return Paths{
		Login:               "/login",
		AdminDashboard:      "/admin/dashboard",
		LearnerDashboard:    "/learner/dashboard",
		SchoolDashboard:     "/school/dashboard",
		LearnerSubscription: "/learner/subscription",
		SchoolSubscription:  "/school/subscription",
	}
}

// Dashboard returns the dashboard path for a role
func (p Paths) Dashboard(role user.Role) string {
	switch role {
	case user.RoleAdmin:
		return p.AdminDashboard
	case user.RoleLearner:
		return p.LearnerDashboard
	case user.RoleSchool:
		return p.SchoolDashboard
	}
	return p.Login
}

// subscriptionPage returns the renewal page for a role. Admins never reach
// the subscription check.
func (p Paths) subscriptionPage(role user.Role) string {
	switch role {
	case user.RoleLearner:
		return p.LearnerSubscription
	case user.RoleSchool:
		return p.SchoolSubscription
	case user.RoleAdmin:
		return p.AdminDashboard
	}
	return p.Login
}

// Gate composes session state and subscription lookups into per-request
// access decisions
type Gate struct {
	subs  subscription.Checker
	paths Paths
}

// NewGate creates an access control gate
func NewGate(subs subscription.Checker, paths Paths) *Gate {
	return &Gate{subs: subs, paths: paths}
}

// Paths returns the gate's route map
func (g *Gate) Paths() Paths {
	return g.paths
}

// CheckAccess evaluates the fixed denial order: login first, then role, then
// subscription. requiredRole of nil means any authenticated role; the
// subscription requirement is bypassed unconditionally for admins. A failed
// subscription lookup resolves to "no active subscription".
func (g *Gate) CheckAccess(ctx context.Context, p *session.Principal, requiredRole *user.Role, requireSubscription bool) Decision {
	if p == nil {
		return Decision{
			Reason:         ReasonUnauthenticated,
			RedirectTarget: g.paths.Login,
			Notice:         session.Flash{Type: session.FlashError, Message: "Please login to access this page"},
		}
	}

	if requiredRole != nil && p.Role != *requiredRole {
		slog.Info("Access denied by role", "userId", p.UserID, "role", p.Role, "requiredRole", *requiredRole)
		return Decision{
			Reason:         ReasonRole,
			RedirectTarget: g.paths.Dashboard(p.Role),
			Notice:         session.Flash{Type: session.FlashError, Message: "Access denied. " + roleRequirement(*requiredRole)},
		}
	}

	if requireSubscription && p.Role != user.RoleAdmin {
		active, err := g.subs.HasActive(ctx, p.UserID, time.Now())
		if err != nil {
			slog.Error("Subscription lookup failed, treating as inactive", "userId", p.UserID, "err", err)
			active = false
		}
		if !active {
			slog.Info("Access denied by subscription", "userId", p.UserID, "role", p.Role)
			return Decision{
				Reason:         ReasonSubscription,
				RedirectTarget: g.paths.subscriptionPage(p.Role),
				Notice:         session.Flash{Type: session.FlashWarning, Message: "Your subscription has expired. Please renew to continue."},
			}
		}
	}

	return Decision{Allowed: true}
}

func roleRequirement(role user.Role) string {
	switch role {
	case user.RoleAdmin:
		return "Admin privileges required."
	case user.RoleLearner:
		return "Learner account required."
	case user.RoleSchool:
		return "Driving school account required."
	}
	return "Insufficient privileges."
}
