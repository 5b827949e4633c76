// Package guard decides whether a page may be shown for the current
// session state, and where to send the user when it may not.
package guard

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/philosophies/internal/client/models"
	"github.com/dmitrijs2005/philosophies/internal/client/session"
	"github.com/dmitrijs2005/philosophies/internal/logging"
)

const (
	RouteHome       = "/"
	RouteAuth       = "/auth"
	RouteAdmin      = "/admin"
	RouteAccount    = "/account"
	RoutePhilosophy = "/philosophy/"
)

type Status string

const (
	StatusChecking        Status = "checking"
	StatusUnauthenticated Status = "unauthenticated"
	StatusPendingRole     Status = "pending-role"
	StatusAuthorized      Status = "authorized"
	StatusForbidden       Status = "forbidden"
)

// Policy is what a page requires of the session.
type Policy int

const (
	Public Policy = iota
	RequireSignedOut
	RequireSignedIn
	RequireAdmin
)

// PolicyFor returns the policy of the page at path.
func PolicyFor(path string) Policy {
	switch {
	case path == RouteAdmin || strings.HasPrefix(path, RouteAdmin+"/"):
		return RequireAdmin
	case path == RouteAccount:
		return RequireSignedIn
	case path == RouteAuth:
		return RequireSignedOut
	default:
		return Public
	}
}

func PhilosophyRoute(id string) string {
	return RoutePhilosophy + id
}

// Decision is the outcome of a check. Redirect is empty when the page is
// shown (or still loading).
type Decision struct {
	Status   Status
	Redirect string
}

// Terminal reports whether the decision will not change by waiting.
func (d Decision) Terminal() bool {
	return d.Status != StatusChecking && d.Status != StatusPendingRole
}

func (d Decision) Allowed() bool {
	return d.Status == StatusAuthorized
}

// Evaluate maps a session state to a decision for a page with policy p.
// A signed-in user whose profile has not resolved is never forbidden.
func Evaluate(st session.State, p Policy) Decision {
	if p == Public {
		return Decision{Status: StatusAuthorized}
	}
	if st.Loading {
		return Decision{Status: StatusChecking}
	}

	switch p {
	case RequireSignedOut:
		if st.User != nil {
			return Decision{Status: StatusForbidden, Redirect: RouteHome}
		}
		return Decision{Status: StatusAuthorized}
	case RequireSignedIn:
		if st.User == nil {
			return Decision{Status: StatusUnauthenticated, Redirect: RouteAuth}
		}
		return Decision{Status: StatusAuthorized}
	}

	if st.User == nil {
		return Decision{Status: StatusUnauthenticated, Redirect: RouteAuth}
	}
	if !st.ProfileResolved {
		return Decision{Status: StatusPendingRole}
	}
	if st.IsAdmin {
		return Decision{Status: StatusAuthorized}
	}
	return Decision{Status: StatusForbidden, Redirect: RouteHome}
}

// Source is what the guard watches. session.Store implements it.
type Source interface {
	State() session.State
	Changed() <-chan struct{}
}

type Guard struct {
	src      Source
	notifier session.Notifier
	logger   logging.Logger
}

func New(src Source, notifier session.Notifier, logger logging.Logger) *Guard {
	if logger == nil {
		logger = logging.Discard()
	}
	if notifier == nil {
		notifier = session.NotifierFunc(func(models.Notification) {})
	}
	return &Guard{src: src, notifier: notifier, logger: logger}
}

// Check is the page-mount check. It re-evaluates on every store change
// until the decision is terminal or ctx is done, in which case the last
// non-terminal decision is returned. Admin pages that end forbidden
// notify the user.
func (g *Guard) Check(ctx context.Context, p Policy) Decision {
	for {
		changed := g.src.Changed()
		d := Evaluate(g.src.State(), p)
		if d.Terminal() {
			if d.Status == StatusForbidden && p == RequireAdmin {
				g.notifier.Notify(models.NewNotification(
					"Access denied",
					"You need administrator rights to view this page.",
					models.VariantDestructive,
				))
			}
			g.logger.Debug(ctx, "route check", "status", string(d.Status), "redirect", d.Redirect)
			return d
		}

		select {
		case <-changed:
		case <-ctx.Done():
			g.logger.Info(ctx, "route check timed out", "status", string(d.Status))
			return d
		}
	}
}
