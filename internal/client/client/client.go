package client

import (
	"context"

	"github.com/dmitrijs2005/philosophies/internal/client/models"
)

// AuthStateListener receives session changes. session is nil after sign-out.
//
// Listeners run inside the client's own notification frame: they must return
// quickly and must not call back into the Client synchronously.
type AuthStateListener func(event models.AuthEvent, session *models.Session)

// Subscription is the handle returned by OnAuthStateChange.
type Subscription interface {
	Unsubscribe()
}

// Client is the contract of the external identity and data service.
type Client interface {
	// GetSession returns the current session (refreshing it if the access
	// token expired) or nil when nobody is signed in.
	GetSession(ctx context.Context) (*models.Session, error)
	OnAuthStateChange(listener AuthStateListener) Subscription

	SignInWithPassword(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password, redirectTo string) (*models.SignUpResult, error)
	SignOut(ctx context.Context) error
	UpdatePassword(ctx context.Context, newPassword string) error

	// QueryProfileByID returns (nil, nil) when no row matches id.
	QueryProfileByID(ctx context.Context, id string) (*models.Profile, error)
	UpdateProfileRole(ctx context.Context, id string, role models.Role) error

	Close() error
}
