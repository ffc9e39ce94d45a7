package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/campuslabs/gatehouse/internal/domain/auth"
)

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an
	// opaque state, and a nonce. The OAuth callback URL is fixed provider
	// configuration, not a per-call input.
	Begin(ctx context.Context) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the verified identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions. Implementations must be
// safe for concurrent use; last-write-wins per session ID is acceptable.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// PrincipalSerializer converts an authenticated identity into the session
// payload at login time and reconstitutes the principal from a stored session
// on each subsequent request.
type PrincipalSerializer interface {
	// OnLogin fills the session's payload fields from the identity.
	// The directory-backed implementation performs the user find-or-create
	// here; any directory failure is returned as an error so the login is
	// rejected rather than silently degraded.
	OnLogin(ctx context.Context, id domainauth.Identity, sess *domainauth.Session) error

	// OnRequest resolves the principal from a stored session. A payload that
	// no longer resolves (record deleted out-of-band, directory unreachable)
	// yields ok=false and is treated as unauthenticated, never as an error.
	OnRequest(ctx context.Context, sess domainauth.Session) (p domainauth.Principal, ok bool)
}

// UserDirectory is the durable user store for the persisted variant.
type UserDirectory interface {
	// FindOrCreate returns the record for the identity's provider ID,
	// inserting it first if absent. Concurrent calls for the same provider ID
	// must never create duplicates. Existing records are returned unchanged:
	// stale profile fields are not refreshed on repeat logins.
	FindOrCreate(ctx context.Context, id domainauth.Identity) (domainauth.User, error)

	// FindByRef looks up a record by its local reference.
	// Returns ErrNotFound when the reference does not resolve.
	FindByRef(ctx context.Context, ref string) (domainauth.User, error)
}

// ErrNotFound is returned by stores when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}
