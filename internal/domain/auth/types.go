package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Identity represents the verified profile returned by the identity provider.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	ProviderID  string // stable identifier issued by the provider (OIDC sub)
	DisplayName string
	Email       string // primary email; empty when the provider returned none
	AvatarURL   string
}

// Principal represents the authenticated end user for the lifetime of a session.
// UserRef is set only in the directory-backed variant and points at the local
// user record the principal was reconstituted from.
type Principal struct {
	ProviderID  string `json:"provider_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	UserRef     string `json:"user_ref,omitempty"`
}

// Session is the server-side record persisted for an authenticated user.
// ID is an opaque session identifier. Exactly one of Principal or UserRef is
// populated, depending on the serializer variant selected at startup:
// the stateless variant stores the full principal, the directory variant
// stores only the local user record reference.
type Session struct {
	ID        string     `json:"id"`
	Principal *Principal `json:"principal,omitempty"`
	UserRef   string     `json:"user_ref,omitempty"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// User is the durable record kept by the user directory in the persisted
// variant, keyed by ProviderID (unique). Profile fields are captured at first
// login and deliberately never refreshed on repeat logins.
type User struct {
	Ref         string
	ProviderID  string
	DisplayName string
	Email       string
	AvatarURL   string
	CreatedAt   time.Time
}

// PrincipalFromIdentity converts a provider identity into a principal.
func PrincipalFromIdentity(id Identity) Principal {
	return Principal{
		ProviderID:  id.ProviderID,
		DisplayName: id.DisplayName,
		Email:       id.Email,
		AvatarURL:   id.AvatarURL,
	}
}

// PrincipalFromUser converts a directory record into a principal.
func PrincipalFromUser(u User) Principal {
	return Principal{
		ProviderID:  u.ProviderID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		AvatarURL:   u.AvatarURL,
		UserRef:     u.Ref,
	}
}
