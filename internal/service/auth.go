package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/campuslabs/gatehouse/internal/domain/auth"
	"github.com/campuslabs/gatehouse/internal/ports"
)

// DefaultSessionTTL is the session lifetime when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider   ports.AuthProvider
	Sessions   ports.SessionStore
	Serializer ports.PrincipalSerializer
	Policy     domainauth.AccessPolicy
	SessionTTL time.Duration // defaults to DefaultSessionTTL when zero
	Logger     *slog.Logger
}

// AuthService orchestrates authentication flows by coordinating the provider,
// the access policy, the principal serializer, and session persistence.
type AuthService struct {
	provider   ports.AuthProvider
	sessions   ports.SessionStore
	serializer ports.PrincipalSerializer
	policy     domainauth.AccessPolicy
	sessionTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider:   opts.Provider,
		sessions:   opts.Sessions,
		serializer: opts.Serializer,
		policy:     opts.Policy,
		sessionTTL: ttl,
		logger:     logger,
		now:        time.Now,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context) (*BeginLoginResult, error) {
	authURL, state, nonce, err := s.provider.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// LoginStatus classifies the outcome of a completed login attempt.
type LoginStatus string

const (
	// LoginSuccess means a session was established.
	LoginSuccess LoginStatus = "success"
	// LoginDenied means the provider verified the identity but the access
	// policy rejected its email. No session is established.
	LoginDenied LoginStatus = "denied"
	// LoginProviderError means the exchange, the user directory, or the
	// session store failed. No session is established.
	LoginProviderError LoginStatus = "provider_error"
)

// AuthResult is the outcome of CompleteLogin. Session is populated only when
// Status is LoginSuccess; Err carries the server-side cause for the failure
// statuses and is never shown to the client.
type AuthResult struct {
	Status  LoginStatus
	Session domainauth.Session
	Err     error
}

// CompleteLogin exchanges the authorization code for a verified identity,
// applies the access policy, serializes the principal, and persists a session.
// The policy check happens before any session or directory write, so a denied
// login cannot leak a partial session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) AuthResult {
	if input.Code == "" {
		return AuthResult{Status: LoginProviderError, Err: errors.New("authorization code is required")}
	}
	if input.State == "" {
		return AuthResult{Status: LoginProviderError, Err: errors.New("state parameter is required")}
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return AuthResult{Status: LoginProviderError, Err: fmt.Errorf("exchange authorization code: %w", err)}
	}

	if !s.policy.Allows(identity.Email) {
		return AuthResult{
			Status: LoginDenied,
			Err:    fmt.Errorf("email %q not in allowed domains", identity.Email),
		}
	}

	session := domainauth.Session{
		ID:        uuid.New().String(),
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if serErr := s.serializer.OnLogin(ctx, identity, &session); serErr != nil {
		return AuthResult{Status: LoginProviderError, Err: fmt.Errorf("serialize principal: %w", serErr)}
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return AuthResult{Status: LoginProviderError, Err: fmt.Errorf("save session: %w", saveErr)}
	}

	return AuthResult{Status: LoginSuccess, Session: session}
}

// ResolvePrincipal reconstitutes the principal for a session ID. A missing,
// expired, or unresolvable session yields an error that callers treat as
// unauthenticated, never as a failure surfaced to the client.
func (s *AuthService) ResolvePrincipal(ctx context.Context, sessionID string) (*domainauth.Principal, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(s.now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	principal, ok := s.serializer.OnRequest(ctx, session)
	if !ok {
		return nil, errors.New("session payload did not resolve to a principal")
	}

	return &principal, nil
}

// Logout removes a session. Calling it with an unknown or empty session ID is
// not an error; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to log out
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
