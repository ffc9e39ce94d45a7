package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/campuslabs/gatehouse/internal/domain/auth"
	"github.com/campuslabs/gatehouse/internal/service"
)

// Cookie names used by the auth flow.
const (
	sessionCookieName  = "session_id"
	oauthStateCookie   = "oauth_state"
	oauthNonceCookie   = "oauth_nonce"
	postLoginCookie    = "post_login_redirect"
	oauthCookieMaxAge  = 600 // 10 minutes
	defaultLandingPath = "/home.html"
)

// AuthServiceInterface defines the auth service operations the handlers need.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) service.AuthResult
	ResolvePrincipal(ctx context.Context, sessionID string) (*domainauth.Principal, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for the login/callback/logout flow.
//
// Every failure path converges on a redirect to the public login page; the
// server-side log is the only place the causes are distinguishable.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Signer       *CookieSigner
	CookieDomain string
	Secure       bool   // set the cookie Secure flag (production-like deployments)
	LandingPath  string // post-login destination, defaults to /home.html
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) landing() string {
	if h.LandingPath != "" {
		return h.LandingPath
	}
	return defaultLandingPath
}

// Login handles the login initiation endpoint. It always begins a fresh
// provider flow regardless of any existing session.
// GET /auth/google?redirect_uri=<optional_relative_path>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	returnPath := safeRedirectPath(r.URL.Query().Get("redirect_uri"), h.landing())

	result, err := h.Svc.BeginLogin(r.Context())
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	// Park state, nonce, and the post-login destination in short-lived cookies
	// until the provider redirects back.
	h.setOAuthCookies(w, oauthCookieParams{State: result.State, Nonce: result.Nonce, ReturnPath: returnPath})

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback handles the provider redirect.
// GET /auth/google/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	stateCookie, err := r.Cookie(oauthStateCookie)
	if code == "" || state == "" || err != nil || stateCookie.Value != state {
		h.logger().WarnContext(ctx, "callback rejected",
			"missing_code", code == "",
			"state_mismatch", err != nil || stateCookie == nil || stateCookie.Value != state)
		h.clearOAuthCookies(w)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	nonce := ""
	if nonceCookie, nonceErr := r.Cookie(oauthNonceCookie); nonceErr == nil {
		nonce = nonceCookie.Value
	}

	result := h.Svc.CompleteLogin(ctx, service.CompleteLoginInput{Code: code, State: state, Nonce: nonce})
	returnPath := h.postLoginRedirect(w, r)
	h.clearOAuthCookies(w)

	switch result.Status {
	case service.LoginSuccess:
		h.setSessionCookie(w, result.Session)
		http.Redirect(w, r, returnPath, http.StatusFound)
	case service.LoginDenied:
		h.logger().InfoContext(ctx, "login denied by access policy", "error", result.Err)
		http.Redirect(w, r, "/", http.StatusFound)
	default:
		h.logger().ErrorContext(ctx, "login failed", "error", result.Err)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// Logout destroys the session unconditionally and redirects to the login
// page. Calling it twice, or with no session at all, is not an error.
// GET /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := h.sessionIDFromRequest(r); ok {
		if err := h.Svc.Logout(r.Context(), sessionID); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}

	h.clearCookie(w, sessionCookieName)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Status returns the current authentication status as JSON.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	principal := h.principalFromRequest(r)
	if principal == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":         principal.ProviderID,
			"name":       principal.DisplayName,
			"email":      principal.Email,
			"avatar_url": principal.AvatarURL,
		},
	})
}

// principalFromRequest resolves the session cookie to a principal.
// Any failure (missing cookie, bad signature, unknown or expired session,
// unresolvable payload) yields nil: unauthenticated, never an error.
func (h *AuthHandlers) principalFromRequest(r *http.Request) *domainauth.Principal {
	sessionID, ok := h.sessionIDFromRequest(r)
	if !ok {
		return nil
	}
	principal, err := h.Svc.ResolvePrincipal(r.Context(), sessionID)
	if err != nil {
		return nil
	}
	return principal
}

func (h *AuthHandlers) sessionIDFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", false
	}
	return h.Signer.Verify(cookie.Value)
}

// oauthCookieParams groups values for the temporary OAuth cookies.
type oauthCookieParams struct {
	State      string
	Nonce      string
	ReturnPath string
}

func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, p oauthCookieParams) {
	for name, value := range map[string]string{
		oauthStateCookie: p.State,
		oauthNonceCookie: p.Nonce,
		postLoginCookie:  p.ReturnPath,
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Domain:   h.CookieDomain,
			HttpOnly: true,
			Secure:   h.Secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   oauthCookieMaxAge,
		})
	}
}

func (h *AuthHandlers) clearOAuthCookies(w http.ResponseWriter) {
	h.clearCookie(w, oauthStateCookie)
	h.clearCookie(w, oauthNonceCookie)
	h.clearCookie(w, postLoginCookie)
}

// setSessionCookie writes the signed session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    h.Signer.Sign(s.ID),
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// clearCookie clears a cookie by setting it to expire immediately. It mirrors
// the attributes used when setting cookies to maximize compatibility across
// browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.Secure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// postLoginRedirect returns the parked post-login destination and clears its cookie.
func (h *AuthHandlers) postLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	returnPath := h.landing()
	if cookie, err := r.Cookie(postLoginCookie); err == nil {
		returnPath = safeRedirectPath(cookie.Value, h.landing())
		h.clearCookie(w, postLoginCookie)
	}
	return returnPath
}

// safeRedirectPath ensures the candidate is a same-origin relative path
// starting with "/" and not an absolute URL. Returns fallback when invalid.
func safeRedirectPath(candidate, fallback string) string {
	if candidate == "" {
		return fallback
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return fallback
	}
	return candidate
}
