package config

import (
	"errors"
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeGoogle uses Google OAuth2/OIDC for authentication.
	AuthModeGoogle AuthMode = "google"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "google", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: google, mock)", v)
	}
}

// GoogleOAuthConfig contains Google OAuth2 configuration. The client ID and
// secret have no defaults: a deployment without them must fail at startup,
// never run with placeholder credentials.
type GoogleOAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL" envDefault:"http://localhost:8080/auth/google/callback"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	ProviderID  string `env:"PROVIDER_ID" envDefault:"dev-user"`
	Email       string `env:"EMAIL"       envDefault:"dev@example.com"`
	DisplayName string `env:"NAME"        envDefault:"Dev User"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"google"`

	// Google configuration (used when Mode=google).
	Google GoogleOAuthConfig `envPrefix:"GOOGLE_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AllowedEmailDomains is the access policy allow list: a login is
	// accepted only when the verified email's domain is one of these
	// suffixes or a subdomain of one.
	AllowedEmailDomains []string `env:"ALLOWED_EMAIL_DOMAINS" envSeparator:","`
}

// Validate enforces the required auth configuration for the selected mode.
func (a *AuthConfig) Validate() error {
	if len(a.AllowedEmailDomains) == 0 {
		return errors.New("ALLOWED_EMAIL_DOMAINS is required: without it no login can succeed")
	}
	if a.Mode == AuthModeGoogle {
		if a.Google.ClientID == "" {
			return errors.New("GOOGLE_CLIENT_ID is required when AUTH_MODE=google")
		}
		if a.Google.ClientSecret == "" {
			return errors.New("GOOGLE_CLIENT_SECRET is required when AUTH_MODE=google")
		}
	}
	return nil
}
