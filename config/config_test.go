package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadFromEnv parses an AppConfig from the ambient environment, which tests
// control via t.Setenv.
func loadFromEnv(t *testing.T) (*AppConfig, error) {
	t.Helper()
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.Sanitize()
	return &cfg, nil
}

func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("NODE_ENV", "")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("ALLOWED_EMAIL_DOMAINS", "cs.example.edu")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
}

func TestAppConfig_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := loadFromEnv(t)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProd())
	assert.Equal(t, AuthModeGoogle, cfg.Auth.Mode)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "web/public", cfg.HTTP.PublicDir)
	assert.Equal(t, "/home.html", cfg.HTTP.LandingPath)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, PrincipalModeStateless, cfg.Session.PrincipalMode)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "gatehouse", cfg.Mongo.Database)
}

func TestAppConfig_Overrides(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_PRINCIPAL_MODE", "directory")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("ALLOWED_EMAIL_DOMAINS", "a.example.edu,b.example.edu")
	t.Setenv("LANDING_PATH", "welcome.html")

	cfg, err := loadFromEnv(t)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.IsProd())
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Equal(t, PrincipalModeDirectory, cfg.Session.PrincipalMode)
	assert.Equal(t, []string{"a.example.edu", "b.example.edu"}, cfg.Auth.AllowedEmailDomains)
	// Sanitize prefixes the landing path.
	assert.Equal(t, "/welcome.html", cfg.HTTP.LandingPath)
}

func TestAppConfig_InvalidEnumValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad auth mode", key: "AUTH_MODE", value: "saml"},
		{name: "bad session store", key: "SESSION_STORE", value: "postgres"},
		{name: "bad principal mode", key: "SESSION_PRINCIPAL_MODE", value: "hybrid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setMinimalEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := loadFromEnv(t)
			assert.Error(t, err)
		})
	}
}

func TestAppConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *AppConfig)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*AppConfig) {},
		},
		{
			name:    "missing session secret",
			mutate:  func(cfg *AppConfig) { cfg.Session.Secret = "" },
			wantErr: "SESSION_SECRET",
		},
		{
			name:    "missing allowed domains",
			mutate:  func(cfg *AppConfig) { cfg.Auth.AllowedEmailDomains = nil },
			wantErr: "ALLOWED_EMAIL_DOMAINS",
		},
		{
			name:    "google mode without client id",
			mutate:  func(cfg *AppConfig) { cfg.Auth.Google.ClientID = "" },
			wantErr: "GOOGLE_CLIENT_ID",
		},
		{
			name:    "google mode without client secret",
			mutate:  func(cfg *AppConfig) { cfg.Auth.Google.ClientSecret = "" },
			wantErr: "GOOGLE_CLIENT_SECRET",
		},
		{
			name: "mock mode without google creds",
			mutate: func(cfg *AppConfig) {
				cfg.Auth.Mode = AuthModeMock
				cfg.Auth.Google = GoogleOAuthConfig{}
			},
		},
		{
			name: "directory mode without mongo uri",
			mutate: func(cfg *AppConfig) {
				cfg.Session.PrincipalMode = PrincipalModeDirectory
				cfg.Mongo.URI = ""
			},
			wantErr: "MONGO_URI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setMinimalEnv(t)
			cfg, err := loadFromEnv(t)
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSessionConfig_SanitizeTTL(t *testing.T) {
	s := SessionConfig{TTL: -time.Hour}
	s.Sanitize()
	assert.Equal(t, 24*time.Hour, s.TTL)
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name    string
		landing string
		want    string
	}{
		{name: "empty falls back", landing: "", want: "/home.html"},
		{name: "bare slash falls back", landing: "/", want: "/home.html"},
		{name: "missing prefix added", landing: "welcome.html", want: "/welcome.html"},
		{name: "valid kept", landing: "/welcome.html", want: "/welcome.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := HTTPConfig{Addr: ":8080", PublicDir: "web/public", LandingPath: tt.landing}
			h.Sanitize()
			assert.Equal(t, tt.want, h.LandingPath)
		})
	}
}
